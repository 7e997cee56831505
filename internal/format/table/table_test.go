package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"ID", "TITLE", "N"},
		{"a1", "vim", "7"},
		{"b22", "htop", "12"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignLeft, AlignRight})
	assert.Equal(t, []string{
		"ID   TITLE   N",
		"a1   vim     7",
		"b22  htop   12",
	}, got)
}

func TestFormatMeasuresDisplayCells(t *testing.T) {
	rows := [][]string{
		{"端末", "x"},
		{"ab", "y"},
	}
	got := Format(rows, nil)
	assert.Equal(t, []string{"端末  x", "ab    y"}, got)
}

func TestFormatPadsShortRows(t *testing.T) {
	got := Format([][]string{{"a", "b"}, {"ccc"}}, nil)
	assert.Equal(t, []string{"a    b", "ccc  "}, got)
}

func TestFormatEmpty(t *testing.T) {
	assert.Nil(t, Format(nil, nil))
}
