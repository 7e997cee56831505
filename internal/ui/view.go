package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// PanelLocation places the toggle button within the panel bar.
type PanelLocation string

const (
	// PanelDefault right-aligns the button.
	PanelDefault PanelLocation = "default"
	// PanelLeft puts the button straight after the title.
	PanelLeft PanelLocation = "left"
	// PanelFarLeft puts the button at column 0.
	PanelFarLeft PanelLocation = "far-left"
)

const (
	panelTitle  = " term-list "
	buttonLabel = "≡ Terminals"
	// rows above the first entry: panel bar and filter field
	entriesTop = 2
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool
}

// View renders the panel bar, the menu when open, and the status line.
func (m *Model) View() string {
	bar, _, _ := m.panelBar()
	lines := []styledLine{{text: bar, raw: true}}
	switch {
	case m.open:
		lines = append(lines, styledLine{text: m.filter.View(), raw: true})
		lines = append(lines, m.entryLines()...)
	case m.pending:
		lines = append(lines, styledLine{text: "Loading terminals…", style: styles.Loading})
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.keys.footer(m.open), style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-1, m.width)
	lines = applyWidth(lines, m.width)

	var status styledLine
	if m.errMsg != "" {
		status = styledLine{text: m.errMsg, style: styles.Error}
	}
	lines = append(lines, applyWidth([]styledLine{status}, m.width)...)
	return renderLines(lines)
}

// panelBar renders the bar and returns the button's column range [start, end).
func (m *Model) panelBar() (string, int, int) {
	title := renderStyle(styles.PanelTitle, panelTitle)
	buttonStyle := styles.PanelButton
	if m.open || m.pending {
		buttonStyle = styles.PanelButtonActive
	}
	button := renderStyle(buttonStyle, buttonLabel)
	titleW := lipgloss.Width(title)
	buttonW := lipgloss.Width(button)

	gap := func(n int) string {
		if n < 1 {
			n = 1
		}
		return renderStyle(styles.PanelBar, strings.Repeat(" ", n))
	}
	fill := func(used int) string {
		if m.width <= used {
			return ""
		}
		return renderStyle(styles.PanelBar, strings.Repeat(" ", m.width-used))
	}

	switch m.panelLocation {
	case PanelFarLeft:
		return button + title + fill(buttonW+titleW), 0, buttonW
	case PanelLeft:
		start := titleW + 1
		return title + gap(1) + button + fill(start+buttonW), start, start + buttonW
	default:
		start := titleW + 1
		if m.width > titleW+buttonW {
			start = m.width - buttonW
		}
		return title + gap(start-titleW) + button, start, start + buttonW
	}
}

func (m *Model) entryLines() []styledLine {
	visible := m.menu.VisibleIndexes()
	if len(visible) == 0 {
		text := "(no terminals)"
		if m.menu.Filter != "" {
			text = fmt.Sprintf("No matches for %q", m.menu.Filter)
		}
		return []styledLine{{text: text, style: styles.Empty}}
	}
	start, end := m.visibleWindow(len(visible))
	lines := make([]styledLine, 0, end-start)
	for _, idx := range visible[start:end] {
		lines = append(lines, m.buildItemLine(idx, m.width))
	}
	return lines
}

// visibleWindow returns the slice of visible rows currently on screen.
func (m *Model) visibleWindow(total int) (int, int) {
	start := 0
	end := total
	if maxItems := m.maxVisibleItems(); maxItems > 0 && total > maxItems {
		start = m.menu.ViewportOffset
		if start < 0 {
			start = 0
		}
		if start+maxItems > total {
			start = total - maxItems
		}
		end = start + maxItems
	}
	return start, end
}

// buildItemLine renders one entry. When width > 0 the text is padded so the
// focused entry's background spans the full row.
func (m *Model) buildItemLine(idx, width int) styledLine {
	entry := m.menu.Entries[idx]
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if idx == m.menu.Focus {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	label := entry.Item.Label
	if m.verbose {
		label = fmt.Sprintf("%s  [%s]", label, entry.Item.ID)
	}
	fullText := "▌ " + label
	if width > 0 {
		if pad := width - runewidth.StringWidth(fullText); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func (m *Model) syncViewport() {
	m.menu.EnsureFocusVisible(m.maxVisibleItems())
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeFilter()
	m.syncViewport()
	return nil
}

func (m *Model) resizeFilter() {
	if m.width <= 0 {
		return
	}
	if w := m.width - lipgloss.Width(m.filter.Prompt) - 1; w > 0 {
		m.filter.Width = w
	}
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := entriesTop + 1 // status line
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func renderStyle(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return runewidth.Truncate(text, 1, "")
	}
	return runewidth.Truncate(text, width, "…")
}
