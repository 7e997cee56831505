package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/term-list-popup/internal/searchprovider"
)

func TestStubProviderReversesMetas(t *testing.T) {
	p := NewStubProvider("a", "alpha", "b", "beta")
	p.Reverse = true
	ids, err := p.GetInitialResultSet(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metas, err := p.GetResultMetas(context.Background(), ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metas) != 2 || metas[0].ID != "b" || metas[1].ID != "a" {
		t.Fatalf("expected reversed metas, got %+v", metas)
	}
	if p.Calls(searchprovider.MethodGetResultMetas) != 1 {
		t.Fatalf("expected one meta call")
	}
}

func TestStubProviderFiltersByTerms(t *testing.T) {
	p := NewStubProvider("a", "Vim main.go", "b", "htop")
	ids, _ := p.GetInitialResultSet(context.Background(), []string{"VIM"})
	if len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("expected only a, got %v", ids)
	}
	sub, _ := p.GetSubsearchResultSet(context.Background(), []string{"a", "b"}, []string{"top"})
	if len(sub) != 1 || sub[0] != "b" {
		t.Fatalf("expected only b, got %v", sub)
	}
}

func TestStubProviderRecordsActivations(t *testing.T) {
	p := NewStubProvider("a", "alpha")
	p.ActivateErr = errors.New("stale id")
	if err := p.ActivateResult(context.Background(), "a", nil, 7); err == nil {
		t.Fatalf("expected scripted error")
	}
	acts := p.Activations()
	if len(acts) != 1 || acts[0].ID != "a" || acts[0].Timestamp != 7 {
		t.Fatalf("unexpected activations %+v", acts)
	}
}
