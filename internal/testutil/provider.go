package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/atomicstack/term-list-popup/internal/searchprovider"
)

// Activation records one ActivateResult call.
type Activation struct {
	ID        string
	Terms     []string
	Timestamp uint32
}

// StubProvider is a scripted in-memory search provider.
type StubProvider struct {
	mu sync.Mutex

	terminals []searchprovider.ResultMeta

	// Reverse returns metas in the opposite order of the request.
	Reverse bool
	// Extra metas are appended to every GetResultMetas reply.
	Extra []searchprovider.ResultMeta

	ListErr     error
	MetaErr     error
	ActivateErr error

	calls        map[string]int
	metaRequests [][]string
	activations  []Activation
}

var _ searchprovider.Provider = (*StubProvider)(nil)

// NewStubProvider returns a provider serving the given id/title pairs.
func NewStubProvider(pairs ...string) *StubProvider {
	p := &StubProvider{calls: map[string]int{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		p.terminals = append(p.terminals, searchprovider.ResultMeta{ID: pairs[i], Name: pairs[i+1]})
	}
	return p
}

// SetTerminals replaces the served terminals.
func (p *StubProvider) SetTerminals(metas ...searchprovider.ResultMeta) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminals = append([]searchprovider.ResultMeta(nil), metas...)
}

// Calls returns how many times method was invoked.
func (p *StubProvider) Calls(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

// MetaRequests returns the id lists passed to GetResultMetas.
func (p *StubProvider) MetaRequests() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]string, len(p.metaRequests))
	for i, req := range p.metaRequests {
		out[i] = append([]string(nil), req...)
	}
	return out
}

// Activations returns the recorded ActivateResult calls.
func (p *StubProvider) Activations() []Activation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Activation(nil), p.activations...)
}

func (p *StubProvider) count(method string) {
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[method]++
}

func (p *StubProvider) GetInitialResultSet(ctx context.Context, terms []string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count(searchprovider.MethodGetInitialResultSet)
	if p.ListErr != nil {
		return nil, p.ListErr
	}
	ids := make([]string, 0, len(p.terminals))
	for _, t := range p.terminals {
		if matchesTerms(t.Name, terms) {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (p *StubProvider) GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count(searchprovider.MethodGetSubsearchResultSet)
	if p.ListErr != nil {
		return nil, p.ListErr
	}
	names := make(map[string]string, len(p.terminals))
	for _, t := range p.terminals {
		names[t.ID] = t.Name
	}
	ids := make([]string, 0, len(previous))
	for _, id := range previous {
		if name, ok := names[id]; ok && matchesTerms(name, terms) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (p *StubProvider) GetResultMetas(ctx context.Context, ids []string) ([]searchprovider.ResultMeta, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count(searchprovider.MethodGetResultMetas)
	p.metaRequests = append(p.metaRequests, append([]string(nil), ids...))
	if p.MetaErr != nil {
		return nil, p.MetaErr
	}
	byID := make(map[string]searchprovider.ResultMeta, len(p.terminals))
	for _, t := range p.terminals {
		byID[t.ID] = t
	}
	metas := make([]searchprovider.ResultMeta, 0, len(ids)+len(p.Extra))
	for _, id := range ids {
		if meta, ok := byID[id]; ok {
			metas = append(metas, meta)
		}
	}
	if p.Reverse {
		for i, j := 0, len(metas)-1; i < j; i, j = i+1, j-1 {
			metas[i], metas[j] = metas[j], metas[i]
		}
	}
	return append(metas, p.Extra...), nil
}

func (p *StubProvider) ActivateResult(ctx context.Context, id string, terms []string, timestamp uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count(searchprovider.MethodActivateResult)
	p.activations = append(p.activations, Activation{ID: id, Terms: append([]string(nil), terms...), Timestamp: timestamp})
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.ActivateErr
}

func (p *StubProvider) LaunchSearch(ctx context.Context, terms []string, timestamp uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count(searchprovider.MethodLaunchSearch)
	return nil
}

func matchesTerms(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, term := range terms {
		if !strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
