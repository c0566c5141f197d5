package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/resolver"
)

// Page is an in-memory browser where a fixed set of expressions is visible.
// Every navigation and element interaction is recorded. It is safe for
// concurrent use.
type Page struct {
	mu       sync.Mutex
	visible  map[string]bool
	failing  map[string]error
	visited  []string
	log      []string
	closed   bool
	navError error
}

// NewPage returns a page where the given expressions are visible.
func NewPage(visible ...string) *Page {
	p := &Page{visible: make(map[string]bool), failing: make(map[string]error)}
	for _, v := range visible {
		p.visible[v] = true
	}
	return p
}

// FailOn makes every interaction with expr return err.
func (p *Page) FailOn(expr string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[expr] = err
}

// FailNavigation makes every Navigate call return err.
func (p *Page) FailNavigation(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navError = err
}

// Visited returns the URLs loaded so far.
func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

// Log returns the interactions performed so far, as "kind expr [value]".
func (p *Page) Log() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.log...)
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Navigate records url.
func (p *Page) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.navError != nil {
		return p.navError
	}
	p.visited = append(p.visited, url)
	return nil
}

// Count returns 1 for visible expressions and 0 otherwise.
func (p *Page) Count(_ context.Context, s locator.Strategy) (int, error) {
	if p.isVisible(s.Expression) {
		return 1, nil
	}
	return 0, nil
}

// Visible returns the element for a visible expression.
func (p *Page) Visible(_ context.Context, s locator.Strategy) (resolver.Element, bool, error) {
	if p.isVisible(s.Expression) {
		return &element{page: p, expr: s.Expression}, true, nil
	}
	return nil, false, nil
}

// WaitVisible never waits: an expression is either visible or not.
func (p *Page) WaitVisible(_ context.Context, s locator.Strategy, _ time.Duration) (resolver.Element, error) {
	if p.isVisible(s.Expression) {
		return &element{page: p, expr: s.Expression}, nil
	}
	return nil, resolver.ErrNotVisible
}

// Close marks the page closed.
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Page) isVisible(expr string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible[expr]
}

func (p *Page) record(entry, expr string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failing[expr]; err != nil {
		return err
	}
	p.log = append(p.log, entry)
	return nil
}

type element struct {
	page *Page
	expr string
}

func (e *element) Click(context.Context) error {
	return e.page.record("click "+e.expr, e.expr)
}

func (e *element) Fill(_ context.Context, v string) error {
	return e.page.record("fill "+e.expr+" "+v, e.expr)
}

func (e *element) SelectOption(_ context.Context, v string) error {
	return e.page.record("select "+e.expr+" "+v, e.expr)
}

func (e *element) Check(context.Context) error {
	return e.page.record("check "+e.expr, e.expr)
}

func (e *element) Press(_ context.Context, k string) error {
	return e.page.record("press "+e.expr+" "+k, e.expr)
}
