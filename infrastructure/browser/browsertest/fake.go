// Package browsertest provides in-memory Page and Element fakes for driving
// scripts and fillers without a browser.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"
)

// FakeElement records every interaction made with it.
type FakeElement struct {
	mu       sync.Mutex
	value    string
	selected []string
	checked  bool
	clicks   int

	ClickErr error
	FillErr  error
	// OnClick runs after a successful click, e.g. to swap the page contents.
	OnClick func()

	page *FakePage
	name string
}

func (e *FakeElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.clicks++
	hook := e.OnClick
	e.mu.Unlock()

	if e.page != nil {
		e.page.record("click " + e.name)
	}
	if hook != nil {
		hook()
	}
	return nil
}

func (e *FakeElement) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FillErr != nil {
		return e.FillErr
	}
	e.value = value
	return nil
}

func (e *FakeElement) SelectOptions(ctx context.Context, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = append([]string(nil), values...)
	return nil
}

func (e *FakeElement) SetChecked(ctx context.Context, checked bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checked = checked
	return nil
}

// Value returns the last filled value
func (e *FakeElement) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Selected returns the last selected option values
func (e *FakeElement) Selected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

func (e *FakeElement) Checked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checked
}

func (e *FakeElement) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// FakePage is a Page whose elements are registered by selector.
type FakePage struct {
	mu       sync.Mutex
	url      string
	elements map[string]*FakeElement
	visits   []string
	probes   []string
	events   []string
	shots    int

	// GotoErr is returned by Goto for the mapped URL.
	GotoErr map[string]error
	// IdleErr is returned by WaitForLoadState.
	IdleErr error
	// NavigationErr is returned by ClickAndWait after a successful click.
	NavigationErr error
	// NavigatedURL and NavigatedText, when set, replace the page URL and text
	// once a ClickAndWait navigation settles. A bare click or load-state wait
	// leaves them untouched.
	NavigatedURL  string
	NavigatedText string
	// FindErr, when set, is returned by Find for every selector.
	FindErr error
	Text    string
	TextErr error
	HTML    string
}

// NewFakePage returns an empty page at url.
func NewFakePage(url string) *FakePage {
	return &FakePage{
		url:      url,
		elements: make(map[string]*FakeElement),
		GotoErr:  make(map[string]error),
	}
}

// Add registers an element under sel and returns it.
func (p *FakePage) Add(sel entities.Selector) *FakeElement {
	el := &FakeElement{page: p, name: sel.String()}
	p.mu.Lock()
	p.elements[sel.String()] = el
	p.mu.Unlock()
	return el
}

// Remove unregisters the element under sel.
func (p *FakePage) Remove(sel entities.Selector) {
	p.mu.Lock()
	delete(p.elements, sel.String())
	p.mu.Unlock()
}

// Visits returns every URL passed to Goto, in order.
func (p *FakePage) Visits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visits...)
}

// Probes returns every selector passed to Find, in order.
func (p *FakePage) Probes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.probes...)
}

// Events returns clicks and waits in the order they happened, e.g.
// "wait networkidle 1s", "click #submit", "navigation wait 30s".
func (p *FakePage) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *FakePage) record(event string) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

// Screenshots returns how many screenshots were taken.
func (p *FakePage) Screenshots() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shots
}

func (p *FakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *FakePage) Goto(ctx context.Context, url string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visits = append(p.visits, url)
	if err := p.GotoErr[url]; err != nil {
		return err
	}
	p.url = url
	return nil
}

func (p *FakePage) WaitForLoadState(ctx context.Context, state interfaces.LoadState, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, fmt.Sprintf("wait %s %s", state, timeout))
	return p.IdleErr
}

// ClickAndWait clicks el, then settles the navigation: NavigationErr is
// returned if set, otherwise NavigatedURL and NavigatedText take effect.
func (p *FakePage) ClickAndWait(ctx context.Context, el interfaces.Element, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrClickFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, fmt.Sprintf("navigation wait %s", timeout))
	if p.NavigationErr != nil {
		return p.NavigationErr
	}
	if p.NavigatedURL != "" {
		p.url = p.NavigatedURL
	}
	if p.NavigatedText != "" {
		p.Text = p.NavigatedText
	}
	return nil
}

func (p *FakePage) Find(ctx context.Context, sel entities.Selector) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = append(p.probes, sel.String())
	if p.FindErr != nil {
		return nil, p.FindErr
	}
	el, ok := p.elements[sel.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrElementNotFound, sel)
	}
	return el, nil
}

func (p *FakePage) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Text, p.TextErr
}

func (p *FakePage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.HTML, nil
}

// Screenshot writes a placeholder PNG header to path.
func (p *FakePage) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.shots++
	p.mu.Unlock()
	return os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644)
}

// FakeSession wraps a FakePage.
type FakeSession struct {
	FakePage *FakePage
	Closed   bool
}

func (s *FakeSession) Page() interfaces.Page { return s.FakePage }

func (s *FakeSession) Close() error {
	s.Closed = true
	return nil
}

// FakeBrowser hands out sessions built by NewPage.
type FakeBrowser struct {
	mu       sync.Mutex
	NewPage  func() *FakePage
	Err      error
	sessions []*FakeSession
}

func (b *FakeBrowser) NewSession(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.Err != nil {
		return nil, b.Err
	}
	page := NewFakePage("about:blank")
	if b.NewPage != nil {
		page = b.NewPage()
	}
	s := &FakeSession{FakePage: page}
	b.mu.Lock()
	b.sessions = append(b.sessions, s)
	b.mu.Unlock()
	return s, nil
}

func (b *FakeBrowser) Close() error { return nil }

// Sessions returns every session opened so far.
func (b *FakeBrowser) Sessions() []*FakeSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*FakeSession(nil), b.sessions...)
}

var (
	_ interfaces.Page    = (*FakePage)(nil)
	_ interfaces.Element = (*FakeElement)(nil)
	_ interfaces.Session = (*FakeSession)(nil)
	_ interfaces.Browser = (*FakeBrowser)(nil)
)
