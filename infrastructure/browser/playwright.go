package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightOptions configures the Chromium instance and the per-run contexts.
type PlaywrightOptions struct {
	Headless          bool
	SlowMo            time.Duration
	UserAgent         string
	IgnoreHTTPSErrors bool
	ViewportWidth     int
	ViewportHeight    int
	// ProbeTimeout bounds how long Find waits for an element to appear.
	ProbeTimeout time.Duration
	// ActionTimeout bounds clicks, fills and selections.
	ActionTimeout time.Duration
}

type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    PlaywrightOptions
	logger  *logrus.Logger
}

// NewPlaywrightBrowser - starts playwright and launches Chromium
func NewPlaywrightBrowser(opts PlaywrightOptions, logger *logrus.Logger) (interfaces.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
		Args: []string{
			"--disable-popup-blocking",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-infobars",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Infof("Chromium launched (headless=%t)", opts.Headless)

	return &playwrightBrowser{
		pw:      pw,
		browser: browser,
		opts:    opts,
		logger:  logger,
	}, nil
}

// NewSession - opens an isolated browser context with a single page
func (b *playwrightBrowser) NewSession(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextOptions := playwright.BrowserNewContextOptions{
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(b.opts.IgnoreHTTPSErrors),
		AcceptDownloads:   playwright.Bool(false),
	}
	if b.opts.ViewportWidth > 0 && b.opts.ViewportHeight > 0 {
		contextOptions.Viewport = &playwright.Size{
			Width:  b.opts.ViewportWidth,
			Height: b.opts.ViewportHeight,
		}
	}
	if b.opts.UserAgent != "" {
		contextOptions.UserAgent = playwright.String(b.opts.UserAgent)
	}

	bctx, err := b.browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		b.logger.Debugf("Accepting %s dialog: %s", dialog.Type(), dialog.Message())
		dialog.Accept()
	})

	return &playwrightSession{
		context: bctx,
		page: &playwrightPage{
			page:          page,
			probeTimeout:  b.opts.ProbeTimeout,
			actionTimeout: b.opts.ActionTimeout,
		},
	}, nil
}

// Close - closes the browser and stops the playwright driver
func (b *playwrightBrowser) Close() error {
	var closeErr error
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
		b.browser = nil
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		b.pw = nil
	}
	return closeErr
}

type playwrightSession struct {
	context playwright.BrowserContext
	page    *playwrightPage
}

func (s *playwrightSession) Page() interfaces.Page { return s.page }

// Close - closes the context and every page in it
func (s *playwrightSession) Close() error {
	if s.context == nil {
		return nil
	}
	err := s.context.Close()
	s.context = nil
	if err != nil && !isClosedErr(err) {
		return fmt.Errorf("failed to close context: %w", err)
	}
	return nil
}

type playwrightPage struct {
	page          playwright.Page
	probeTimeout  time.Duration
	actionTimeout time.Duration
}

func (p *playwrightPage) URL() string { return p.page.URL() }

func (p *playwrightPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   boundedTimeout(ctx, timeout),
	})
	return translateErr(err)
}

func (p *playwrightPage) WaitForLoadState(ctx context.Context, state interfaces.LoadState, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var ls *playwright.LoadState
	switch state {
	case interfaces.LoadStateDOMContentLoaded:
		ls = playwright.LoadStateDomcontentloaded
	case interfaces.LoadStateNetworkIdle:
		ls = playwright.LoadStateNetworkidle
	default:
		ls = playwright.LoadStateLoad
	}
	return translateErr(p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   ls,
		Timeout: boundedTimeout(ctx, timeout),
	}))
}

// ClickAndWait - clicks inside ExpectNavigation so a page that is already idle
// cannot satisfy the wait before the submit navigation starts
func (p *playwrightPage) ClickAndWait(ctx context.Context, el interfaces.Element, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var clickErr error
	_, err := p.page.ExpectNavigation(func() error {
		clickErr = el.Click(ctx)
		return clickErr
	}, playwright.PageExpectNavigationOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   boundedTimeout(ctx, timeout),
	})
	if clickErr != nil {
		return fmt.Errorf("%w: %v", entities.ErrClickFailed, clickErr)
	}
	return translateErr(err)
}

func (p *playwrightPage) Find(ctx context.Context, sel entities.Selector) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var locator playwright.Locator
	state := playwright.WaitForSelectorStateVisible
	switch sel.Kind {
	case entities.SelectorRole:
		var opts []playwright.PageGetByRoleOptions
		if sel.Name != "" {
			opts = append(opts, playwright.PageGetByRoleOptions{Name: sel.Name})
		}
		locator = p.page.GetByRole(playwright.AriaRole(sel.Role), opts...)
	case entities.SelectorLabel:
		locator = p.page.GetByLabel(sel.Value)
		state = playwright.WaitForSelectorStateAttached
	case entities.SelectorText:
		locator = p.page.GetByText(sel.Value)
	default:
		locator = p.page.Locator(sel.Value)
		state = playwright.WaitForSelectorStateAttached
	}

	locator = locator.First()
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: boundedTimeout(ctx, p.probeTimeout),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", entities.ErrElementNotFound, sel)
		}
		return nil, translateErr(err)
	}

	return &playwrightElement{locator: locator, timeout: p.actionTimeout}, nil
}

func (p *playwrightPage) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := p.page.Locator("body").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: boundedTimeout(ctx, p.actionTimeout),
	})
	return text, translateErr(err)
}

func (p *playwrightPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	return html, translateErr(err)
}

func (p *playwrightPage) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
		Timeout:  boundedTimeout(ctx, p.actionTimeout),
	})
	return translateErr(err)
}

type playwrightElement struct {
	locator playwright.Locator
	timeout time.Duration
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return translateErr(e.locator.Click(playwright.LocatorClickOptions{
		Timeout: boundedTimeout(ctx, e.timeout),
	}))
}

func (e *playwrightElement) Fill(ctx context.Context, value string) error {
	return translateErr(e.locator.Fill(value, playwright.LocatorFillOptions{
		Timeout: boundedTimeout(ctx, e.timeout),
	}))
}

// SelectOptions - selects by option value, falling back to option label
func (e *playwrightElement) SelectOptions(ctx context.Context, values []string) error {
	opts := playwright.LocatorSelectOptionOptions{Timeout: boundedTimeout(ctx, e.timeout)}
	if _, err := e.locator.SelectOption(playwright.SelectOptionValues{Values: &values}, opts); err == nil {
		return nil
	}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{Labels: &values}, opts)
	return translateErr(err)
}

func (e *playwrightElement) SetChecked(ctx context.Context, checked bool) error {
	return translateErr(e.locator.SetChecked(checked, playwright.LocatorSetCheckedOptions{
		Timeout: boundedTimeout(ctx, e.timeout),
	}))
}

// boundedTimeout - converts d to playwright milliseconds, capped by the context deadline
func boundedTimeout(ctx context.Context, d time.Duration) *float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < d {
			d = remaining
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return playwright.Float(float64(d.Milliseconds()))
}

// translateErr - maps playwright timeouts onto entities.ErrTimeout
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", entities.ErrTimeout, err)
	}
	return err
}

// isClosedErr - reports errors raised when closing an already closed target
func isClosedErr(err error) bool {
	if errors.Is(err, playwright.ErrTargetClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

var (
	_ interfaces.Browser = (*playwrightBrowser)(nil)
	_ interfaces.Session = (*playwrightSession)(nil)
	_ interfaces.Page    = (*playwrightPage)(nil)
	_ interfaces.Element = (*playwrightElement)(nil)
)
