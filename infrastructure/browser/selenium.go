package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// SeleniumOptions configures the chromedriver backed browser.
type SeleniumOptions struct {
	DriverPath   string
	ChromeBinary string
	Port         int
	Headless     bool
	ProbeTimeout time.Duration
}

type seleniumBrowser struct {
	service *selenium.Service
	opts    SeleniumOptions
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}
	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found, install it or set browser.selenium.driver_path")
}

// NewSeleniumBrowser - starts a chromedriver service that sessions connect to
func NewSeleniumBrowser(opts SeleniumOptions, logger *logrus.Logger) (interfaces.Browser, error) {
	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, err
	}
	if opts.Port == 0 {
		opts.Port = 9515
	}

	logger.Infof("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, opts.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	return &seleniumBrowser{service: service, opts: opts, logger: logger}, nil
}

// NewSession - opens a fresh WebDriver session with its own profile
func (b *seleniumBrowser) NewSession(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
	}
	if b.opts.Headless {
		args = append(args, "--headless=new")
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	chromeCaps := chrome.Capabilities{Args: args}
	if b.opts.ChromeBinary != "" {
		chromeCaps.Path = b.opts.ChromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", b.opts.Port))
	if err != nil {
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found, set browser.selenium.chrome_binary: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &seleniumSession{page: &seleniumPage{wd: wd, probeTimeout: b.opts.ProbeTimeout}}, nil
}

// Close - stops the chromedriver service
func (b *seleniumBrowser) Close() error {
	if b.service == nil {
		return nil
	}
	err := b.service.Stop()
	b.service = nil
	return err
}

type seleniumSession struct {
	page *seleniumPage
}

func (s *seleniumSession) Page() interfaces.Page { return s.page }

func (s *seleniumSession) Close() error {
	if s.page == nil || s.page.wd == nil {
		return nil
	}
	err := s.page.wd.Quit()
	s.page.wd = nil
	return err
}

type seleniumPage struct {
	wd           selenium.WebDriver
	probeTimeout time.Duration
}

func (p *seleniumPage) URL() string {
	url, err := p.wd.CurrentURL()
	if err != nil {
		return ""
	}
	return url
}

func (p *seleniumPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.wd.SetPageLoadTimeout(remaining(ctx, timeout)); err != nil {
		return fmt.Errorf("set page load timeout: %w", err)
	}
	return translateSeleniumErr(p.wd.Get(url))
}

// WaitForLoadState - selenium has no network idle signal; every state waits
// for document.readyState to be complete
func (p *seleniumPage) WaitForLoadState(ctx context.Context, state interfaces.LoadState, timeout time.Duration) error {
	want := "complete"
	if state == interfaces.LoadStateDOMContentLoaded {
		want = "interactive"
	}

	err := p.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		res, err := wd.ExecuteScript("return document.readyState", nil)
		if err != nil {
			return false, nil
		}
		rs, _ := res.(string)
		return rs == "complete" || rs == want, nil
	}, remaining(ctx, timeout))
	return translateSeleniumErr(err)
}

// navigationMarker is set on the current document before a click; a new
// document does not carry it.
const navigationMarker = "__formpilotPendingNavigation"

// ClickAndWait - marks the current document, clicks, then polls until a new
// document without the marker reaches readyState complete
func (p *seleniumPage) ClickAndWait(ctx context.Context, el interfaces.Element, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.wd.ExecuteScript("window."+navigationMarker+" = true; return true;", nil); err != nil {
		return fmt.Errorf("mark document: %w", err)
	}
	if err := el.Click(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrClickFailed, err)
	}

	err := p.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		res, err := wd.ExecuteScript("return window."+navigationMarker+" === true ? 'pending' : document.readyState;", nil)
		if err != nil {
			// the old document is being torn down
			return false, nil
		}
		state, _ := res.(string)
		return state == "complete", nil
	}, remaining(ctx, timeout))
	return translateSeleniumErr(err)
}

func (p *seleniumPage) Find(ctx context.Context, sel entities.Selector) (interfaces.Element, error) {
	by, value := seleniumLocator(sel)

	var found selenium.WebElement
	err := p.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		elements, err := wd.FindElements(by, value)
		if err != nil {
			return false, nil
		}
		for _, el := range elements {
			if sel.Kind == entities.SelectorCSS || sel.Kind == entities.SelectorLabel {
				found = el
				return true, nil
			}
			if visible, err := el.IsDisplayed(); err == nil && visible {
				found = el
				return true, nil
			}
		}
		return false, nil
	}, remaining(ctx, p.probeTimeout))

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", entities.ErrElementNotFound, sel)
	}
	return &seleniumElement{el: found}, nil
}

func (p *seleniumPage) TextContent(ctx context.Context) (string, error) {
	html, err := p.Content(ctx)
	if err != nil {
		return "", err
	}
	return VisibleText(html)
}

func (p *seleniumPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.wd.PageSource()
}

func (p *seleniumPage) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := p.wd.Screenshot()
	if err != nil {
		return fmt.Errorf("take screenshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.el.Click()
}

func (e *seleniumElement) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.el.Clear(); err != nil {
		return fmt.Errorf("clear element: %w", err)
	}
	return e.el.SendKeys(value)
}

// SelectOptions - clicks each <option> whose value or text matches
func (e *seleniumElement) SelectOptions(ctx context.Context, values []string) error {
	options, err := e.el.FindElements(selenium.ByTagName, "option")
	if err != nil {
		return fmt.Errorf("list options: %w", err)
	}

	for _, want := range values {
		if err := ctx.Err(); err != nil {
			return err
		}
		matched := false
		for _, opt := range options {
			value, _ := opt.GetAttribute("value")
			text, _ := opt.Text()
			if value == want || strings.TrimSpace(text) == want {
				if err := opt.Click(); err != nil {
					return fmt.Errorf("select option %q: %w", want, err)
				}
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("%w: option %q", entities.ErrElementNotFound, want)
		}
	}
	return nil
}

func (e *seleniumElement) SetChecked(ctx context.Context, checked bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	selected, err := e.el.IsSelected()
	if err != nil {
		return err
	}
	if selected == checked {
		return nil
	}
	return e.el.Click()
}

// remaining - returns d capped by the context deadline
func remaining(ctx context.Context, d time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if r := time.Until(deadline); r < d {
			d = r
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// translateSeleniumErr - webdriver reports timeouts only through the message text
func translateSeleniumErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return fmt.Errorf("%w: %v", entities.ErrTimeout, err)
	}
	return err
}

var (
	_ interfaces.Browser = (*seleniumBrowser)(nil)
	_ interfaces.Session = (*seleniumSession)(nil)
	_ interfaces.Page    = (*seleniumPage)(nil)
	_ interfaces.Element = (*seleniumElement)(nil)
)
