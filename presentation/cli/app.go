package cli

import (
	"context"
	"fmt"

	"formpilot/application/automation"
	"formpilot/application/scripts"
	"formpilot/domain/interfaces"
	"formpilot/infrastructure/browser"
	"formpilot/infrastructure/config"
	"formpilot/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

// app holds the loaded configuration and logger shared by every command.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// registry builds the script registry from the built-in scripts and the
// optional sites file.
func (a *app) registry() (*scripts.Registry, error) {
	targets := make(map[string]scripts.TargetOptions, len(a.cfg.Targets))
	for key, t := range a.cfg.Targets {
		targets[key] = scripts.TargetOptions{EntryURL: t.EntryURL, LoginURL: t.LoginURL}
	}
	entries := scripts.Builtin(targets)

	if a.cfg.Sites.File != "" {
		sites, err := scripts.LoadSites(a.cfg.Sites.File)
		if err != nil {
			return nil, err
		}
		a.logger.Infof("Loaded %d site profiles from %s", len(sites), a.cfg.Sites.File)
		entries = append(entries, sites...)
	}

	return scripts.NewRegistry(a.logger, entries...)
}

// store opens the configured template store. The returned func releases it.
func (a *app) store(ctx context.Context) (interfaces.TemplateStore, func(), error) {
	switch a.cfg.Storage.Driver {
	case "postgres":
		pool, err := storage.Connect(ctx, a.cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		store, err := storage.NewPostgresStore(ctx, pool, a.logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		store, err := storage.NewFileStore(a.cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

// browser launches the configured browser driver.
func (a *app) browser() (interfaces.Browser, error) {
	b := a.cfg.Browser
	switch b.Driver {
	case "selenium":
		return browser.NewSeleniumBrowser(browser.SeleniumOptions{
			DriverPath:   b.Selenium.DriverPath,
			ChromeBinary: b.Selenium.ChromeBinary,
			Port:         b.Selenium.Port,
			Headless:     b.Headless,
			ProbeTimeout: b.ProbeTimeout,
		}, a.logger)
	default:
		return browser.NewPlaywrightBrowser(browser.PlaywrightOptions{
			Headless:          b.Headless,
			SlowMo:            b.SlowMo,
			UserAgent:         b.UserAgent,
			IgnoreHTTPSErrors: b.IgnoreHTTPSErrors,
			ViewportWidth:     b.ViewportWidth,
			ViewportHeight:    b.ViewportHeight,
			ProbeTimeout:      b.ProbeTimeout,
			ActionTimeout:     b.ActionTimeout,
		}, a.logger)
	}
}

// engine wires a ready engine. The returned func closes the browser and store.
func (a *app) engine(ctx context.Context, recorder automation.Recorder) (*automation.Engine, func(), error) {
	registry, err := a.registry()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build script registry: %w", err)
	}

	store, closeStore, err := a.store(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open template store: %w", err)
	}

	artifacts, err := storage.NewFileArtifactStore(a.cfg.Artifacts.Dir)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	br, err := a.browser()
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	e := a.cfg.Engine
	engine, err := automation.NewEngine(automation.Options{
		Store:      store,
		Browser:    br,
		Registry:   registry,
		Navigator:  browser.NewNavigator(e.NavigationTimeout, e.IdleTimeout, a.logger),
		Filler:     browser.NewFormFiller(a.logger),
		Login:      browser.NewLoginHandler(e.LoginSettleTimeout, a.logger),
		Artifacts:  artifacts,
		Recorder:   recorder,
		RunTimeout: e.RunTimeout,
		Logger:     a.logger,
	})
	if err != nil {
		br.Close()
		closeStore()
		return nil, nil, err
	}

	cleanup := func() {
		if err := br.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close browser")
		}
		closeStore()
	}
	return engine, cleanup, nil
}
