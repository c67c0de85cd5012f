package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formpilot/application/payload"
	"formpilot/application/scripts"
	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Unregistered labels runs for targets without a script so metric
// cardinality stays bounded.
const Unregistered = "unregistered"

// Recorder receives run telemetry. A nil Recorder disables it.
type Recorder interface {
	ObserveRun(script, outcome string, duration time.Duration, hasArtifacts bool)
	ObserveFields(controlTypes []string)
	RunStarted() func()
}

// Options wires an Engine. Store, Browser, Registry, Navigator, Filler and
// Artifacts are required.
type Options struct {
	Store      interfaces.TemplateStore
	Browser    interfaces.Browser
	Registry   *scripts.Registry
	Navigator  interfaces.Navigator
	Filler     interfaces.FormFiller
	Login      interfaces.LoginHandler
	Artifacts  interfaces.ArtifactStore
	Recorder   Recorder
	RunTimeout time.Duration
	Logger     *logrus.Logger
}

// Engine turns a RunRequest into a Result: it loads the stored template,
// answers and account, opens one browser session, builds the payload and
// dispatches it to the target's script.
type Engine struct {
	opts Options
}

// NewEngine - validates the wiring and creates an engine
func NewEngine(opts Options) (*Engine, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("engine: template store is required")
	case opts.Browser == nil:
		return nil, errors.New("engine: browser is required")
	case opts.Registry == nil:
		return nil, errors.New("engine: script registry is required")
	case opts.Navigator == nil || opts.Filler == nil:
		return nil, errors.New("engine: navigator and form filler are required")
	case opts.Artifacts == nil:
		return nil, errors.New("engine: artifact store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 5 * time.Minute
	}
	return &Engine{opts: opts}, nil
}

// Scripts describes the registered scripts
func (e *Engine) Scripts() []scripts.Descriptor {
	return e.opts.Registry.Scripts()
}

// Run executes one automation run. The returned error covers only failures
// before dispatch: an invalid request, an unknown template, a store error or
// a browser that cannot open a session. Everything after is in the Result.
func (e *Engine) Run(ctx context.Context, req entities.RunRequest) (entities.Result, error) {
	if err := req.Validate(); err != nil {
		return entities.Result{}, err
	}

	tmpl, answers, account, err := e.load(ctx, req)
	if err != nil {
		return entities.Result{}, err
	}

	runPayload := payload.Build(req.SchoolID, tmpl, answers, account, req.Login)
	log := e.opts.Logger.WithFields(logrus.Fields{
		"run_id":      runPayload.RunID,
		"school_id":   req.SchoolID,
		"template_id": tmpl.ID,
	})

	if !e.opts.Registry.Has(req.SchoolID) {
		res := e.opts.Registry.Dispatch(ctx, req.SchoolID, &scripts.ExecutionContext{Payload: runPayload, Logger: log})
		e.record(Unregistered, res, 0)
		return res, nil
	}

	done := e.startRun()
	defer done()

	runCtx, cancel := context.WithTimeout(ctx, e.opts.RunTimeout)
	defer cancel()

	session, err := e.opts.Browser.NewSession(runCtx)
	if err != nil {
		return entities.Result{}, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Failed to close browser session")
		}
	}()

	e.observeFields(runPayload.Template.Fields)
	log.WithFields(logrus.Fields{
		"fields":     len(runPayload.Template.Fields),
		"with_login": runPayload.UserLogin != nil,
	}).Info("Dispatching automation run")

	ec := &scripts.ExecutionContext{
		Navigator: e.opts.Navigator,
		Filler:    e.opts.Filler,
		Login:     e.opts.Login,
		Artifacts: e.opts.Artifacts,
		Payload:   runPayload,
		Page:      session.Page(),
		Logger:    log,
	}

	start := time.Now()
	res := e.opts.Registry.Dispatch(runCtx, req.SchoolID, ec)
	elapsed := time.Since(start)
	e.record(req.SchoolID, res, elapsed)

	log.WithFields(logrus.Fields{
		"success":  res.Success,
		"duration": elapsed.Round(time.Millisecond).String(),
	}).Info(res.Message)

	return res, nil
}

// load reads the template, answers and account concurrently. The first
// failure cancels the other reads.
func (e *Engine) load(ctx context.Context, req entities.RunRequest) (*entities.Template, map[string]any, *entities.AccountRecord, error) {
	var (
		tmpl    *entities.Template
		answers map[string]any
		account *entities.AccountRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tmpl, err = e.opts.Store.GetTemplate(gctx, req.TemplateID)
		return err
	})
	g.Go(func() error {
		var err error
		if answers, err = e.opts.Store.GetAnswers(gctx, req.SchoolID, req.UserID); err != nil {
			return fmt.Errorf("failed to load answers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if account, err = e.opts.Store.GetAccount(gctx, req.SchoolID, req.UserID); err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return tmpl, answers, account, nil
}

func (e *Engine) startRun() func() {
	if e.opts.Recorder == nil {
		return func() {}
	}
	return e.opts.Recorder.RunStarted()
}

func (e *Engine) observeFields(fields []entities.AutomationField) {
	if e.opts.Recorder == nil {
		return
	}
	types := make([]string, len(fields))
	for i, f := range fields {
		types[i] = string(f.ControlType)
	}
	e.opts.Recorder.ObserveFields(types)
}

func (e *Engine) record(script string, res entities.Result, elapsed time.Duration) {
	if e.opts.Recorder == nil {
		return
	}
	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	e.opts.Recorder.ObserveRun(script, outcome, elapsed, res.Artifacts != nil)
}
