package scripts

import (
	"context"
	"sync"
	"testing"
	"time"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"
	"formpilot/infrastructure/browser"
	"formpilot/infrastructure/browser/browsertest"
	"formpilot/infrastructure/storage"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeLogin succeeds only on the page URL it is told to.
type fakeLogin struct {
	mu        sync.Mutex
	succeedOn string
	attempts  []string
}

func (f *fakeLogin) MaybeLogin(_ context.Context, page interfaces.Page, _ *entities.UserLoginInput) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, page.URL())
	return page.URL() == f.succeedOn
}

func (f *fakeLogin) Attempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.attempts...)
}

type harness struct {
	page   *browsertest.FakePage
	login  *fakeLogin
	hook   *logtest.Hook
	logger *logrus.Logger
	ec     *ExecutionContext
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	artifacts, err := storage.NewFileArtifactStore(t.TempDir())
	require.NoError(t, err)

	page := browsertest.NewFakePage("about:blank")
	login := &fakeLogin{}

	return &harness{
		page:   page,
		login:  login,
		hook:   hook,
		logger: logger,
		ec: &ExecutionContext{
			Navigator: browser.NewNavigator(time.Second, time.Second, logger),
			Filler:    browser.NewFormFiller(logger),
			Login:     login,
			Artifacts: artifacts,
			Page:      page,
			Logger:    logger.WithField("run_id", "run-1"),
			Payload: entities.RunPayload{
				SchoolID: "demo",
				RunID:    "run-1",
				Template: entities.TemplatePayload{
					ID:   "app-1",
					Name: "Application",
					Fields: []entities.AutomationField{
						{FieldID: "first_name", Label: "First name", ControlType: entities.ControlText, Value: entities.StringValue("Ada")},
					},
				},
			},
		},
	}
}

// formPage registers the demo form controls and a submit button.
func (h *harness) formPage() (*browsertest.FakeElement, *browsertest.FakeElement) {
	name := h.page.Add(entities.ByCSS(`[name="first_name"]`))
	submit := h.page.Add(entities.ByRole("button", "Submit"))
	return name, submit
}

func (h *harness) warnings() []string {
	var out []string
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e.Message)
		}
	}
	return out
}
