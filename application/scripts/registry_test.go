package scripts

import (
	"context"
	"testing"

	"formpilot/domain/entities"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScript struct {
	id     string
	calls  int
	result entities.Result
	panics any
}

func (s *stubScript) ID() string          { return s.id }
func (s *stubScript) Name() string        { return "Stub " + s.id }
func (s *stubScript) Description() string { return "" }
func (s *stubScript) SupportsLogin() bool { return false }

func (s *stubScript) Run(context.Context, *ExecutionContext) entities.Result {
	s.calls++
	if s.panics != nil {
		panic(s.panics)
	}
	return s.result
}

func TestNewRegistry_Errors(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	_, err := NewRegistry(logger, Entry{Key: "", Script: &stubScript{id: "a"}})
	assert.Error(t, err)

	_, err = NewRegistry(logger, Entry{Key: "a", Script: nil})
	assert.Error(t, err)

	_, err = NewRegistry(logger,
		Entry{Key: "a", Script: &stubScript{id: "a"}},
		Entry{Key: "a", Script: &stubScript{id: "a"}},
	)
	assert.ErrorContains(t, err, "already registered")

	assert.Panics(t, func() { MustNewRegistry(logger, Entry{Key: ""}) })
}

func TestNewRegistry_WarnsOnIDMismatch(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	r, err := NewRegistry(logger, Entry{Key: "alias", Script: &stubScript{id: "real"}})
	require.NoError(t, err)

	assert.True(t, r.Has("alias"))
	assert.False(t, r.Has("real"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "script id does not match its registry key", hook.LastEntry().Message)
	assert.Equal(t, "alias", hook.LastEntry().Data["key"])
	assert.Equal(t, "real", hook.LastEntry().Data["script_id"])
}

func TestRegistry_Scripts(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := MustNewRegistry(logger, Builtin(nil)...)

	assert.Empty(t, hook.AllEntries(), "built-in scripts must match their keys")
	assert.Equal(t, 2, r.Count())

	descs := r.Scripts()
	require.Len(t, descs, 2)
	assert.Equal(t, DemoTarget, descs[0].Key)
	assert.False(t, descs[0].SupportsLogin)
	assert.Equal(t, PortalTarget, descs[1].Key)
	assert.True(t, descs[1].SupportsLogin)
}

func TestRegistry_DispatchUnknownID(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	known := &stubScript{id: "known"}
	r := MustNewRegistry(logger, Entry{Key: "known", Script: known})

	res := r.Dispatch(context.Background(), "nowhere", &ExecutionContext{})

	assert.False(t, res.Success)
	assert.Equal(t, NotImplementedMessage("nowhere"), res.Message)
	assert.Contains(t, res.Message, "nowhere")
	assert.Nil(t, res.Artifacts)
	assert.Zero(t, known.calls)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNewRegistry_NilLoggerUsesStandardLogger(t *testing.T) {
	var r *Registry
	require.NotPanics(t, func() {
		r = MustNewRegistry(nil, Entry{Key: "alias", Script: &stubScript{id: "real"}})
	})

	var res entities.Result
	require.NotPanics(t, func() {
		res = r.Dispatch(context.Background(), "nowhere", &ExecutionContext{})
	})
	assert.False(t, res.Success)
	assert.Equal(t, NotImplementedMessage("nowhere"), res.Message)
}

func TestRegistry_DispatchRunsScript(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := &stubScript{id: "demo", result: entities.Succeeded("done")}
	r := MustNewRegistry(logger, Entry{Key: "demo", Script: s})

	res := r.Dispatch(context.Background(), "demo", &ExecutionContext{})

	assert.Equal(t, entities.Succeeded("done"), res)
	assert.Equal(t, 1, s.calls)
}

func TestRegistry_DispatchNilContext(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := &stubScript{id: "demo"}
	r := MustNewRegistry(logger, Entry{Key: "demo", Script: s})

	res := r.Dispatch(context.Background(), "demo", nil)

	assert.False(t, res.Success)
	assert.Zero(t, s.calls)
}

func TestRegistry_DispatchRecoversPanic(t *testing.T) {
	h := newHarness(t)
	s := &stubScript{id: "boom", panics: "kaboom"}
	r := MustNewRegistry(h.logger, Entry{Key: "boom", Script: s})

	var res entities.Result
	require.NotPanics(t, func() {
		res = r.Dispatch(context.Background(), "boom", h.ec)
	})

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "kaboom")
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "kaboom", res.Errors[0])
	assert.Contains(t, res.Errors[1], "goroutine")
	require.NotNil(t, res.Artifacts)
	assert.NotEmpty(t, res.Artifacts.ScreenshotPath)
}
