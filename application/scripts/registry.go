package scripts

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"formpilot/domain/entities"

	"github.com/sirupsen/logrus"
)

// Entry binds a registry key to a script.
type Entry struct {
	Key    string
	Script Script
}

// Registry maps target identifiers to scripts. It is built once at startup
// and never modified afterwards, so lookups need no locking.
type Registry struct {
	scripts map[string]Script
	logger  *logrus.Logger
}

// NewRegistry builds a registry from entries. Duplicate or empty keys are an
// error; a script whose ID differs from its key is registered with a warning.
// A nil logger means the logrus standard logger.
func NewRegistry(logger *logrus.Logger, entries ...Entry) (*Registry, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Registry{
		scripts: make(map[string]Script, len(entries)),
		logger:  logger,
	}

	for _, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("script registered with empty key")
		}
		if e.Script == nil {
			return nil, fmt.Errorf("script for key '%s' is nil", e.Key)
		}
		if _, exists := r.scripts[e.Key]; exists {
			return nil, fmt.Errorf("script for key '%s' is already registered", e.Key)
		}
		if e.Script.ID() != e.Key {
			logger.WithFields(logrus.Fields{
				"key":       e.Key,
				"script_id": e.Script.ID(),
			}).Warn("script id does not match its registry key")
		}
		r.scripts[e.Key] = e.Script
	}

	return r, nil
}

// MustNewRegistry is NewRegistry that panics on error.
func MustNewRegistry(logger *logrus.Logger, entries ...Entry) *Registry {
	r, err := NewRegistry(logger, entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the script registered under id.
func (r *Registry) Lookup(id string) (Script, bool) {
	s, ok := r.scripts[id]
	return s, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.scripts[id]
	return ok
}

// Count returns the number of registered scripts
func (r *Registry) Count() int {
	return len(r.scripts)
}

// Scripts describes all registered scripts sorted by key.
func (r *Registry) Scripts() []Descriptor {
	out := make([]Descriptor, 0, len(r.scripts))
	for key, s := range r.scripts {
		out = append(out, Descriptor{
			Key:           key,
			ID:            s.ID(),
			Name:          s.Name(),
			Description:   s.Description(),
			SupportsLogin: s.SupportsLogin(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// NotImplementedMessage is the Result message for an unregistered target.
func NotImplementedMessage(id string) string {
	return fmt.Sprintf("automation script not implemented for target %q", id)
}

// Dispatch runs the script registered under id. It never panics and never
// returns an error: an unknown id and a panicking script both produce a
// failed Result.
func (r *Registry) Dispatch(ctx context.Context, id string, ec *ExecutionContext) (result entities.Result) {
	script, ok := r.scripts[id]
	if !ok {
		r.logger.WithField("target", id).Warn("no automation script registered")
		return entities.Failed(NotImplementedMessage(id))
	}
	if ec == nil {
		return entities.Failed(fmt.Sprintf("script %q dispatched without an execution context", id))
	}

	defer func() {
		if p := recover(); p != nil {
			stack := string(debug.Stack())
			ec.logger().WithFields(logrus.Fields{
				"script": id,
				"panic":  p,
			}).Error("automation script panicked")

			result = entities.Failed(
				fmt.Sprintf("automation script %q crashed: %v", id, p),
				fmt.Sprint(p),
				stack,
			)
			result.Artifacts = captureArtifacts(ctx, ec)
		}
	}()

	return script.Run(ctx, ec)
}

func (ec *ExecutionContext) logger() *logrus.Entry {
	if ec.Logger != nil {
		return ec.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
