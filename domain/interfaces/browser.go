package interfaces

import (
	"context"
	"time"

	"formpilot/domain/entities"
)

// LoadState is a page lifecycle state a caller can wait for.
type LoadState string

const (
	LoadStateLoad             LoadState = "load"
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateNetworkIdle      LoadState = "networkidle"
)

// Element is a control located on a live page
type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	SelectOptions(ctx context.Context, values []string) error
	SetChecked(ctx context.Context, checked bool) error
}

// Page is the live page handle a script drives.
type Page interface {
	// URL returns the current page URL
	URL() string

	// Goto navigates and waits for the load event, failing after timeout
	Goto(ctx context.Context, url string, timeout time.Duration) error

	// WaitForLoadState blocks until the page reaches state or timeout elapses.
	// A timeout is reported as an error wrapping entities.ErrTimeout.
	WaitForLoadState(ctx context.Context, state LoadState, timeout time.Duration) error

	// Find returns the first visible element matching sel, or an error wrapping
	// entities.ErrElementNotFound.
	Find(ctx context.Context, sel entities.Selector) (Element, error)

	// ClickAndWait clicks el and waits, bounded by timeout, for the navigation
	// the click starts to settle. A click error wraps entities.ErrClickFailed;
	// a wait that runs out wraps entities.ErrTimeout.
	ClickAndWait(ctx context.Context, el Element, timeout time.Duration) error

	// TextContent returns the visible text of the document body
	TextContent(ctx context.Context) (string, error)

	// Content returns the serialized HTML of the page
	Content(ctx context.Context) (string, error)

	// Screenshot writes a full-page PNG to path
	Screenshot(ctx context.Context, path string) error
}

// Session owns one isolated page for the duration of a run.
type Session interface {
	Page() Page
	Close() error
}

// Browser opens isolated sessions.
type Browser interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}
