package interfaces

import (
	"context"
	"time"

	"formpilot/domain/entities"
)

// Navigator moves a page to a URL and waits for it to settle.
type Navigator interface {
	// Navigate loads url, failing with entities.ErrTimeout after the configured navigation timeout
	Navigate(ctx context.Context, page Page, url string) error

	// WaitForNetworkIdle waits for network idle. A zero timeout uses the configured default.
	WaitForNetworkIdle(ctx context.Context, page Page, timeout time.Duration) error
}

// FormFiller fills fields on a page in the given order. Per-field failures are
// absorbed into the report.
type FormFiller interface {
	Fill(ctx context.Context, page Page, fields []entities.AutomationField) entities.FillReport
}

// LoginHandler attempts to authenticate the page with the given credentials.
type LoginHandler interface {
	MaybeLogin(ctx context.Context, page Page, credentials *entities.UserLoginInput) bool
}

// ArtifactStore captures forensic files for a failed run.
type ArtifactStore interface {
	Capture(ctx context.Context, page Page, runID string) (entities.Artifacts, error)
}
