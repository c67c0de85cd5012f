package scripts

import (
	"context"
	"errors"
	"time"

	"formpilot/domain/entities"

	"github.com/sirupsen/logrus"
)

const artifactCaptureTimeout = 15 * time.Second

// WaitOutcome is how a navigation or network-idle wait ended.
type WaitOutcome int

const (
	WaitCompleted WaitOutcome = iota
	// WaitTimedOutIgnored means the wait hit its bound and the run carried on.
	WaitTimedOutIgnored
	WaitFailed
)

func (o WaitOutcome) String() string {
	switch o {
	case WaitCompleted:
		return "completed"
	case WaitTimedOutIgnored:
		return "timed_out_ignored"
	default:
		return "failed"
	}
}

// tolerateWaitTimeout applies the ignore-and-proceed policy to a wait result:
// a timeout becomes WaitTimedOutIgnored with no error, any other error is kept.
func tolerateWaitTimeout(err error) (WaitOutcome, error) {
	switch {
	case err == nil:
		return WaitCompleted, nil
	case errors.Is(err, entities.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return WaitTimedOutIgnored, nil
	default:
		return WaitFailed, err
	}
}

// captureArtifacts stores a screenshot and HTML dump for the run. It runs on a
// context detached from ctx so an expired run deadline does not prevent capture.
func captureArtifacts(ctx context.Context, ec *ExecutionContext) *entities.Artifacts {
	if ec == nil || ec.Artifacts == nil || ec.Page == nil {
		return nil
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), artifactCaptureTimeout)
	defer cancel()

	artifacts, err := ec.Artifacts.Capture(cctx, ec.Page, ec.Payload.RunID)
	if err != nil {
		ec.logger().WithError(err).Warn("artifact capture incomplete")
	}
	if artifacts.ScreenshotPath == "" && artifacts.RawHTMLPath == "" {
		return nil
	}

	ec.logger().WithFields(logrus.Fields{
		"screenshot": artifacts.ScreenshotPath,
		"html":       artifacts.RawHTMLPath,
	}).Info("failure artifacts captured")
	return &artifacts
}
