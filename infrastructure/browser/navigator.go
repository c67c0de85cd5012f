package browser

import (
	"context"
	"fmt"
	"time"

	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Navigator implements interfaces.Navigator with fixed timeouts.
type Navigator struct {
	navigationTimeout time.Duration
	idleTimeout       time.Duration
	logger            *logrus.Logger
}

// NewNavigator - creates a navigator with the given navigation and network-idle bounds
func NewNavigator(navigationTimeout, idleTimeout time.Duration, logger *logrus.Logger) *Navigator {
	return &Navigator{
		navigationTimeout: navigationTimeout,
		idleTimeout:       idleTimeout,
		logger:            logger,
	}
}

// Navigate - loads url, failing after the navigation timeout
func (n *Navigator) Navigate(ctx context.Context, page interfaces.Page, url string) error {
	n.logger.Infof("Navigating to: %s", url)

	if err := page.Goto(ctx, url, n.navigationTimeout); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForNetworkIdle - waits until the page has no network activity
func (n *Navigator) WaitForNetworkIdle(ctx context.Context, page interfaces.Page, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = n.idleTimeout
	}
	return page.WaitForLoadState(ctx, interfaces.LoadStateNetworkIdle, timeout)
}

var _ interfaces.Navigator = (*Navigator)(nil)
