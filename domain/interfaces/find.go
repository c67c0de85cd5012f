package interfaces

import (
	"context"
	"errors"
	"fmt"

	"formpilot/domain/entities"
)

// FindFirst probes candidates in order and returns the first match with the
// selector that found it. When none match the error is
// entities.ErrElementNotFound; any other page error stops the probe.
func FindFirst(ctx context.Context, page Page, candidates []entities.Selector) (Element, entities.Selector, error) {
	for _, sel := range candidates {
		el, err := page.Find(ctx, sel)
		if err == nil {
			return el, sel, nil
		}
		if !errors.Is(err, entities.ErrElementNotFound) {
			return nil, sel, fmt.Errorf("probe %s: %w", sel, err)
		}
	}
	return nil, entities.Selector{}, entities.ErrElementNotFound
}
