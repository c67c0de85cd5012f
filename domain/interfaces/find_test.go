package interfaces_test

import (
	"context"
	"errors"
	"testing"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"
	"formpilot/infrastructure/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFirst(t *testing.T) {
	page := browsertest.NewFakePage("about:blank")
	second := page.Add(entities.ByCSS("#second"))

	el, sel, err := interfaces.FindFirst(context.Background(), page, []entities.Selector{
		entities.ByCSS("#first"),
		entities.ByCSS("#second"),
	})
	require.NoError(t, err)
	assert.Same(t, second, el)
	assert.Equal(t, "#second", sel.Value)
	assert.Equal(t, []string{"#first", "#second"}, page.Probes())

	_, _, err = interfaces.FindFirst(context.Background(), page, []entities.Selector{entities.ByCSS("#none")})
	assert.ErrorIs(t, err, entities.ErrElementNotFound)

	page.FindErr = errors.New("target closed")
	_, _, err = interfaces.FindFirst(context.Background(), page, []entities.Selector{entities.ByCSS("#second")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrElementNotFound)
	assert.ErrorContains(t, err, "target closed")
}

func TestFindFirst_CancelledContext(t *testing.T) {
	page := browsertest.NewFakePage("about:blank")
	page.Add(entities.ByCSS("#here"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := interfaces.FindFirst(ctx, page, []entities.Selector{entities.ByCSS("#here")})
	assert.ErrorIs(t, err, context.Canceled)
}
