package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPause(t *testing.T) {
	start := time.Now()
	require.NoError(t, pause(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pause(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, pause(ctx, 0), context.Canceled)
	assert.NoError(t, pause(context.Background(), 0))
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, RecencyWindow, opts.RecencyWindow)
	assert.Equal(t, DefaultPageSize, opts.PageSize)
	assert.NotNil(t, opts.Sleep)
	assert.NotNil(t, opts.Now)

	d := DefaultOptions()
	assert.Equal(t, 24*time.Hour, d.RecencyWindow)
	assert.Equal(t, 2*time.Second, d.PageDelay)
	assert.Equal(t, time.Second, d.DetailDelay)
}
