package refresher

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWarmer struct {
	calls atomic.Int32
}

func (w *countingWarmer) WarmCache(ctx context.Context) {
	w.calls.Add(1)
}

func TestRefresher_StartWarmsImmediately(t *testing.T) {
	warmer := &countingWarmer{}
	r := New(warmer, "*/5 * * * *", slog.Default())

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Eventually(t, func() bool {
		return warmer.calls.Load() >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestRefresher_BadSpec(t *testing.T) {
	r := New(&countingWarmer{}, "not a cron spec", slog.Default())

	assert.Error(t, r.Start(context.Background()))
}
