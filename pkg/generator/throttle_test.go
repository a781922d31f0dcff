package generator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sgaunet/tilefill/pkg/config"
	"github.com/sgaunet/tilefill/pkg/randbytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0, 10))
	assert.Nil(t, newLimiter(-5, 10))

	l := newLimiter(1000, 0)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
	assert.InDelta(t, 1000.0, float64(l.Limit()), 0)
}

func TestThrottledSourceWithoutLimiter(t *testing.T) {
	rows := randbytes.NewRows(randbytes.New(1), 4, 4)
	assert.Same(t, io.Reader(rows), newThrottledSource(context.Background(), rows, nil))
}

func TestThrottledSourceRead(t *testing.T) {
	rows := randbytes.NewRows(randbytes.New(1), 10, 3)
	src := newThrottledSource(context.Background(), rows, rate.NewLimiter(rate.Inf, 4))

	// io.ReadAll only sees the Reader side
	data, err := io.ReadAll(struct{ io.Reader }{src})
	require.NoError(t, err)
	assert.Len(t, data, 30)
}

func TestThrottledWriterSplitsWaitsNotWrites(t *testing.T) {
	var buf bytes.Buffer
	tw := &throttledWriter{
		ctx:      context.Background(),
		wrapped:  &buf,
		throttle: rate.NewLimiter(rate.Inf, 3),
	}
	n, err := tw.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "0123456789", buf.String())
}

func TestThrottledWriterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	rows := randbytes.NewRows(randbytes.New(1), 8, 2)
	src := newThrottledSource(ctx, rows, rate.NewLimiter(1, 8))

	_, err := io.Copy(&buf, src)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestPerWorkerRate(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		workers int
		want    int64
	}{
		{"unlimited", 0, 4, 0},
		{"even", 400, 4, 100},
		{"floor", 401, 4, 100},
		{"smaller than worker count", 3, 4, 1},
		{"single byte", 1, 1024, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, perWorkerRate(tt.total, tt.workers))
		})
	}
}

func TestSmallRateLimitStillThrottles(t *testing.T) {
	cfg := config.Default()
	cfg.WorkerCount = 4
	cfg.RateLimit = 3
	g, err := New(cfg)
	require.NoError(t, err)

	w := g.newWorker(0, 100, nil)
	require.NotNil(t, w.limiter)
	assert.InDelta(t, 1.0, float64(w.limiter.Limit()), 0)
}
