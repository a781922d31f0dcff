package generator

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttledSource limits the bandwidth of a file body. It keeps the WriterTo
// of the wrapped source so that rows are still written one by one.
type throttledSource struct {
	ctx      context.Context
	wrapped  io.Reader
	throttle *rate.Limiter
}

func newThrottledSource(ctx context.Context, r io.Reader, throttle *rate.Limiter) io.Reader {
	if throttle == nil {
		return r
	}
	return &throttledSource{
		ctx:      ctx,
		wrapped:  r,
		throttle: throttle,
	}
}

func (ts *throttledSource) Read(p []byte) (int, error) {
	// We can't serve a read larger than the throttle's capacity.
	if len(p) > ts.throttle.Burst() {
		p = p[:ts.throttle.Burst()]
	}
	if err := ts.throttle.WaitN(ts.ctx, len(p)); err != nil {
		return 0, err //nolint:wrapcheck // surfaced as is by io.Copy
	}
	return ts.wrapped.Read(p) //nolint:wrapcheck // plain reader delegation
}

func (ts *throttledSource) WriteTo(w io.Writer) (int64, error) {
	tw := &throttledWriter{ctx: ts.ctx, wrapped: w, throttle: ts.throttle}
	if wt, ok := ts.wrapped.(io.WriterTo); ok {
		return wt.WriteTo(tw) //nolint:wrapcheck // plain writer delegation
	}
	return io.Copy(tw, ts.wrapped) //nolint:wrapcheck // plain writer delegation
}

type throttledWriter struct {
	ctx      context.Context
	wrapped  io.Writer
	throttle *rate.Limiter
}

// Write waits for len(p) tokens, in burst sized steps, then issues a single
// write.
func (tw *throttledWriter) Write(p []byte) (int, error) {
	burst := tw.throttle.Burst()
	for remaining := len(p); remaining > 0; remaining -= burst {
		if err := tw.throttle.WaitN(tw.ctx, min(remaining, burst)); err != nil {
			return 0, err //nolint:wrapcheck // surfaced as is by the storage
		}
	}
	return tw.wrapped.Write(p) //nolint:wrapcheck // plain writer delegation
}

// perWorkerRate shares a total rate between workers. A positive total never
// rounds down to 0, which would disable throttling.
func perWorkerRate(total int64, workers int) int64 {
	if total <= 0 || workers < 1 {
		return total
	}
	return max(total/int64(workers), 1)
}

// newLimiter returns a limiter granting bytesPerSec bytes per second, or nil
// when throttling is disabled.
func newLimiter(bytesPerSec int64, burst int) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), max(burst, 1))
}
