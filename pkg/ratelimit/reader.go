package ratelimit

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// minBurst keeps chunks large enough for smooth transfers at low rates
const minBurst = 64 * 1024

// Limiter controls the rate of data transfer across multiple readers
type Limiter struct {
	bytesPerSecond int64
	burst          int
	limiter        *rate.Limiter
}

// NewLimiter creates a limiter allowing bytesPerSecond, with bursts of one
// second worth of data (64KB minimum). A non-positive rate disables limiting
// and returns nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil // No limiting
	}

	burst := int(bytesPerSecond)
	if burst < minBurst {
		burst = minBurst
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		burst:          burst,
		limiter:        rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
	}
}

// BytesPerSecond returns the configured rate
func (l *Limiter) BytesPerSecond() int64 {
	return l.bytesPerSecond
}

// Reader wraps an io.Reader with bandwidth limiting
type Reader struct {
	reader  io.Reader
	limiter *Limiter
	ctx     context.Context
}

// NewReader wraps an io.Reader with rate limiting
func NewReader(ctx context.Context, reader io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return reader // No limiting
	}
	return &Reader{
		reader:  reader,
		limiter: limiter,
		ctx:     ctx,
	}
}

// Read reads at most one burst and waits for the matching tokens
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	toRead := len(p)
	if toRead > r.limiter.burst {
		toRead = r.limiter.burst
	}
	if toRead == 0 {
		return r.reader.Read(p)
	}

	if err := r.limiter.limiter.WaitN(r.ctx, toRead); err != nil {
		return 0, err
	}

	return r.reader.Read(p[:toRead])
}

// ReadCloser wraps an io.ReadCloser with rate limiting
type ReadCloser struct {
	Reader
	closer io.Closer
}

// NewReadCloser wraps an io.ReadCloser with rate limiting
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc // No limiting
	}
	return &ReadCloser{
		Reader: Reader{
			reader:  rc,
			limiter: limiter,
			ctx:     ctx,
		},
		closer: rc,
	}
}

// Close implements io.Closer
func (rc *ReadCloser) Close() error {
	return rc.closer.Close()
}
