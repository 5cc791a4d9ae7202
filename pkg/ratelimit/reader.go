package ratelimit

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// minBurst keeps small limits from degrading into one-byte reads
const minBurst = 64 * 1024

// Limiter is a token bucket shared by every copy of a run
type Limiter struct {
	bytesPerSecond int64
	burst          int64

	mu     sync.Mutex
	tokens int64
	last   time.Time
	now    func() time.Time
}

// NewLimiter creates a limiter for bytesPerSecond.
// A non-positive rate means no limit and returns nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	burst := bytesPerSecond
	if burst < minBurst {
		burst = minBurst
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		burst:          burst,
		tokens:         burst,
		last:           time.Now(),
		now:            time.Now,
	}
}

// Rate returns the configured limit in bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.bytesPerSecond
}

// WaitN blocks until n bytes may pass or ctx is done
func (l *Limiter) WaitN(ctx context.Context, n int64) error {
	if n > l.burst {
		n = l.burst
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait := l.reserve(n)
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes n tokens when available, otherwise returns how long to wait
func (l *Limiter) reserve(n int64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(l.last); elapsed > 0 {
		l.tokens += int64(elapsed.Seconds() * float64(l.bytesPerSecond))
		if l.tokens > l.burst {
			l.tokens = l.burst
		}
		l.last = now
	}

	if l.tokens >= n {
		l.tokens -= n
		return 0
	}

	wait := time.Duration(float64(n-l.tokens) / float64(l.bytesPerSecond) * float64(time.Second))
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return wait
}

// Reader throttles reads through a Limiter
type Reader struct {
	ctx     context.Context
	r       io.Reader
	limiter *Limiter
}

// NewReader wraps r; a nil limiter returns r unchanged
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &Reader{ctx: ctx, r: r, limiter: limiter}
}

// Read implements io.Reader
func (r *Reader) Read(p []byte) (int, error) {
	if int64(len(p)) > r.limiter.burst {
		p = p[:r.limiter.burst]
	}
	if err := r.limiter.WaitN(r.ctx, int64(len(p))); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// ParseRate parses a bandwidth such as "512K", "10M" or "1G" into bytes per second.
// Suffixes are binary multiples; an optional trailing "B" or "/s" is accepted.
// An empty string or "0" means unlimited.
func ParseRate(s string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "/S")
	v = strings.TrimSuffix(v, "B")
	if v == "" {
		return 0, nil
	}

	mult := int64(1)
	switch v[len(v)-1] {
	case 'K':
		mult = 1 << 10
	case 'M':
		mult = 1 << 20
	case 'G':
		mult = 1 << 30
	}
	if mult > 1 {
		v = v[:len(v)-1]
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, fmt.Errorf("invalid bandwidth limit: %q", s)
	}
	rate := n * float64(mult)
	if rate >= math.MaxInt64 {
		return 0, fmt.Errorf("bandwidth limit out of range: %q", s)
	}
	return int64(rate), nil
}
