package publish

import (
	"math/rand"
	"time"
)

const (
	backoffBase    = 500 * time.Millisecond
	backoffCeiling = 10 * time.Second

	// connectAttempts bounds connect attempts within one Publish call.
	connectAttempts = 4
)

// backoff spaces out at most limit attempts. The delay after the n-th
// failure is base·2^(n-1), capped at ceiling, with ±25 % jitter.
type backoff struct {
	base     time.Duration
	ceiling  time.Duration
	limit    int
	failures int
}

func newBackoff(base, ceiling time.Duration, limit int) *backoff {
	return &backoff{base: base, ceiling: ceiling, limit: limit}
}

// fail records a failed attempt. It returns the delay before the next
// attempt, or false once limit attempts have failed.
func (b *backoff) fail() (time.Duration, bool) {
	b.failures++
	if b.failures >= b.limit {
		return 0, false
	}

	d := b.base
	for i := 1; i < b.failures && d < b.ceiling; i++ {
		d *= 2
	}
	if d > b.ceiling {
		d = b.ceiling
	}
	return jitter(d), true
}

// attempts is the number of failures recorded since the last reset.
func (b *backoff) attempts() int { return b.failures }

func (b *backoff) reset() { b.failures = 0 }

func jitter(d time.Duration) time.Duration {
	spread := float64(d) * 0.25 * (rand.Float64()*2 - 1) //nolint:gosec // not crypto
	if j := d + time.Duration(spread); j > 0 {
		return j
	}
	return 0
}
