package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// maxBuckets caps the number of tracked client IPs so an address-spoofing
	// flood cannot grow the table without bound.
	maxBuckets = 100_000

	// Buckets idle past staleAfter are evicted on the next sweep. The log is
	// read by dashboards that poll every few seconds, so anything quiet for
	// ten minutes is a departed client.
	staleAfter    = 10 * time.Minute
	sweepInterval = 5 * time.Minute
)

// RateLimiter applies a per-client-IP token bucket. One limiter guards the
// whole API surface; export downloads and bulk deletes draw from the same
// budget as reads.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	ratePerSec int
	burst      int
}

// bucket tracks one client's remaining tokens. Rate and burst live on the
// limiter; every client gets the same budget.
type bucket struct {
	tokens   int
	lastFill time.Time
}

// take refills from elapsed time, then consumes one token if available.
func (b *bucket) take(now time.Time, ratePerSec, burst int) bool {
	elapsed := now.Sub(b.lastFill).Seconds()
	if refill := int(elapsed * float64(ratePerSec)); refill > 0 {
		b.tokens += refill
		if b.tokens > burst {
			b.tokens = burst
		}

		b.lastFill = now
	}

	if b.tokens == 0 {
		return false
	}

	b.tokens--

	return true
}

// NewRateLimiter creates a RateLimiter allowing ratePerSec sustained requests
// per client with the given burst headroom. A background sweeper evicts stale
// buckets until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		ratePerSec: ratePerSec,
		burst:      burst,
	}
	go rl.sweep(ctx)

	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.lastFill) > staleAfter {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Handler returns Gin middleware enforcing the per-IP limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// c.ClientIP() is safe from X-Forwarded-For spoofing because
		// SetTrustedProxies(nil) in router.go disables proxy header trust.
		ip := c.ClientIP()
		now := time.Now()

		rl.mu.Lock()
		b, ok := rl.buckets[ip]
		if !ok {
			if len(rl.buckets) >= maxBuckets {
				rl.mu.Unlock()
				respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

				return
			}

			b = &bucket{tokens: rl.burst, lastFill: now}
			rl.buckets[ip] = b
		}

		allowed := b.take(now, rl.ratePerSec, rl.burst)
		rl.mu.Unlock()

		if !allowed {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")

			return
		}

		c.Next()
	}
}
