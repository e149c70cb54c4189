package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	ips     map[string]*rateLimiterEntry
	mu      sync.Mutex
	r       rate.Limit
	b       int
	cleanup time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter.
// r is the rate (requests per second), b is the burst size.
// Call Stop to end the background cleanup.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	limiter := &IPRateLimiter{
		ips:     make(map[string]*rateLimiterEntry),
		r:       r,
		b:       b,
		cleanup: 10 * time.Minute,
		stopCh:  make(chan struct{}),
	}

	go limiter.cleanupLoop()

	return limiter
}

// GetLimiter returns the rate limiter for the given IP address.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	entry, exists := i.ips[ip]
	if !exists {
		limiter := rate.NewLimiter(i.r, i.b)
		i.ips[ip] = &rateLimiterEntry{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	entry.lastSeen = time.Now()
	return entry.limiter
}

// Len reports how many IPs are currently tracked.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

func (i *IPRateLimiter) Stop() {
	i.stopOnce.Do(func() { close(i.stopCh) })
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(i.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			i.evictBefore(time.Now().Add(-i.cleanup))
		case <-i.stopCh:
			return
		}
	}
}

func (i *IPRateLimiter) evictBefore(cutoff time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, entry := range i.ips {
		if entry.lastSeen.Before(cutoff) {
			delete(i.ips, ip)
		}
	}
}

// extractIP strips the port from RemoteAddr. chi's RealIP, when enabled,
// has already replaced it with the forwarded client address.
func extractIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimitMiddleware returns middleware that rate limits requests by IP.
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := limiter.GetLimiter(extractIP(r))
			if !l.Allow() {
				w.Header().Set("Retry-After", retryAfter(l))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfter is the whole number of seconds until the bucket holds a token again, at least 1.
func retryAfter(l *rate.Limiter) string {
	r := l.Reserve()
	delay := r.Delay()
	r.Cancel()

	secs := int(delay.Seconds() + 0.999)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
