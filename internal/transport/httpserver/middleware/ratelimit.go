package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bringlist/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	defaultLoginBurst = 5
	visitorIdleTTL    = 10 * time.Minute
	pruneInterval     = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. Idle clients are forgotten
// after ten minutes.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	interval  time.Duration
	burst     int
	lastPrune time.Time
	now       func() time.Time
	log       logger.Logger
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// A non-positive perMinute disables throttling.
func NewRateLimiter(perMinute, burst int, log logger.Logger) *RateLimiter {
	limit := rate.Inf
	var interval time.Duration
	if perMinute > 0 {
		interval = time.Minute / time.Duration(perMinute)
		limit = rate.Every(interval)
	}
	if burst <= 0 {
		burst = defaultLoginBurst
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		interval: interval,
		burst:    burst,
		now:      time.Now,
		log:      log,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.Allow(ip) {
			l.log.Warn("ratelimit: request throttled", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			writeError(w, http.StatusTooManyRequests, "Trop de tentatives, réessayez plus tard")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < pruneInterval {
		return
	}
	l.lastPrune = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(l.visitors, key)
		}
	}
}

func (l *RateLimiter) retryAfterSeconds() int {
	seconds := int((l.interval + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

// clientIP trusts RemoteAddr; TrustedRealIP rewrites it only for known proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
