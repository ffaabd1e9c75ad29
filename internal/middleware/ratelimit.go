// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/metaconstrutor/api/internal/core"
)

var ErrRateLimited = errors.New("rate limited")

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: requests, Burst: burst, Period: time.Minute}
}

// limitStore is the shared GCRA counter in Redis, degrading to per-process
// token buckets while Redis is unreachable.
type limitStore struct {
	redis *redis_rate.Limiter
	local *localLimiter
}

func newLimitStore(rdb *redis.Client) *limitStore {
	return &limitStore{
		redis: redis_rate.NewLimiter(rdb),
		local: &localLimiter{},
	}
}

func (s *limitStore) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) *redis_rate.Result {
	res, err := s.redis.Allow(ctx, key, limit)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "rate limit store unavailable, using local buckets",
		"error", err,
		"key", key,
	)
	return s.local.allow(key, limit)
}

// IPRateLimiter applies one budget per client address. It guards every
// route, including the unauthenticated login and register endpoints.
func IPRateLimiter(rdb *redis.Client, limit redis_rate.Limit) func(http.Handler) http.Handler {
	store := newLimitStore(rdb)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := store.allow(r.Context(), KeyByIP(r), limit)
			setRateLimitHeaders(w, res, limit)

			if res.Allowed == 0 {
				writeRateLimitExceeded(w, res)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP trusts the last X-Forwarded-For hop, which is the one appended
// by our own proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + ClientIP(r)
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

// KeyByOrganization shares one budget across every member of an
// organization, falling back to the caller's user or IP key.
func KeyByOrganization(r *http.Request) string {
	if sess, ok := SessionFrom(r.Context()); ok && sess.OrganizationID != "" {
		return "ratelimit:org:" + sess.OrganizationID
	}
	return KeyByUser(r)
}

func setRateLimitHeaders(w http.ResponseWriter, res *redis_rate.Result, limit redis_rate.Limit) {
	h := w.Header()
	reset := int(res.ResetAfter.Seconds())

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, reset))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	wait := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(wait))
	core.JSONError(w, core.NewAppError(
		ErrRateLimited,
		fmt.Sprintf("Too many requests. Retry after %d seconds.", wait),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}

const (
	bucketIdleTTL  = 10 * time.Minute
	sweepEveryCall = 1024
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter keeps one token bucket per key. Idle buckets are swept
// inline every sweepEveryCall calls. The zero value is ready to use.
type localLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	calls   int
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)
	now := time.Now()

	l.mu.Lock()
	if l.buckets == nil {
		l.buckets = make(map[string]*bucket)
	}
	l.calls++
	if l.calls%sweepEveryCall == 0 {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}
