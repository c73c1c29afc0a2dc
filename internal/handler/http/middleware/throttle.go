package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/handler/http/response"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an unused per-caller limiter is kept.
const limiterIdle = 10 * time.Minute

// Throttle limits requests per caller with a token bucket. Flaky mobile
// clients tend to resend clock-in and clock-out taps in quick succession.
type Throttle struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
	mu       sync.Mutex
}

func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: cache.New(limiterIdle, time.Minute),
	}
}

func (t *Throttle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cached, found := t.limiters.Get(key); found {
		lim := cached.(*rate.Limiter)
		t.limiters.Set(key, lim, cache.DefaultExpiration)
		return lim
	}

	lim := rate.NewLimiter(t.limit, t.burst)
	t.limiters.Set(key, lim, cache.DefaultExpiration)
	return lim
}

// callerKey identifies the caller, falling back to the client address for
// unauthenticated requests.
func callerKey(r *http.Request) string {
	if caller, err := user.CallerFromContext(r.Context()); err == nil {
		return "user:" + caller.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

func (t *Throttle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.limiter(callerKey(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w, "Too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
