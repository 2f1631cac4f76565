package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a per-client token-bucket limiter for the event endpoint.
// The relay is normally the only caller, but a misbehaving or spoofed
// client must not be able to flood the orchestrator.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	r       rate.Limit
	burst   int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter: r events/second per remote address,
// bursting up to burst.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{clients: make(map[string]*clientLimiter), r: r, burst: burst}
	go rl.evictStale()
	return rl
}

func (rl *RateLimiter) get(addr string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[addr]; ok {
		c.lastSeen = time.Now()
		return c.limiter
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[addr] = &clientLimiter{limiter: l, lastSeen: time.Now()}
	return l
}

func (rl *RateLimiter) evictStale() {
	for {
		time.Sleep(5 * time.Minute)
		rl.mu.Lock()
		for addr, c := range rl.clients {
			if time.Since(c.lastSeen) > 10*time.Minute {
				delete(rl.clients, addr)
			}
		}
		rl.mu.Unlock()
	}
}

// Limit enforces the rate limit per remote address.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.get(r.RemoteAddr).Allow() {
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
