package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/upb/log-ingest/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// defaultIdleTTL is how long a client limiter survives without traffic
const defaultIdleTTL = 10 * time.Minute

// RateLimiter applies a token bucket per client IP
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
	logger    *zap.Logger
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per client
// with the given burst. A burst below one is raised to one.
func NewRateLimiter(rps float64, burst int, logger *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: defaultIdleTTL,
		now:     time.Now,
		logger:  logger,
	}
}

// Middleware rejects requests over the client's budget with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.allow(ip) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("client_ip", ip),
				zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			_ = utils.WriteTooManyRequests(w, "", map[string]interface{}{
				"limit_rps": float64(rl.limit),
				"burst":     rl.burst,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) >= rl.idleTTL {
		rl.prune(now)
	}

	client, ok := rl.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// prune drops limiters idle for longer than idleTTL; callers hold mu
func (rl *RateLimiter) prune(now time.Time) {
	threshold := now.Add(-rl.idleTTL)
	for ip, client := range rl.clients {
		if client.lastSeen.Before(threshold) {
			delete(rl.clients, ip)
		}
	}
	rl.lastPrune = now
}

// Clients returns the number of tracked client limiters
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP middleware
// has already rewritten from forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
