/* middleware.go
 * Contains the gin middleware: request ids and logging, bearer token authentication, admin checks, and the per-IP
 * rate limit on credential endpoints
 * Authors: knockout-pool contributors
 */

package web

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"knockout-pool/api/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	requestIDKey  = "requestId"
	userIDKey     = "userId"
	claimsKey     = "claims"
	requestHeader = "X-Request-ID"
)

// requestLogger tags the request with an id and logs it once it completes
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestHeader, id)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("requestId", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user", c.GetString(userIDKey)).
			Msg("request")
	}
}

// requireAuth verifies the bearer token and stores the caller's id on the context
func requireAuth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}

		claims, err := authenticator.Verify(strings.TrimSpace(token))
		if err != nil {
			diagnostic := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				diagnostic = "token expired"
			}
			fail(c, http.StatusUnauthorized, "Unauthorized", diagnostic)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// requireAdmin re-reads the caller's role from the store. The admin claim in the token is not trusted
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.api.CheckAdmin(c.Request.Context(), c.GetString(userIDKey)); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// limiterIdleTTL is how long a client IP may stay silent before its bucket is dropped. A bucket refills completely
// within a minute, so a dropped bucket is indistinguishable from a fresh one
const limiterIdleTTL = 5 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps a token bucket per client IP and sweeps idle buckets
type ipLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	clock     clockwork.Clock
	lastSweep time.Time
}

func newIPLimiter(perMinute int, clock clockwork.Clock) *ipLimiter {
	if perMinute <= 0 {
		return nil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ipLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		clock:   clock,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		for key, entry := range l.entries {
			if now.Sub(entry.lastSeen) >= limiterIdleTTL {
				delete(l.entries, key)
			}
		}
		l.lastSweep = now
	}
	entry, ok := l.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// rateLimit rejects callers that exceed the limiter. A nil limiter allows everything. The key is gin's client IP,
// which only honours forwarding headers from the trusted proxies set on the engine
func rateLimit(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l != nil && !l.allow(c.ClientIP()) {
			fail(c, http.StatusTooManyRequests, "Too many requests, try again later", "rate limited")
			return
		}
		c.Next()
	}
}
