package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"masareef/internal/core"
	"masareef/internal/log"
)

type contextKey string

const ownerContextKey contextKey = "owner"

const sessionCookieName = "masareef_session"

// guard applies security headers and rate limiting, and holds requests until
// the identity provider has finished its startup check.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.WaitReady(r.Context()); err != nil {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}

		clientIP := extractClientIP(r)
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// authed wraps guard and additionally resolves the current owner from the
// session token. Requests without a valid session get 401.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return s.guard(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		user, err := s.auth.CurrentUser(r.Context(), token)
		if err != nil {
			s.writeError(w, r, core.ErrUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ownerContextKey, user.ID)
		next(w, r.WithContext(ctx))
	})
}

// ownerID returns the authenticated owner stored by the authed middleware.
func ownerID(r *http.Request) string {
	id, _ := r.Context().Value(ownerContextKey).(string)
	return id
}

// sessionToken reads the session from the Authorization header or, failing
// that, the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// extractClientIP returns the client address, honoring forwarding headers
// only when the direct peer is a private or loopback address.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil {
		return directIP
	}

	if parsed.IsLoopback() || parsed.IsPrivate() {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
		}
	}

	return directIP
}
