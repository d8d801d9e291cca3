package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yourorg/harbormaster/internal/security"
	"github.com/yourorg/harbormaster/internal/security/audit"
	"github.com/yourorg/harbormaster/internal/security/auth"
	"github.com/yourorg/harbormaster/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// JWTMiddleware guards the routes the policy marks as protected. On a
// valid token it stores the claims in the request context and re-issues
// a fresh token in the Authorization response header, giving clients a
// sliding 24h session without any server-side token registry.
func JWTMiddleware(tm *auth.TokenManager, policy *security.RoutePolicy, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy.RequiresAuth(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := bearerToken(r)
			if tokenString == "" {
				http.Error(w, `{"error":"token_required"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.Verify(tokenString)
			if err != nil {
				log.Debug("token rejected", slog.String("error", err.Error()))
				http.Error(w, `{"error":"token_not_valid"}`, http.StatusUnauthorized)
				return
			}

			if fresh, err := tm.Refresh(claims); err == nil {
				w.Header().Set("Authorization", "Bearer "+fresh)
			} else {
				log.Error("failed to refresh token", slog.String("error", err.Error()))
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken pulls the token out of the Authorization or X-Access-Token
// header, with or without the Bearer prefix.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		header = r.Header.Get("X-Access-Token")
	}
	if header == "" {
		return ""
	}
	if token, err := auth.ExtractToken(header); err == nil {
		return token
	}
	if !strings.ContainsRune(header, ' ') {
		return header
	}
	return ""
}

// RateLimitMiddleware limits authenticated mutations per user and login
// attempts per client address.
func RateLimitMiddleware(limiter *ratelimit.Limiter, policy *security.RoutePolicy, loginLimit int, loginWindow time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.IsLogin(r) {
				if !limiter.AllowStrict(clientAddr(r), loginLimit, loginWindow) {
					log.Warn("login rate limit exceeded", slog.String("addr", clientAddr(r)))
					http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(userEmail(r.Context())) {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records every mutation of a marina resource
func AuditMiddleware(auditLog *audit.Logger, policy *security.RoutePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.RequiresAuth(r) {
				resource := strings.TrimPrefix(r.URL.Path, "/")
				if i := strings.IndexRune(resource, '/'); i > 0 {
					resource = resource[:i]
				}
				auditLog.LogMutation(r.Context(), userEmail(r.Context()), r.Method, resource, r.URL.Path)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func userEmail(ctx context.Context) string {
	if claims := GetClaimsFromContext(ctx); claims != nil {
		return claims.Email
	}
	return ""
}

// GetClaimsFromContext returns the verified claims for the request, or nil
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
