package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

// TokenCookieName is the HTTP-only cookie that carries the admin token.
const TokenCookieName = "token"

type contextKey string

const adminKey contextKey = "admin"

// SetAdmin returns a context carrying the authenticated admin identity.
func SetAdmin(ctx context.Context, identity *domain.AdminIdentity) context.Context {
	return context.WithValue(ctx, adminKey, identity)
}

// AdminFromContext returns the authenticated admin identity from the context, if present.
func AdminFromContext(ctx context.Context) (*domain.AdminIdentity, bool) {
	identity, ok := ctx.Value(adminKey).(*domain.AdminIdentity)
	return identity, ok && identity != nil
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the token cookie. The returned error is ErrUnauthenticated
// when no credential was sent and ErrInvalidToken when the header is malformed.
func TokenFromRequest(r *http.Request) (string, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			return "", domain.ErrInvalidToken
		}
		token := strings.TrimSpace(auth[len(prefix):])
		if token == "" {
			return "", domain.ErrUnauthenticated
		}
		return token, nil
	}
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", domain.ErrUnauthenticated
}

// RequireAdmin returns a wrapper that verifies the admin token and stores the identity in the
// request context. If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAdmin(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromRequest(r)
			if err != nil {
				msg := "authentication required"
				if errors.Is(err, domain.ErrInvalidToken) {
					msg = "invalid authorization format"
				}
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "admin token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetAdmin(r.Context(), identity)))
		}
	}
}
