package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/naim-haider/freelancer-ai-backend/internal/auth"
)

const userEmailKey ctxKey = "user_email"

// UserEmailFrom returns the authenticated caller's email, empty on public
// routes.
func UserEmailFrom(ctx context.Context) string {
	if v, ok := ctx.Value(userEmailKey).(string); ok {
		return v
	}
	return ""
}

func withUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// RequireAuth checks the Bearer token against the auth backend's shared
// HS256 secret and puts the caller's email on the request context. Error
// messages match what the UI already displays.
func RequireAuth(v *auth.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				apiErr(w, http.StatusUnauthorized, "Unauthorized, please log in.")
				return
			}

			claims, err := v.ParseAndValidate(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					apiErr(w, http.StatusUnauthorized, "Session expired, please log in again.")
					return
				}
				apiErr(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserEmail(r.Context(), claims.Email)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
