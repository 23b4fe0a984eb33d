package app

import (
	"context"
	"net/http"
	"strings"

	"pulperia-go/internal/store"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// MiddlewareLoadCurrentUser resolves the bearer token, if any, into the
// current user. It never rejects: RequireAuth/RequireAdmin do that.
func (a *App) MiddlewareLoadCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if username, err := a.VerifyAccessToken(token); err == nil {
				if u, ok := a.auth.GetByUsername(username); ok && u.IsActive {
					ctx := context.WithValue(r.Context(), ctxKeyUser, &u)
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) CurrentUser(r *http.Request) *store.User {
	u, _ := r.Context().Value(ctxKeyUser).(*store.User)
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
