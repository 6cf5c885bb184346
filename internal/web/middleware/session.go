package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/colorwood/internal/model"
)

const (
	lastSessionCookieName = "last_session"
	lastSessionContextKey = contextKey("lastSession")
)

// RememberSession stores the session a browser last played so the home page
// can offer to resume it
func RememberSession(w http.ResponseWriter, id model.SessionID) {
	http.SetCookie(w, &http.Cookie{
		Name:     lastSessionCookieName,
		Value:    string(id),
		Path:     "/",
		MaxAge:   30 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetLastSession returns the remembered session, or "" if none
func GetLastSession(ctx context.Context) model.SessionID {
	id, _ := ctx.Value(lastSessionContextKey).(model.SessionID)
	return id
}

// LastSession returns middleware that loads the remembered session ID into
// the request context
func LastSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cookie, err := r.Cookie(lastSessionCookieName); err == nil && cookie.Value != "" {
				ctx = context.WithValue(ctx, lastSessionContextKey, model.SessionID(cookie.Value))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
