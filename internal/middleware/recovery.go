package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicResponder writes the error response after a handler panics
type PanicResponder func(w http.ResponseWriter, r *http.Request)

// Recovery turns a panicking handler into a logged error response. The log
// line names the route and, on session routes, the session.
func Recovery(logger *slog.Logger, surface string, respond PanicResponder) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", surface+"-recovery"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					attrs := append(requestAttrs(r, Route(r)),
						slog.Any("panic", p),
						slog.String("stack", string(debug.Stack())),
					)
					logger.LogAttrs(r.Context(), slog.LevelError, "session handler panicked", attrs...)
					respond(w, r)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
