// Package middleware holds the request logging and panic recovery shared by
// the API and web routers
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// AttrFunc pulls one log attribute out of a request
type AttrFunc func(r *http.Request) slog.Attr

// recorder captures the status and body size a handler wrote
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *recorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Flush keeps event streams working through the recorder
func (rw *recorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// RequestLog logs one line per request under the "<surface>-requests"
// component. Requests on a session route carry its session_id. Event streams
// log when they close, at debug level, since they stay open for the life of
// a page. Server errors log at warn.
func RequestLog(logger *slog.Logger, surface string, extra ...AttrFunc) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", surface+"-requests"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := Route(r)
			attrs := append(requestAttrs(r, route),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)),
			)
			for _, f := range extra {
				attrs = append(attrs, f(r))
			}

			level, msg := slog.LevelInfo, "session request"
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelWarn
			case strings.HasSuffix(route, "/events"):
				level, msg = slog.LevelDebug, "event stream closed"
			}
			logger.LogAttrs(r.Context(), level, msg, attrs...)
		})
	}
}

// Route returns the matched route template, falling back to the raw path
// for requests that matched nothing
func Route(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// SessionID returns the {id} route variable, or "" off session routes
func SessionID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func requestAttrs(r *http.Request, route string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("route", route),
	}
	if id := SessionID(r); id != "" {
		attrs = append(attrs, slog.String("session_id", id))
	}
	return attrs
}
