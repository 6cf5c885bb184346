package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

// ViewerHeader carries a client-chosen identifier used to label event streams
const ViewerHeader = "X-Viewer-ID"

// maxViewerIDLength bounds what a client can put in the logs
const maxViewerIDLength = 64

// Viewer records who is making the request. Sessions are anonymous, so this
// only labels streams and logs and never gates access.
func Viewer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), viewerContextKey, extractViewer(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractViewer prefers the header, then the viewer cookie, then the remote host
func extractViewer(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(ViewerHeader)); id != "" {
		return truncate(id)
	}
	if cookie, err := r.Cookie("viewer"); err == nil && cookie.Value != "" {
		return truncate(cookie.Value)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func truncate(s string) string {
	if len(s) > maxViewerIDLength {
		return s[:maxViewerIDLength]
	}
	return s
}

// GetViewer returns the viewer recorded for the request, or "anonymous"
func GetViewer(ctx context.Context) string {
	if v, ok := ctx.Value(viewerContextKey).(string); ok && v != "" {
		return v
	}
	return "anonymous"
}
