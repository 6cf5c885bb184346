package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/colorwood/internal/api/apierr"
	"github.com/mcoot/colorwood/internal/middleware"
)

// Recovery answers a panicking API handler with an INTERNAL_ERROR body
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, "api", func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

// Logging logs API requests with the viewer that made them. It must run
// inside Viewer.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLog(logger, "api", ViewerAttr)
}

// ViewerAttr labels a log line with the request's viewer
func ViewerAttr(r *http.Request) slog.Attr {
	return slog.String("viewer", GetViewer(r.Context()))
}
