package middleware

import (
	"log/slog"
	"net/http"

	apimw "github.com/mcoot/colorwood/internal/api/middleware"
	"github.com/mcoot/colorwood/internal/middleware"
)

// Logging logs page and fragment requests. It must run inside the viewer
// middleware so lines carry the viewer.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLog(logger, "web", apimw.ViewerAttr, hxAttr)
}

// hxAttr separates htmx fragment swaps from full page loads
func hxAttr(r *http.Request) slog.Attr {
	return slog.Bool("fragment", r.Header.Get("HX-Request") == "true")
}
