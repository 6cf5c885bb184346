package middleware

import (
	"html"
	"log/slog"
	"net/http"

	"github.com/mcoot/colorwood/internal/middleware"
)

// Recovery answers a panicking page with an error page. On a session route
// it links back to the board.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, "web", webPanicPage)
}

func webPanicPage(w http.ResponseWriter, r *http.Request) {
	back, label := "/", "Start a new game"
	if id := middleware.SessionID(r); id != "" {
		back, label = "/play/"+html.EscapeString(id), "Back to your game"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Error - Colorwood</title></head>
<body>
<h1>Something went wrong</h1>
<p>The board could not be drawn. Please try again.</p>
<p><a id="recover" href="` + back + `">` + label + `</a></p>
</body>
</html>`))
}
