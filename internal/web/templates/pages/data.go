// Package pages holds full web pages
package pages

import (
	"github.com/a-h/templ"

	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/web/templates/layout"
)

// HomeData is data for the home page
type HomeData struct {
	layout.PageData
	Sessions    []string
	LastSession string // Session this browser last played, if still live
}

// PlayData is data for the play page
type PlayData struct {
	layout.PageData
	SessionID model.SessionID
	Scene     scene.Scene
}

func playPath(id string) string {
	return "/play/" + id
}

func playURL(id string) templ.SafeURL {
	return templ.URL(playPath(id))
}
