// Package components holds HTML fragments that are swapped into pages
package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
)

// BoardID is the element ID of the board fragment
const BoardID = "board"

func basePath(id model.SessionID) string {
	return "/play/" + string(id)
}

func ctaHeading(won bool) string {
	if won {
		return "You did it!"
	}
	return "Time's up!"
}

// box positions an element absolutely at r
func box(r model.Rect) templ.SafeCSS {
	return templ.SafeCSS("left:" + px(r.X) + ";top:" + px(r.Y) + ";width:" + px(r.W) + ";height:" + px(r.H) + ";")
}

// pieceStyle tints the pieces of the held or hovered group
func pieceStyle(p scene.Piece) templ.SafeCSS {
	style := box(p.Rect)
	if p.Selected || p.Hovered {
		style += templ.SafeCSS("background:" + p.Color + ";")
	}
	return style
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "px"
}
