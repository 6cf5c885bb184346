// Package scene turns a game snapshot into a flat draw list that any
// frontend can paint, whether pixels, terminal cells or HTML.
package scene

import (
	"strconv"
	"strings"

	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/hittest"
)

// Overlay is the full-board layer drawn over the pieces
type Overlay string

const (
	OverlayNone  Overlay = ""
	OverlayIntro Overlay = "intro"
	OverlayCTA   Overlay = "cta"
)

// Piece is one drawable piece
type Piece struct {
	Slot  int
	Index int
	Kind  model.Kind
	Color string
	Rect  model.Rect

	Selectable bool // Pressing it would pick up a group
	Selected   bool // Part of the held group
	Hovered    bool // Part of the group under the pointer
	Lifted     bool // Drawn at the drag position instead of in its slot
}

// Scene is everything a frontend needs for one frame, in board-local pixels.
// Pieces are in paint order with lifted pieces last.
type Scene struct {
	Width  float64
	Height float64
	Slots  []model.Rect
	Pieces []Piece

	// SnapSlot is the slot the held group is being pulled towards, -1 for none
	SnapSlot int

	Overlay       Overlay
	ShowCountdown bool
	Countdown     int
	CTAButton     model.Rect
	StoreURL      string
	Won           bool
	Completions   int
}

// Build lays the snapshot out. Lifted pieces follow the raw drag offset;
// callers with a magnet-pulled origin should call MoveGroup.
func Build(snap model.Snapshot, hit *hittest.Service) Scene {
	l := snap.Layout
	sc := Scene{
		Width:         l.Width,
		Height:        l.Height,
		Slots:         append([]model.Rect(nil), l.Slots...),
		SnapSlot:      -1,
		ShowCountdown: snap.TimerEnabled && snap.Phase == model.PhaseGameplay,
		Countdown:     snap.RemainingSeconds,
		CTAButton:     hit.CTAButton(l),
		StoreURL:      snap.StoreURL,
		Won:           snap.Won,
		Completions:   snap.Completions,
	}
	switch snap.Phase {
	case model.PhaseIntro:
		sc.Overlay = OverlayIntro
	case model.PhaseCTA:
		sc.Overlay = OverlayCTA
	}

	sel := snap.Selection
	dragging := sel != nil && snap.Drag.Active
	if dragging {
		sc.SnapSlot = snap.Drag.SnapSlot
	}

	var lifted []Piece
	for slot := range snap.Board.Slots {
		pieces := snap.Board.Slots[slot].Pieces
		for i, kind := range pieces {
			r, ok := hit.PieceRect(l, slot, i)
			if !ok {
				continue
			}
			p := Piece{
				Slot:       slot,
				Index:      i,
				Kind:       kind,
				Color:      model.KindColor(kind),
				Rect:       r,
				Selectable: snap.Board.IsPieceSelectable(slot, i),
			}
			if sel != nil && sel.Slot == slot && i >= sel.Piece {
				p.Selected = true
				p.Lifted = dragging
			}
			if h := snap.Hover; h != nil && h.Slot == slot && i >= h.Piece {
				p.Hovered = true
			}
			if p.Lifted {
				p.Rect.X += snap.Drag.OffsetX
				p.Rect.Y += snap.Drag.OffsetY
				lifted = append(lifted, p)
				continue
			}
			sc.Pieces = append(sc.Pieces, p)
		}
	}
	sc.Pieces = append(sc.Pieces, lifted...)
	return sc
}

// MoveGroup repositions the lifted pieces so the bottom one sits at (x, y),
// keeping their stacking offsets
func (sc *Scene) MoveGroup(x, y float64) {
	first := -1
	for i := range sc.Pieces {
		if sc.Pieces[i].Lifted {
			first = i
			break
		}
	}
	if first < 0 {
		return
	}
	dx := x - sc.Pieces[first].Rect.X
	dy := y - sc.Pieces[first].Rect.Y
	for i := first; i < len(sc.Pieces); i++ {
		sc.Pieces[i].Rect.X += dx
		sc.Pieces[i].Rect.Y += dy
	}
}

// RGB parses a "#RRGGBB" colour, returning mid grey for anything else
func RGB(color string) (r, g, b uint8) {
	hex, ok := strings.CutPrefix(color, "#")
	if !ok || len(hex) != 6 {
		return 0x9E, 0x9E, 0x9E
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0x9E, 0x9E, 0x9E
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

var glyphs = map[model.Kind]rune{
	model.KindMoon:    '☾',
	model.KindStar:    '★',
	model.KindCircle:  '●',
	model.KindDiamond: '◆',
	model.KindX:       '✕',
}

// Glyph returns the symbol printed on a piece. Kinds outside the reference
// set use their first letter.
func Glyph(k model.Kind) rune {
	if g, ok := glyphs[k]; ok {
		return g
	}
	for _, r := range strings.ToUpper(string(k)) {
		return r
	}
	return '?'
}
