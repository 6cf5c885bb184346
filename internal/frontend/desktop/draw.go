package desktop

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
)

var (
	colorBackground = color.RGBA{0x2B, 0x1D, 0x12, 0xFF}
	colorBoard      = color.RGBA{0x6B, 0x44, 0x23, 0xFF}
	colorSlot       = color.RGBA{0x4A, 0x2F, 0x18, 0xFF}
	colorSnap       = color.RGBA{0xFF, 0xE0, 0x8A, 0xFF}
	colorPiece      = color.RGBA{0xC8, 0x9B, 0x6D, 0xFF}
	colorPieceEdge  = color.RGBA{0x8A, 0x5A, 0x33, 0xFF}
	colorHoverEdge  = color.RGBA{0xFF, 0xF3, 0xC4, 0xFF}
	colorGlyph      = color.RGBA{0x3B, 0x24, 0x12, 0xFF}
	colorText       = color.RGBA{0xF5, 0xE6, 0xD3, 0xFF}
	colorShade      = color.RGBA{0x00, 0x00, 0x00, 0x99}
	colorButton     = color.RGBA{0x4C, 0xAF, 0x50, 0xFF}
)

var face = basicfont.Face7x13

// Draw paints the current scene
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	sc, err := g.game.Scene()
	if err != nil {
		g.logger.Error("building scene", slog.String("error", err.Error()))
		return
	}

	g.drawHeader(screen, sc)

	ox, oy := float32(margin), float32(margin+headerHeight)
	vector.DrawFilledRect(screen, ox, oy, float32(sc.Width), float32(sc.Height), colorBoard, false)

	for i, r := range sc.Slots {
		fillRect(screen, ox, oy, r, colorSlot)
		if i == sc.SnapSlot {
			strokeRect(screen, ox, oy, r, 3, colorSnap)
		}
	}
	for _, p := range sc.Pieces {
		drawPiece(screen, ox, oy, p)
	}

	switch sc.Overlay {
	case scene.OverlayIntro:
		drawOverlay(screen, ox, oy, sc, "Sort the pieces!", "Drag stacks so each column holds one shape.", "Click to play")
	case scene.OverlayCTA:
		heading := "Time's up!"
		if sc.Won {
			heading = "You did it!"
		}
		drawOverlay(screen, ox, oy, sc, heading)
		if sc.StoreURL != "" {
			fillRect(screen, ox, oy, sc.CTAButton, colorButton)
			centerText(screen, "Play now", ox+float32(sc.CTAButton.X), oy+float32(sc.CTAButton.Y),
				float32(sc.CTAButton.W), float32(sc.CTAButton.H), colorText)
		}
	}
}

func (g *Game) drawHeader(screen *ebiten.Image, sc scene.Scene) {
	left := "R: reset  H: hint  C: copy  Esc: quit"
	if g.status != "" {
		left = g.status
	}
	text.Draw(screen, left, face, margin, margin+16, colorText)

	if sc.ShowCountdown {
		right := fmt.Sprintf("%ds", sc.Countdown)
		x := margin + int(sc.Width) - textWidth(right)
		text.Draw(screen, right, face, x, margin+16, colorText)
	}
}

func drawPiece(screen *ebiten.Image, ox, oy float32, p scene.Piece) {
	fill := colorPiece
	if p.Selected || p.Hovered {
		r, gr, b := scene.RGB(p.Color)
		fill = color.RGBA{r, gr, b, 0xFF}
	}
	edge := colorPieceEdge
	if p.Hovered {
		edge = colorHoverEdge
	}
	fillRect(screen, ox, oy, p.Rect, fill)
	strokeRect(screen, ox, oy, p.Rect, 3, edge)
	centerText(screen, label(p.Kind), ox+float32(p.Rect.X), oy+float32(p.Rect.Y),
		float32(p.Rect.W), float32(p.Rect.H), colorGlyph)
}

func drawOverlay(screen *ebiten.Image, ox, oy float32, sc scene.Scene, lines ...string) {
	vector.DrawFilledRect(screen, ox, oy, float32(sc.Width), float32(sc.Height), colorShade, false)
	top := float32(sc.Height)/2 - float32(len(lines)*20) - 20
	for i, line := range lines {
		centerText(screen, line, ox, oy+top+float32(i*20), float32(sc.Width), 20, colorText)
	}
}

// label is the ASCII stand-in for a kind's glyph, since basicfont has no symbols
func label(k model.Kind) string {
	g := scene.Glyph(k)
	if g < 0x80 {
		return string(g)
	}
	if k == "" {
		return "?"
	}
	return strings.ToUpper(string(k)[:1])
}

func fillRect(dst *ebiten.Image, ox, oy float32, r model.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, ox+float32(r.X), oy+float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func strokeRect(dst *ebiten.Image, ox, oy float32, r model.Rect, width float32, clr color.Color) {
	vector.StrokeRect(dst, ox+float32(r.X), oy+float32(r.Y), float32(r.W), float32(r.H), width, clr, false)
}

func centerText(dst *ebiten.Image, s string, x, y, w, h float32, clr color.Color) {
	tx := int(x+w/2) - textWidth(s)/2
	ty := int(y+h/2) + face.Ascent/2
	text.Draw(dst, s, face, tx, ty, clr)
}

func textWidth(s string) int {
	return len(s) * face.Advance
}
