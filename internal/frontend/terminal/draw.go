package terminal

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
)

var (
	styleBase   = tcell.StyleDefault.Background(tcell.NewRGBColor(0x2B, 0x1D, 0x12)).Foreground(tcell.NewRGBColor(0xF5, 0xE6, 0xD3))
	styleBoard  = styleBase.Background(tcell.NewRGBColor(0x6B, 0x44, 0x23))
	styleSlot   = styleBase.Background(tcell.NewRGBColor(0x4A, 0x2F, 0x18))
	styleSnap   = styleBase.Background(tcell.NewRGBColor(0x8A, 0x6A, 0x30))
	stylePiece  = tcell.StyleDefault.Background(tcell.NewRGBColor(0xC8, 0x9B, 0x6D)).Foreground(tcell.NewRGBColor(0x3B, 0x24, 0x12))
	styleShade  = styleBase.Background(tcell.ColorBlack)
	styleButton = tcell.StyleDefault.Background(tcell.NewRGBColor(0x4C, 0xAF, 0x50)).Foreground(tcell.ColorWhite).Bold(true)
)

func (t *Terminal) draw(s surface) {
	s.Clear()
	cols, rows := s.Size()
	fill(s, 0, 0, cols, rows, styleBase)

	sc, err := t.game.Scene()
	if err != nil {
		t.logger.Error("building scene", slog.String("error", err.Error()))
		return
	}

	title := "Colorwood"
	if sc.Completions > 0 {
		title = fmt.Sprintf("Colorwood  cleared %d", sc.Completions)
	}
	drawText(s, 0, 0, title, styleBase)
	if sc.ShowCountdown {
		countdown := fmt.Sprintf("%ds", sc.Countdown)
		drawText(s, cols-len(countdown), 0, countdown, styleBase.Bold(true))
	}

	footer := "Drag with the mouse. h: hint  r: reset  q: quit"
	if t.status != "" {
		footer = t.status
	}
	drawText(s, 0, rows-1, footer, styleBase)

	g := t.grid
	fill(s, 0, headerRows, g.cols, g.rows, styleBoard)
	for i, r := range sc.Slots {
		style := styleSlot
		if i == sc.SnapSlot {
			style = styleSnap
		}
		t.fillRect(s, r, style)
	}
	for _, p := range sc.Pieces {
		t.drawPiece(s, p)
	}

	switch sc.Overlay {
	case scene.OverlayIntro:
		t.drawOverlay(s, sc, "Sort the pieces!", "Drag stacks so each column holds one shape.", "Click or press Enter to play")
	case scene.OverlayCTA:
		heading := "Time's up!"
		if sc.Won {
			heading = "You did it!"
		}
		t.drawOverlay(s, sc, heading)
		if sc.StoreURL != "" {
			t.fillRect(s, sc.CTAButton, styleButton)
			cx, cy := sc.CTAButton.Center()
			col, row := g.toCell(cx, cy)
			label := "Play now"
			drawText(s, col-len(label)/2, row+headerRows, label, styleButton)
		}
	}
}

func (t *Terminal) drawPiece(s surface, p scene.Piece) {
	style := stylePiece
	if p.Selected || p.Hovered {
		r, g, b := scene.RGB(p.Color)
		style = style.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	if p.Lifted {
		style = style.Bold(true)
	}
	t.fillRect(s, p.Rect, style)

	// The glyph sits on the top row so it stays visible under the next piece
	c0, c1 := span(p.Rect.X, p.Rect.X+p.Rect.W, t.grid.cellWidth())
	r0, _ := span(p.Rect.Y, p.Rect.Y+p.Rect.H, t.grid.cellHeight())
	t.set(s, (c0+c1)/2, r0, scene.Glyph(p.Kind), style)
}

func (t *Terminal) drawOverlay(s surface, sc scene.Scene, lines ...string) {
	g := t.grid
	fill(s, 0, headerRows, g.cols, g.rows, styleShade)
	_, mid := g.toCell(0, sc.Height/2)
	top := mid - len(lines) - 1
	for i, line := range lines {
		drawText(s, (g.cols-len([]rune(line)))/2, headerRows+top+i, line, styleShade.Bold(i == 0))
	}
}

// fillRect paints the cells covering a board-local rect
func (t *Terminal) fillRect(s surface, r model.Rect, style tcell.Style) {
	c0, c1 := span(r.X, r.X+r.W, t.grid.cellWidth())
	r0, r1 := span(r.Y, r.Y+r.H, t.grid.cellHeight())
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			t.set(s, col, row, ' ', style)
		}
	}
}

// set paints one board cell, clipped to the board area
func (t *Terminal) set(s surface, col, row int, r rune, style tcell.Style) {
	if !t.grid.inside(col, row) {
		return
	}
	s.SetContent(col, row+headerRows, r, nil, style)
}

func fill(s surface, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

func drawText(s surface, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
