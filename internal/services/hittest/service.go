package hittest

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mcoot/colorwood/internal/model"
)

// Design surface geometry. Everything is authored at DesignWidth and scaled
// uniformly to the target width.
const (
	DesignWidth    = 1215.0
	DesignHeight   = 2160.0
	MaxTargetWidth = 600.0

	PieceWidth      = 114.0
	PieceHeight     = 130.0
	PieceStepFactor = 0.75 // Stacked pieces overlap by a quarter of their height

	SlotSpacingMultiplier = 1.3
	SlotHeightFactor      = 0.3
	BottomMargin          = 140.0

	CTAButtonWidth  = 300.0
	CTAButtonHeight = 80.0
	CTAButtonOffset = 20.0 // Below the vertical centre
)

// Service maps board-local pointer coordinates onto slots and pieces
type Service struct {
	logger *slog.Logger
}

// New creates a new HitTestService
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "hittest")),
	}
}

// ComputeLayout places slotCount slots for the given viewport width.
// Slots are centred horizontally and sit BottomMargin above the bottom edge.
func (s *Service) ComputeLayout(slotCount, capacity int, tol model.HitTolerance, magnet model.MagnetConfig, viewportWidth float64) (model.Layout, error) {
	if math.IsNaN(viewportWidth) || math.IsInf(viewportWidth, 0) || viewportWidth <= 0 {
		return model.Layout{}, fmt.Errorf("%w: width %v", model.ErrInvalidViewport, viewportWidth)
	}
	if slotCount < 1 || capacity < 1 {
		return model.Layout{}, model.NewConfigError("board", "cannot lay out %d slots of %d", slotCount, capacity)
	}

	width := math.Min(viewportWidth, MaxTargetWidth)
	scale := width / DesignWidth

	l := model.Layout{
		Width:       width,
		Height:      DesignHeight * scale,
		Scale:       scale,
		PieceWidth:  PieceWidth * scale,
		PieceHeight: PieceHeight * scale,
		Tolerance: model.HitTolerance{
			Horizontal: tol.Horizontal * scale,
			Vertical:   tol.Vertical * scale,
		},
		MagnetThreshold: magnet.Threshold * scale,
	}
	l.PieceStep = l.PieceHeight * PieceStepFactor

	slotW := l.PieceWidth
	spacing := (PieceWidth*SlotSpacingMultiplier - PieceWidth) * scale
	total := float64(slotCount)*(slotW+spacing) - spacing
	startX := (width - total) / 2

	slotH := PieceHeight * float64(capacity) * SlotHeightFactor * scale
	startY := l.Height - slotH - BottomMargin*scale

	l.Slots = make([]model.Rect, slotCount)
	for i := range l.Slots {
		l.Slots[i] = model.Rect{
			X: startX + float64(i)*(slotW+spacing),
			Y: startY,
			W: slotW,
			H: slotH,
		}
	}

	s.logger.Debug("layout computed",
		slog.Float64("width", l.Width),
		slog.Float64("scale", l.Scale),
		slog.Int("slots", slotCount),
	)
	return l, nil
}

// SlotRect returns the drawn rectangle of a slot
func (s *Service) SlotRect(l model.Layout, slot int) (model.Rect, bool) {
	if slot < 0 || slot >= len(l.Slots) {
		return model.Rect{}, false
	}
	return l.Slots[slot], true
}

// PieceRect returns the drawn rectangle of the piece at index piece (from the bottom)
func (s *Service) PieceRect(l model.Layout, slot, piece int) (model.Rect, bool) {
	sr, ok := s.SlotRect(l, slot)
	if !ok || piece < 0 {
		return model.Rect{}, false
	}
	return model.Rect{
		X: sr.X + (sr.W-l.PieceWidth)/2,
		Y: sr.Y + sr.H - float64(piece+1)*l.PieceStep,
		W: l.PieceWidth,
		H: l.PieceHeight,
	}, true
}

// LocatePiece returns the topmost piece whose widened rectangle contains the point.
// A hit on a piece that cannot be picked up is a miss, the point does not fall
// through to pieces underneath.
func (s *Service) LocatePiece(b *model.Board, l model.Layout, x, y float64) (model.PieceRef, bool) {
	tol := l.Tolerance
	for slot := range l.Slots {
		if slot >= b.SlotCount() {
			break
		}
		if !l.Slots[slot].Expand(tol.Horizontal, 0).ContainsX(x) {
			continue
		}
		for piece := b.Len(slot) - 1; piece >= 0; piece-- {
			r, _ := s.PieceRect(l, slot, piece)
			if !r.Expand(tol.Horizontal, tol.Vertical).Contains(x, y) {
				continue
			}
			if b.IsPieceSelectable(slot, piece) {
				return model.PieceRef{Slot: slot, Piece: piece}, true
			}
			return model.PieceRef{}, false
		}
	}
	return model.PieceRef{}, false
}

// LocateSlot returns the slot whose widened horizontal band contains x.
// Height is ignored so a drop anywhere above or below a slot lands on it.
func (s *Service) LocateSlot(l model.Layout, x float64) (int, bool) {
	for i, r := range l.Slots {
		if r.Expand(l.Tolerance.Horizontal, 0).ContainsX(x) {
			return i, true
		}
	}
	return -1, false
}

// LandingRect is where the next piece dropped on a slot would be drawn
func (s *Service) LandingRect(b *model.Board, l model.Layout, slot int) (model.Rect, bool) {
	return s.PieceRect(l, slot, b.Len(slot))
}

// NearestSlot returns the candidate slot whose landing position is closest to
// (x, y), provided it lies strictly within the magnet threshold
func (s *Service) NearestSlot(b *model.Board, l model.Layout, x, y float64, candidates []int) (int, bool) {
	best, bestDist := -1, l.MagnetThreshold
	for _, slot := range candidates {
		if slot < 0 || slot >= len(l.Slots) || slot >= b.SlotCount() {
			continue
		}
		r, _ := s.LandingRect(b, l, slot)
		dx, dy := r.Center()
		if d := math.Hypot(x-dx, y-dy); d < bestDist {
			best, bestDist = slot, d
		}
	}
	return best, best >= 0
}

// MagnetPull moves (x, y) towards the target by the given fraction of the gap
func (s *Service) MagnetPull(x, y, targetX, targetY, speed float64) (float64, float64) {
	return x + (targetX-x)*speed, y + (targetY-y)*speed
}

// CTAButton returns the click-through button shown over the cta overlay
func (s *Service) CTAButton(l model.Layout) model.Rect {
	w := CTAButtonWidth * l.Scale
	h := CTAButtonHeight * l.Scale
	return model.Rect{
		X: (l.Width - w) / 2,
		Y: l.Height/2 + CTAButtonOffset*l.Scale,
		W: w,
		H: h,
	}
}
