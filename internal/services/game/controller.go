package game

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/board"
	"github.com/mcoot/colorwood/internal/services/hittest"
	"github.com/mcoot/colorwood/internal/services/moves"
	"github.com/mcoot/colorwood/internal/services/timeline"
)

// Controller turns board-local pointer gestures and clock ticks into rule
// operations. It is the single control point that mutates a session's state;
// callers serialise access per session.
type Controller struct {
	boardService    *board.Service
	moveService     *moves.Service
	timelineService *timeline.Service
	hitTestService  *hittest.Service
	clock           clock.Clock
	logger          *slog.Logger
}

// NewController creates a new GameController
func NewController(
	boardService *board.Service,
	moveService *moves.Service,
	timelineService *timeline.Service,
	hitTestService *hittest.Service,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		boardService:    boardService,
		moveService:     moveService,
		timelineService: timelineService,
		hitTestService:  hitTestService,
		clock:           clock,
		logger:          logger.With(slog.String("component", "game")),
	}
}

// NewGame deals a fresh board and lays it out for the viewport.
// The returned session has no ID; hosting layers assign one.
func (c *Controller) NewGame(cfg model.GameConfig, viewportWidth float64) (*model.Session, error) {
	b, err := c.boardService.NewDealtBoard(cfg)
	if err != nil {
		return nil, fmt.Errorf("dealing board: %w", err)
	}
	layout, err := c.hitTestService.ComputeLayout(cfg.SlotCount, cfg.Capacity, cfg.Tolerance, cfg.Magnet, viewportWidth)
	if err != nil {
		return nil, fmt.Errorf("computing layout: %w", err)
	}

	now := c.clock.Now()
	sess := &model.Session{
		Config:        cfg,
		State:         model.NewGameState(b, cfg.Timeline),
		Layout:        layout,
		ViewportWidth: viewportWidth,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	c.logger.Info("game created",
		slog.Int("slots", cfg.SlotCount),
		slog.Int("capacity", cfg.Capacity),
		slog.Int("pieces", cfg.TotalPieces()),
		slog.Bool("timed", cfg.Timeline != nil),
	)
	return sess, nil
}

// Tick advances the timeline to the current clock reading. A gesture still in
// flight when gameplay ends is cancelled.
func (c *Controller) Tick(sess *model.Session) {
	st := sess.State
	for _, e := range c.timelineService.Tick(&st.Timeline, c.clock.Now()) {
		st.Emit(e)
	}
	if !c.timelineService.AcceptsInput(&st.Timeline) {
		c.moveService.CancelSelection(st)
		st.ClearGesture()
		st.Hover = nil
	}
	sess.UpdatedAt = c.clock.Now()
}

// DismissIntro handles a click on the intro overlay
func (c *Controller) DismissIntro(sess *model.Session) bool {
	c.Tick(sess)
	events := c.timelineService.DismissIntro(&sess.State.Timeline, c.clock.Now())
	for _, e := range events {
		sess.State.Emit(e)
	}
	return len(events) > 0
}

// PointerDown starts a gesture. Returns true if a group was picked up.
// Anything other than a hit on a selectable piece during gameplay is a no-op.
func (c *Controller) PointerDown(sess *model.Session, x, y float64) bool {
	c.Tick(sess)
	st := sess.State
	if !c.timelineService.AcceptsInput(&st.Timeline) || st.Selection != nil {
		return false
	}

	ref, ok := c.hitTestService.LocatePiece(st.Board, sess.Layout, x, y)
	if !ok {
		return false
	}
	if _, err := c.moveService.BeginSelection(st, ref.Slot, ref.Piece); err != nil {
		c.logger.Debug("selection refused", slog.String("error", err.Error()))
		return false
	}

	c.timelineService.MarkInteracted(&st.Timeline)
	st.Hover = nil
	st.Drag = model.Drag{
		Active:   true,
		StartX:   x,
		StartY:   y,
		SnapSlot: -1,
	}
	return true
}

// PointerMove updates the drag, or the hover highlight when nothing is held
func (c *Controller) PointerMove(sess *model.Session, x, y float64) {
	c.Tick(sess)
	st := sess.State
	if !c.timelineService.AcceptsInput(&st.Timeline) {
		return
	}

	if st.Selection == nil {
		if ref, ok := c.hitTestService.LocatePiece(st.Board, sess.Layout, x, y); ok {
			st.Hover = &ref
		} else {
			st.Hover = nil
		}
		return
	}

	st.Drag.OffsetX = x - st.Drag.StartX
	st.Drag.OffsetY = y - st.Drag.StartY
	st.Drag.SnapSlot = -1

	gx, gy, ok := c.groupCenter(sess)
	if !ok {
		return
	}
	legal := c.moveService.LegalDestinations(st, st.Selection.Slot)
	if slot, ok := c.hitTestService.NearestSlot(st.Board, sess.Layout, gx, gy, legal); ok {
		st.Drag.SnapSlot = slot
	}
}

// PointerUp ends the gesture with exactly one commit attempt on the slot under x.
// Releasing away from every slot cancels. Once gameplay time has run out only
// a drop that clears the board is committed, so a winning move beats a timer
// expiring in the same update and nothing else changes the board.
func (c *Controller) PointerUp(sess *model.Session, x, y float64) (moves.MoveResult, bool) {
	st := sess.State
	defer c.Tick(sess)

	if st.Selection == nil {
		st.ClearGesture()
		return moves.MoveResult{From: -1, To: -1, Reason: moves.ReasonNoSelection}, false
	}

	var (
		result moves.MoveResult
		ok     bool
	)
	from := st.Selection.Slot
	dest, hit := c.hitTestService.LocateSlot(sess.Layout, x)
	switch {
	case !hit:
		c.moveService.CancelSelection(st)
		result = moves.MoveResult{From: from, To: -1, Reason: moves.ReasonInvalidSlot}
	case c.timelineService.Expired(&st.Timeline, c.clock.Now()) && !c.moveService.WouldClearBoard(st, dest):
		c.moveService.CancelSelection(st)
		result = moves.MoveResult{From: from, To: dest, Reason: moves.ReasonTimeUp}
		c.logger.Debug("drop after time up", slog.Int("from", from), slog.Int("to", dest))
	default:
		result, ok = c.moveService.CommitMove(st, dest)
	}
	st.ClearGesture()

	if ok {
		c.logger.Debug("move applied",
			slog.Int("from", result.From),
			slog.Int("to", result.To),
			slog.Int("group_size", result.GroupSize),
			slog.Bool("cleared", result.Cleared),
		)
	}
	return result, ok
}

// PointerLeave abandons any gesture in flight without touching the board
func (c *Controller) PointerLeave(sess *model.Session) {
	st := sess.State
	c.moveService.CancelSelection(st)
	st.ClearGesture()
	st.Hover = nil
}

// Reset deals a new board in place. Only allowed while the board is interactive.
func (c *Controller) Reset(sess *model.Session) error {
	c.Tick(sess)
	st := sess.State
	if !c.timelineService.AcceptsInput(&st.Timeline) {
		return model.ErrNotInGameplay
	}

	c.moveService.CancelSelection(st)
	st.ClearGesture()
	st.Hover = nil
	if err := c.boardService.Reset(st.Board, sess.Config); err != nil {
		return fmt.Errorf("resetting board: %w", err)
	}
	st.Completions = 0
	st.Won = false

	st.Emit(model.Event{Type: model.EventBoardReset, Timestamp: c.clock.Now()})
	c.logger.Info("board reset")
	return nil
}

// Relayout recomputes the geometry for a new viewport width. Stacks are untouched;
// a gesture in flight is cancelled because its pixel offsets no longer apply.
func (c *Controller) Relayout(sess *model.Session, viewportWidth float64) error {
	cfg := sess.Config
	layout, err := c.hitTestService.ComputeLayout(cfg.SlotCount, cfg.Capacity, cfg.Tolerance, cfg.Magnet, viewportWidth)
	if err != nil {
		return err
	}

	st := sess.State
	c.moveService.CancelSelection(st)
	st.ClearGesture()
	st.Hover = nil
	sess.Layout = layout
	sess.ViewportWidth = viewportWidth
	sess.UpdatedAt = c.clock.Now()
	return nil
}

// DraggedGroupOrigin returns where renderers should draw the bottom piece of
// the held group, pulled towards the snap slot by the magnet
func (c *Controller) DraggedGroupOrigin(sess *model.Session) (float64, float64, bool) {
	st := sess.State
	if st.Selection == nil || !st.Drag.Active {
		return 0, 0, false
	}
	r, ok := c.hitTestService.PieceRect(sess.Layout, st.Selection.Slot, st.Selection.Piece)
	if !ok {
		return 0, 0, false
	}
	x, y := r.X+st.Drag.OffsetX, r.Y+st.Drag.OffsetY

	if st.Drag.SnapSlot >= 0 {
		if target, ok := c.hitTestService.LandingRect(st.Board, sess.Layout, st.Drag.SnapSlot); ok {
			x, y = c.hitTestService.MagnetPull(x, y, target.X, target.Y, sess.Config.Magnet.Speed)
		}
	}
	return x, y, true
}

// Remaining returns the whole seconds of gameplay left on the timer
func (c *Controller) Remaining(sess *model.Session) int {
	return c.timelineService.Remaining(&sess.State.Timeline, c.clock.Now())
}

// groupCenter is the centre of the held group's bottom piece at its dragged position
func (c *Controller) groupCenter(sess *model.Session) (float64, float64, bool) {
	st := sess.State
	r, ok := c.hitTestService.PieceRect(sess.Layout, st.Selection.Slot, st.Selection.Piece)
	if !ok {
		return 0, 0, false
	}
	cx, cy := r.Center()
	return cx + st.Drag.OffsetX, cy + st.Drag.OffsetY, true
}
