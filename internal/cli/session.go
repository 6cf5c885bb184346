package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/colorwood/internal/api/request"
	"github.com/mcoot/colorwood/internal/api/response"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/hittest"
)

var errNoSession = errors.New("no session given: pass --session or run 'session create' first")

func newSessionCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
		Long: `Session commands. Commands that act on one session use --session, or the
session remembered by the last 'session create'.`,
	}

	cmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Session ID")
	resolve := func() (string, error) {
		if sessionID != "" {
			return sessionID, nil
		}
		id, err := cfg.CurrentSession()
		if err != nil {
			return "", fmt.Errorf("failed to read session file: %w", err)
		}
		if id == "" {
			return "", errNoSession
		}
		return id, nil
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd(resolve))
	cmd.AddCommand(newSessionDeleteCmd(resolve))
	cmd.AddCommand(newSessionDismissCmd(resolve))
	cmd.AddCommand(newSessionResetCmd(resolve))
	cmd.AddCommand(newSessionResizeCmd(resolve))
	cmd.AddCommand(newSessionPointerCmd(resolve))
	cmd.AddCommand(newSessionMoveCmd(resolve))
	cmd.AddCommand(newSessionHintCmd(resolve))
	cmd.AddCommand(newSessionSolveCmd(resolve))

	return cmd
}

type sessionResolver func() (string, error)

func sessionPath(id string, suffix string) string {
	return "/api/v1/sessions/" + id + suffix
}

func newSessionCreateCmd() *cobra.Command {
	var (
		req                        request.CreateSessionRequest
		freePlay                   bool
		kinds                      string
		intro, gameplay, ctaLength float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session and remember it",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("free-play") {
				req.FreePlay = &freePlay
			}
			if flags.Changed("kinds") {
				req.Kinds = strings.Split(kinds, ",")
			}
			if flags.Changed("intro") {
				req.IntroSeconds = &intro
			}
			if flags.Changed("gameplay") {
				req.GameplaySeconds = &gameplay
			}
			if flags.Changed("cta") {
				req.CTASeconds = &ctaLength
			}

			var result response.Session
			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}
			if err := cfg.SaveSession(result.ID); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.ViewportWidth, "width", 600, "Viewport width in pixels")
	cmd.Flags().BoolVar(&freePlay, "free-play", false, "Play without the ad timeline")
	cmd.Flags().IntVar(&req.SlotCount, "slots", 0, "Number of slots (default from server)")
	cmd.Flags().IntVar(&req.Capacity, "capacity", 0, "Pieces per slot (default from server)")
	cmd.Flags().StringVar(&kinds, "kinds", "", "Comma-separated piece kinds")
	cmd.Flags().IntVar(&req.PiecesPerKind, "per-kind", 0, "Pieces of each kind")
	cmd.Flags().Float64Var(&intro, "intro", 0, "Intro length in seconds")
	cmd.Flags().Float64Var(&gameplay, "gameplay", 0, "Gameplay length in seconds")
	cmd.Flags().Float64Var(&ctaLength, "cta", 0, "Call to action length in seconds")
	cmd.Flags().StringVar(&req.StoreURL, "store-url", "", "Click-through URL shown at the call to action")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionList
			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionGetCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolve()
			if err != nil {
				return err
			}
			var result response.Session
			if err := client.Get(sessionPath(id, ""), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "End a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolve()
			if err != nil {
				return err
			}
			if err := client.Delete(sessionPath(id, "")); err != nil {
				return err
			}
			if err := cfg.ForgetSession(id); err != nil {
				return fmt.Errorf("failed to clear session file: %w", err)
			}
			output(cmd).PrintMessage("Deleted session " + id)
			return nil
		},
	}
}

func newSessionDismissCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the intro overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint(cmd, resolve, "/intro/dismiss")
		},
	}
}

func newSessionResetCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reshuffle the board (gameplay only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint(cmd, resolve, "/reset")
		},
	}
}

func postAndPrint(cmd *cobra.Command, resolve sessionResolver, suffix string) error {
	id, err := resolve()
	if err != nil {
		return err
	}
	var result response.Session
	if err := client.Post(sessionPath(id, suffix), nil, &result); err != nil {
		return err
	}
	output(cmd).Print(result)
	return nil
}

func newSessionResizeCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <width>",
		Short: "Lay the board out for a new viewport width",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("width must be a number: %w", err)
			}
			id, err := resolve()
			if err != nil {
				return err
			}
			var result response.Session
			if err := client.Put(sessionPath(id, "/viewport"), request.ViewportRequest{Width: width}, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionPointerCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "pointer <down|move|up|leave> <x> <y>",
		Short: "Send one raw pointer event in board coordinates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := model.ParsePointerOp(args[0]); err != nil {
				return err
			}
			x, errX := strconv.ParseFloat(args[1], 64)
			y, errY := strconv.ParseFloat(args[2], 64)
			if errX != nil || errY != nil {
				return fmt.Errorf("coordinates must be numbers")
			}
			id, err := resolve()
			if err != nil {
				return err
			}
			result, err := sendPointer(id, args[0], x, y)
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionMoveCmd(resolve sessionResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Drag the top group of one slot onto another",
		Long: `Plays a full down/move/up gesture: grabs the whole same-kind run at the
top of <from> and releases it over <to>.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, errFrom := strconv.Atoi(args[0])
			to, errTo := strconv.Atoi(args[1])
			if errFrom != nil || errTo != nil {
				return fmt.Errorf("slots must be integers")
			}
			id, err := resolve()
			if err != nil {
				return err
			}

			result, err := playMove(id, from, to)
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

// playMove drags the top run of from onto to with a down/move/up gesture
func playMove(id string, from, to int) (MoveResult, error) {
	var sess response.Session
	if err := client.Get(sessionPath(id, ""), &sess); err != nil {
		return MoveResult{}, err
	}
	gesture, err := planMove(sess, from, to)
	if err != nil {
		return MoveResult{}, err
	}

	down, err := sendPointer(id, "down", gesture.fromX, gesture.fromY)
	if err != nil {
		return MoveResult{}, err
	}
	if !down.Accepted {
		return MoveResult{}, fmt.Errorf("slot %d could not be picked up (phase %s)", from, down.Session.Phase)
	}
	if _, err := sendPointer(id, "move", gesture.toX, gesture.toY); err != nil {
		return MoveResult{}, err
	}
	up, err := sendPointer(id, "up", gesture.toX, gesture.toY)
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Move: up.Move, Session: up.Session}, nil
}

func sendPointer(id, op string, x, y float64) (response.PointerResponse, error) {
	var result response.PointerResponse
	err := client.Post(sessionPath(id, "/pointer"), request.PointerRequest{Type: op, X: x, Y: y}, &result)
	return result, err
}

type movePlan struct {
	fromX, fromY float64
	toX, toY     float64
}

// planMove finds where to press to grab the top run of from, and where to
// release over to, using the session's current layout
func planMove(sess response.Session, from, to int) (movePlan, error) {
	if from < 0 || from >= len(sess.Slots) || to < 0 || to >= len(sess.Slots) {
		return movePlan{}, fmt.Errorf("slots must be between 0 and %d", len(sess.Slots)-1)
	}
	pieces := sess.Slots[from]
	if len(pieces) == 0 {
		return movePlan{}, fmt.Errorf("slot %d is empty", from)
	}

	start := len(pieces) - 1
	for start > 0 && pieces[start-1] == pieces[len(pieces)-1] {
		start--
	}

	hit := hittest.New(discardLogger())
	grab, ok := hit.PieceRect(sess.Layout, from, start)
	if !ok {
		return movePlan{}, fmt.Errorf("slot %d has no layout", from)
	}
	target, ok := hit.SlotRect(sess.Layout, to)
	if !ok {
		return movePlan{}, fmt.Errorf("slot %d has no layout", to)
	}

	plan := movePlan{}
	plan.fromX, plan.fromY = grab.Center()
	plan.toX, plan.toY = target.Center()
	return plan, nil
}
