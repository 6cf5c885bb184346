package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/colorwood/internal/api/apierr"
	"github.com/mcoot/colorwood/internal/api/response"
	"github.com/mcoot/colorwood/internal/model"
)

// SolveResult is what the solve command reports
type SolveResult struct {
	Moves   []response.Move  `json:"moves"`
	Stopped string           `json:"stopped"`
	Session response.Session `json:"session"`
}

// Reasons solve stops
const (
	StopWon      = "won"
	StopPhase    = "phase"
	StopNoMoves  = "no_moves"
	StopMaxMoves = "max_moves"
)

func hintPath(id, strategy string) string {
	path := sessionPath(id, "/hint")
	if strategy != "" {
		path += "?strategy=" + url.QueryEscape(strategy)
	}
	return path
}

func newSessionHintCmd(resolve sessionResolver) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Suggest the next move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolve()
			if err != nil {
				return err
			}
			var result response.Hint
			if err := client.Get(hintPath(id, strategy), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Hint strategy: greedy or random")
	return cmd
}

func newSessionSolveCmd(resolve sessionResolver) *cobra.Command {
	var (
		strategy string
		maxMoves int
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Play hinted moves until the game ends or gets stuck",
		Long: `Repeatedly asks the server for a hint and plays it as a drag gesture.
Stops when the board is won, the session leaves gameplay, no legal move is
left, or --max-moves moves have been played.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxMoves <= 0 {
				return fmt.Errorf("--max-moves must be positive")
			}
			id, err := resolve()
			if err != nil {
				return err
			}
			result, err := solve(id, strategy, maxMoves)
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Hint strategy: greedy or random")
	cmd.Flags().IntVar(&maxMoves, "max-moves", 200, "Give up after this many moves")
	return cmd
}

func solve(id, strategy string, maxMoves int) (SolveResult, error) {
	var result SolveResult
	if err := client.Get(sessionPath(id, ""), &result.Session); err != nil {
		return result, err
	}

	for {
		switch {
		case result.Session.Won:
			result.Stopped = StopWon
			return result, nil
		case result.Session.Phase != string(model.PhaseGameplay):
			result.Stopped = StopPhase
			return result, nil
		case len(result.Moves) >= maxMoves:
			result.Stopped = StopMaxMoves
			return result, nil
		}

		var h response.Hint
		if err := client.Get(hintPath(id, strategy), &h); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Code == apierr.CodeNoMoves {
				result.Stopped = StopNoMoves
				return result, nil
			}
			return result, err
		}

		played, err := playMove(id, h.From, h.To)
		if err != nil {
			return result, err
		}
		result.Session = played.Session
		if played.Move == nil || !played.Move.Committed {
			return result, fmt.Errorf("hinted move %d to %d was not accepted", h.From, h.To)
		}
		result.Moves = append(result.Moves, *played.Move)
	}
}
