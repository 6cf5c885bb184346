package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/colorwood/internal/api/response"
	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// MoveResult is what the move command reports
type MoveResult struct {
	Move    *response.Move   `json:"move"`
	Session response.Session `json:"session"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case response.PointerResponse:
		o.printPointer(v)
	case MoveResult:
		o.printMove(v.Move)
		o.printSession(v.Session)
	case response.SessionList:
		o.printSessionList(v)
	case response.Hint:
		fmt.Fprintf(o.w, "Hint (%s): move %d %s from slot %d to %d\n", v.Strategy, v.GroupSize, v.Kind, v.From, v.To)
	case SolveResult:
		for i := range v.Moves {
			o.printMove(&v.Moves[i])
		}
		fmt.Fprintf(o.w, "Played %d moves, stopped: %s\n\n", len(v.Moves), v.Stopped)
		o.printSession(v.Session)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printSession(s response.Session) {
	fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	fmt.Fprintf(o.w, "Phase: %s\n", s.Phase)
	if s.TimerEnabled && s.Phase != string(model.PhaseCTA) {
		fmt.Fprintf(o.w, "Remaining: %ds\n", s.RemainingSeconds)
	}
	fmt.Fprintf(o.w, "Completions: %d\n", s.Completions)
	if s.Won {
		fmt.Fprintln(o.w, "Won: yes")
	}
	if s.Selection != nil {
		fmt.Fprintf(o.w, "Holding: %d from slot %d\n", s.Selection.GroupSize, s.Selection.Slot)
	}
	fmt.Fprintln(o.w)
	o.printBoard(s.Slots, s.Capacity)
	if s.CTAReached && s.StoreURL != "" {
		fmt.Fprintf(o.w, "\nStore: %s\n", s.StoreURL)
	}
}

// printBoard draws slots as columns, top of the stack uppermost
func (o *Output) printBoard(slots [][]string, capacity int) {
	if len(slots) == 0 {
		return
	}
	for row := capacity - 1; row >= 0; row-- {
		var b strings.Builder
		b.WriteString(" |")
		for _, slot := range slots {
			if row < len(slot) {
				b.WriteString(" " + string(scene.Glyph(model.Kind(slot[row]))) + " ")
			} else {
				b.WriteString(" . ")
			}
		}
		b.WriteString("|")
		fmt.Fprintln(o.w, b.String())
	}
	var b strings.Builder
	b.WriteString(" +")
	b.WriteString(strings.Repeat("---", len(slots)))
	b.WriteString("+\n  ")
	for i := range slots {
		fmt.Fprintf(&b, " %d ", i)
	}
	fmt.Fprintln(o.w, b.String())
}

func (o *Output) printPointer(p response.PointerResponse) {
	fmt.Fprintf(o.w, "Accepted: %t\n", p.Accepted)
	o.printMove(p.Move)
	o.printSession(p.Session)
}

func (o *Output) printMove(m *response.Move) {
	if m == nil {
		return
	}
	switch {
	case m.Committed && m.Cleared:
		fmt.Fprintf(o.w, "Moved %d %s from slot %d to %d, slot cleared!\n", m.GroupSize, m.Kind, m.From, m.To)
	case m.Committed:
		fmt.Fprintf(o.w, "Moved %d %s from slot %d to %d\n", m.GroupSize, m.Kind, m.From, m.To)
	default:
		fmt.Fprintf(o.w, "Move rejected: %s\n", m.Reason)
	}
	fmt.Fprintln(o.w)
}

func (o *Output) printSessionList(l response.SessionList) {
	if len(l.Sessions) == 0 {
		fmt.Fprintln(o.w, "No live sessions")
		return
	}
	fmt.Fprintf(o.w, "Sessions (%d):\n", len(l.Sessions))
	for _, id := range l.Sessions {
		fmt.Fprintf(o.w, "  - %s\n", id)
	}
}
