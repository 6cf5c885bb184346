package snapshot

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/colorwood/internal/dependencies/clock"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/timeline"
)

// Service builds read-only renderer views of a session
type Service struct {
	timeline *timeline.Service
	clock    clock.Clock
}

// New creates a new SnapshotService
func New(timeline *timeline.Service, clock clock.Clock) *Service {
	return &Service{
		timeline: timeline,
		clock:    clock,
	}
}

// digestInput is the rule-relevant part of a snapshot. Drag, hover and the
// countdown are left out so the digest only moves when the game does.
type digestInput struct {
	Board         *model.Board     `json:"board"`
	Selection     *model.Selection `json:"selection"`
	Phase         model.Phase      `json:"phase"`
	HasInteracted bool             `json:"has_interacted"`
	CTAReached    bool             `json:"cta_reached"`
	Won           bool             `json:"won"`
	Completions   int              `json:"completions"`
}

// Build returns a snapshot of the session. The board is copied so renderers
// cannot reach back into the rule state.
func (s *Service) Build(sess *model.Session) (model.Snapshot, error) {
	st := sess.State
	snap := model.Snapshot{
		SessionID:        sess.ID,
		Board:            st.Board.Clone(),
		Capacity:         st.Board.Capacity,
		Drag:             st.Drag,
		Phase:            st.Timeline.Phase,
		TimerEnabled:     st.Timeline.Enabled,
		RemainingSeconds: s.timeline.Remaining(&st.Timeline, s.clock.Now()),
		HasInteracted:    st.Timeline.HasInteracted,
		CTAReached:       st.Timeline.CTAReached,
		Won:              st.Won,
		Completions:      st.Completions,
		Layout:           sess.Layout,
	}
	if st.Selection != nil {
		sel := *st.Selection
		snap.Selection = &sel
	}
	if st.Hover != nil {
		hover := *st.Hover
		snap.Hover = &hover
	}
	if snap.CTAReached {
		snap.StoreURL = sess.Config.StoreURL
	}

	digest, err := Digest(snap)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap.Digest = digest
	return snap, nil
}

// Digest returns the hex blake2b-256 hash of the snapshot's rule-relevant state
func Digest(snap model.Snapshot) (string, error) {
	data, err := json.Marshal(digestInput{
		Board:         snap.Board,
		Selection:     snap.Selection,
		Phase:         snap.Phase,
		HasInteracted: snap.HasInteracted,
		CTAReached:    snap.CTAReached,
		Won:           snap.Won,
		Completions:   snap.Completions,
	})
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
