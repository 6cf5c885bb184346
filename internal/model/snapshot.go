package model

// Snapshot is the read-only view of a game handed to renderers
type Snapshot struct {
	SessionID        SessionID  `json:"session_id,omitempty"`
	Board            *Board     `json:"board"`
	Capacity         int        `json:"capacity"`
	Selection        *Selection `json:"selection,omitempty"`
	Drag             Drag       `json:"drag"`
	Hover            *PieceRef  `json:"hover,omitempty"`
	Phase            Phase      `json:"phase"`
	TimerEnabled     bool       `json:"timer_enabled"`
	RemainingSeconds int        `json:"remaining_seconds"`
	HasInteracted    bool       `json:"has_interacted"`
	CTAReached       bool       `json:"cta_reached"`
	Won              bool       `json:"won"`
	Completions      int        `json:"completions"`
	Layout           Layout     `json:"layout"`
	StoreURL         string     `json:"store_url,omitempty"`

	// Digest changes whenever rule-relevant state changes
	Digest string `json:"digest"`
}
