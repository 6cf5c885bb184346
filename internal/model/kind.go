package model

// Kind is the matching category of a piece (a shape in the reference game)
type Kind string

// Reference kind set
const (
	KindMoon    Kind = "moon"
	KindStar    Kind = "star"
	KindCircle  Kind = "circle"
	KindDiamond Kind = "diamond"
	KindX       Kind = "x"
)

// DefaultKinds returns the five reference kinds in deal order
func DefaultKinds() []Kind {
	return []Kind{KindMoon, KindStar, KindCircle, KindDiamond, KindX}
}

// kindColors holds the highlight colour for each reference kind
var kindColors = map[Kind]string{
	KindMoon:    "#45B7D1", // blue
	KindStar:    "#FF69B4", // pink
	KindCircle:  "#FFD700", // yellow
	KindDiamond: "#50C878", // green
	KindX:       "#FFA500", // orange
}

// KindColor returns the "#RRGGBB" highlight colour for a kind.
// Kinds outside the reference set share a neutral grey.
func KindColor(k Kind) string {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return "#9E9E9E"
}
