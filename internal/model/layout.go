package model

// Rect is an axis-aligned rectangle in board-local pixels
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains returns true if the point lies inside the rectangle, edges included
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// ContainsX returns true if x lies within the rectangle's horizontal band
func (r Rect) ContainsX(x float64) bool {
	return x >= r.X && x <= r.X+r.W
}

// Expand grows the rectangle by dx on both sides and dy above and below
func (r Rect) Expand(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, W: r.W + 2*dx, H: r.H + 2*dy}
}

// Center returns the centre point
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Layout is the pixel geometry of the board for one viewport
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`

	PieceWidth  float64 `json:"piece_width"`
	PieceHeight float64 `json:"piece_height"`
	PieceStep   float64 `json:"piece_step"` // Vertical distance between stacked pieces

	Slots []Rect `json:"slots"`

	// Tolerance and MagnetThreshold are already scaled to pixels
	Tolerance       HitTolerance `json:"tolerance"`
	MagnetThreshold float64      `json:"magnet_threshold"`
}
