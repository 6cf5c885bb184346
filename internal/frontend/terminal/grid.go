package terminal

import "math"

// CellPixels is the nominal board width one terminal column stands for
const CellPixels = 8

// grid maps terminal cells onto board-local pixels. The board is stretched
// independently on each axis to fill the rows between the header and the
// status line.
type grid struct {
	cols, rows    int // Cells given to the board
	width, height float64
}

func newGrid(cols, rows int, boardWidth, boardHeight float64) grid {
	return grid{
		cols:   max(cols, 1),
		rows:   max(rows, 1),
		width:  boardWidth,
		height: boardHeight,
	}
}

func (g grid) cellWidth() float64  { return g.width / float64(g.cols) }
func (g grid) cellHeight() float64 { return g.height / float64(g.rows) }

// toBoard returns the board point at the centre of a cell
func (g grid) toBoard(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * g.cellWidth(), (float64(row) + 0.5) * g.cellHeight()
}

// toCell returns the cell containing a board point
func (g grid) toCell(x, y float64) (int, int) {
	return int(math.Floor(x / g.cellWidth())), int(math.Floor(y / g.cellHeight()))
}

// span returns the cells covering [from, to) on one axis, at least one wide
func span(from, to, cell float64) (int, int) {
	a := int(math.Floor(from / cell))
	b := int(math.Ceil(to/cell)) - 1
	return a, max(a, b)
}

func (g grid) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}
