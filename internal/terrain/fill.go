package terrain

// Grid is the minimal surface fill/flow direction/accumulation need: a
// row-major elevation array plus the sentinel that marks missing data.
// internal/raster.ReadDEM returns one directly.
type Grid struct {
	Rows, Cols int
	Z          []float64
	NoData     float64
}

func (g *Grid) at(r, c int) float64    { return g.Z[r*g.Cols+c] }
func (g *Grid) set(r, c int, v float64) { g.Z[r*g.Cols+c] = v }
func (g *Grid) inBounds(r, c int) bool {
	return r >= 0 && c >= 0 && r < g.Rows && c < g.Cols
}

// InBounds reports whether (r,c) addresses a cell within the grid.
func (g *Grid) InBounds(r, c int) bool { return g.inBounds(r, c) }
func (g *Grid) isNoData(r, c int) bool { return g.at(r, c) == g.NoData }

var d8DRow = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var d8DCol = [8]int{1, 1, 0, -1, -1, -1, 0, 1}

// NewGrid allocates a Rows x Cols grid filled with NoData.
func NewGrid(rows, cols int, nodata float64) *Grid {
	z := make([]float64, rows*cols)
	for i := range z {
		z[i] = nodata
	}
	return &Grid{Rows: rows, Cols: cols, Z: z, NoData: nodata}
}

// FillDepressions returns a depressionless copy of dem: every interior
// cell drains to a lower or equal neighbour, and flats are tilted upward
// by eps from the cell they were flooded from so that flow direction
// stays well defined without materially changing a basin's volume.
//
// The flood order follows a priority-flood: a neighbour no higher than
// the cell that discovered it is raised to that cell's elevation plus eps
// and drains through a cheap FIFO first, while a higher neighbour keeps
// its own elevation and is pushed onto the min-heap keyed on elevation;
// the FIFO is always emptied before the heap is popped. This mirrors the two-queue
// structure of the depression-filling/breaching tools this package's
// logic is adapted from, generalized from their fixed raster-file
// plugin shape to operate on an in-memory Grid.
func FillDepressions(dem *Grid, eps float64) *Grid {
	out := &Grid{Rows: dem.Rows, Cols: dem.Cols, NoData: dem.NoData, Z: append([]float64(nil), dem.Z...)}
	inQueue := make([]bool, dem.Rows*dem.Cols)

	pq := newPQueue()
	var fifo plainQueue

	for r := 0; r < dem.Rows; r++ {
		for c := 0; c < dem.Cols; c++ {
			if out.isNoData(r, c) {
				continue
			}
			if r == 0 || c == 0 || r == dem.Rows-1 || c == dem.Cols-1 || hasNoDataNeighbour(out, r, c) {
				pq.push(cell{r, c}, out.at(r, c))
				inQueue[r*dem.Cols+c] = true
			}
		}
	}

	for pq.len() > 0 || !fifo.empty() {
		var cur cell
		if !fifo.empty() {
			cur = fifo.pop()
		} else {
			cur = pq.pop()
		}
		z := out.at(cur.row, cur.col)
		for d := 0; d < 8; d++ {
			nr, nc := cur.row+d8DRow[d], cur.col+d8DCol[d]
			if !out.inBounds(nr, nc) || out.isNoData(nr, nc) {
				continue
			}
			idx := nr*dem.Cols + nc
			if inQueue[idx] {
				continue
			}
			inQueue[idx] = true
			zn := out.at(nr, nc)
			if zn <= z {
				zn = z + eps
				out.set(nr, nc, zn)
				fifo.push(cell{nr, nc})
			} else {
				pq.push(cell{nr, nc}, zn)
			}
		}
	}
	return out
}

func hasNoDataNeighbour(g *Grid, r, c int) bool {
	for d := 0; d < 8; d++ {
		nr, nc := r+d8DRow[d], c+d8DCol[d]
		if !g.inBounds(nr, nc) || g.isNoData(nr, nc) {
			return true
		}
	}
	return false
}
