package terrain

import (
	"math"

	"github.com/99ch/phes-search/internal/geo"
)

// FlowDirGrid holds one of the eight geo.Direction values per cell, or -1
// for an interior noData cell. A cell with no downhill neighbour holds
// direction 0 (see FlowDirections).
type FlowDirGrid struct {
	Rows, Cols int
	Dir        []int8
}

func (f *FlowDirGrid) at(r, c int) int8    { return f.Dir[r*f.Cols+c] }
func (f *FlowDirGrid) set(r, c int, v int8) { f.Dir[r*f.Cols+c] = v }

const noDirection int8 = -1

// FlowDirections computes, for every cell of a filled DEM, the D8
// direction of steepest descent. Distances to diagonal neighbours are
// corrected by the cosine of the cell's latitude so that slope is
// measured in true ground distance rather than raster-cell units,
// matching the latitude-aware distance helpers in package geo. Ties
// between neighbours of equal slope are broken by lowest Direction
// index, so the iteration order below is part of the result.
//
// A cell with no strictly-downhill neighbour (a zero-drop cell) falls
// back to direction 0 (east) rather than noDirection, matching
// find_lowest_neighbor's zero-initialized result: such cells are rare
// on a filled DEM, and they stay in the accumulation graph rather than
// being dropped from it here.
//
// The outer ring of the grid is not resolved by steepest descent at
// all; every edge and corner cell is assigned a fixed outward
// direction (see boundaryDirection) so the D8 graph always terminates
// at the tile's border instead of leaving border cells to whatever a
// one-sided neighbour search happens to find.
func FlowDirections(dem *Grid, origin geo.GeographicCoordinate) *FlowDirGrid {
	out := &FlowDirGrid{Rows: dem.Rows, Cols: dem.Cols, Dir: make([]int8, dem.Rows*dem.Cols)}

	for r := 1; r < dem.Rows-1; r++ {
		for c := 1; c < dem.Cols-1; c++ {
			if dem.isNoData(r, c) {
				out.set(r, c, noDirection)
				continue
			}
			z := dem.at(r, c)
			coslat := math.Cos(radiansAt(r, dem, origin))
			bestSlope := 0.0
			best := int8(0)
			for d := 0; d < 8; d++ {
				nr, nc := r+d8DRow[d], c+d8DCol[d]
				if !dem.inBounds(nr, nc) || dem.isNoData(nr, nc) {
					continue
				}
				zn := dem.at(nr, nc)
				dist := cellDistance(geo.Direction(d), coslat)
				slope := (z - zn) / dist
				if slope > bestSlope {
					bestSlope = slope
					best = int8(d)
				}
			}
			out.set(r, c, best)
		}
	}

	for r := 0; r < dem.Rows; r++ {
		for c := 0; c < dem.Cols; c++ {
			if r == 0 || r == dem.Rows-1 || c == 0 || c == dem.Cols-1 {
				out.set(r, c, boundaryDirection(r, c, dem.Rows, dem.Cols))
			}
		}
	}
	return out
}

// boundaryDirection returns the fixed outward D8 direction assigned to
// an outer-ring cell: corners point diagonally out, the remaining
// edge cells point straight out across the edge they sit on.
func boundaryDirection(r, c, rows, cols int) int8 {
	switch {
	case r == 0 && c == 0:
		return int8(geo.DirNW)
	case r == 0 && c == cols-1:
		return int8(geo.DirNE)
	case r == rows-1 && c == cols-1:
		return int8(geo.DirSE)
	case r == rows-1 && c == 0:
		return int8(geo.DirSW)
	case r == 0:
		return int8(geo.DirN)
	case r == rows-1:
		return int8(geo.DirS)
	case c == 0:
		return int8(geo.DirW)
	default: // c == cols-1
		return int8(geo.DirE)
	}
}

func radiansAt(row int, dem *Grid, origin geo.GeographicCoordinate) float64 {
	c := geo.ArrayCoordinate{Row: row, Col: 0, Origin: origin}
	p := geo.ToGeographic(c, 0.5)
	return p.Lat * math.Pi / 180.0
}

// cellDistance returns the ground distance, in raster-cell units, crossed
// moving in direction d: 1 for the four orthogonal directions (scaled by
// coslat for the east/west pair), sqrt(2)-derived for the four diagonals.
func cellDistance(d geo.Direction, coslat float64) float64 {
	switch d {
	case geo.DirE, geo.DirW:
		return coslat
	case geo.DirN, geo.DirS:
		return 1
	default:
		return math.Sqrt(coslat*coslat + 1)
	}
}

// Downstream returns the neighbour that fd routes (r,c) to, and whether
// one exists.
func Downstream(fd *FlowDirGrid, r, c int) (nr, nc int, ok bool) {
	d := fd.at(r, c)
	if d == noDirection {
		return 0, 0, false
	}
	return r + d8DRow[d], c + d8DCol[d], true
}
