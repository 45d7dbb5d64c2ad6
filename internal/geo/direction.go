// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package geo

// Direction indexes the eight D8 neighbours of a cell. The ordering below is
// binding: it is read back out of serialized flow-direction rasters, and
// ties in flow-direction and shape-bound computations are broken by
// lowest-index-wins, so the order itself is part of the format.
type Direction int

const (
	DirE Direction = iota
	DirSE
	DirS
	DirSW
	DirW
	DirNW
	DirN
	DirNE
)

// Delta is a (row, col) offset.
type Delta struct {
	DRow, DCol int
}

// Directions holds the eight D8 neighbour offsets, indexed by Direction.
var Directions = [8]Delta{
	DirE:  {0, 1},
	DirSE: {1, 1},
	DirS:  {1, 0},
	DirSW: {1, -1},
	DirW:  {0, -1},
	DirNW: {-1, -1},
	DirN:  {-1, 0},
	DirNE: {-1, 1},
}

// Neighbour returns the array coordinate of c's neighbour in direction d.
func Neighbour(c ArrayCoordinate, d Direction) ArrayCoordinate {
	delta := Directions[d]
	return ArrayCoordinate{Row: c.Row + delta.DRow, Col: c.Col + delta.DCol, Origin: c.Origin}
}
