// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package prettyset resolves the final conflict-free subset of pairs: in
// ascending FOM order, each non-brownfield reservoir is re-flooded at
// its committed dam height and accepted only if its footprint doesn't
// overlap a reservoir already committed.
package prettyset

import (
	"math"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/pairing"
	"github.com/99ch/phes-search/internal/reservoir"
	"github.com/99ch/phes-search/internal/terrain"
)

// Footprint is the set of cells a reservoir occupies once its dam
// height is committed, along with the wall height that produced it.
type Footprint struct {
	WallHeight float64
	Cells      []int // flat dem-grid indices
}

// Select runs the conflict resolution pass over pairs, already sorted by
// FOM ascending, and returns the subset that does not conflict in the
// shared BigModel footprint.
func Select(p *config.Params, dem *terrain.Grid, fd *terrain.FlowDirGrid, pairs []pairing.Pair) []pairing.Pair {
	seen := make([]bool, dem.Rows*dem.Cols)
	riverUsed := make(map[string]bool)

	var kept []pairing.Pair
	for _, pr := range pairs {
		if pr.Lower.River && riverUsed[pr.Upper.Identifier] {
			continue
		}
		if largeBrownfieldMismatch(p, pr) {
			continue
		}

		okUpper, upperFoot := commit(p, dem, fd, seen, pr.Upper, pr.RequiredVolume)
		if !okUpper {
			continue
		}
		lowerReq := pr.RequiredVolume
		if pr.Lower.River {
			lowerReq = p.RiverVolumeMultiplier * lowerReq
		}
		okLower, _ := commit(p, dem, fd, seen, pr.Lower, lowerReq)
		if !okLower {
			uncommit(seen, upperFoot)
			continue
		}

		kept = append(kept, pr)
		if pr.Lower.River {
			riverUsed[pr.Upper.Identifier] = true
		}
	}
	return kept
}

func largeBrownfieldMismatch(p *config.Params, pr pairing.Pair) bool {
	upperLarge := pr.Upper.Brownfield && pr.Upper.MaxVolume() > 0
	lowerLarge := pr.Lower.Brownfield && pr.Lower.MaxVolume() > 0
	if upperLarge == lowerLarge {
		return false
	}
	var brown, other *reservoir.RoughReservoir
	if upperLarge {
		brown, other = pr.Upper, pr.Lower
	} else {
		brown, other = pr.Lower, pr.Upper
	}
	if len(brown.Area) == 0 || len(other.Area) == 0 {
		return false
	}
	brownArea := brown.Area[len(brown.Area)-1]
	otherArea := other.Area[len(other.Area)-1]
	if brownArea <= 0 || otherArea <= 0 {
		return false
	}
	return otherArea/brownArea > p.MaxBluefieldSurfaceAreaRatio
}

// commit re-floods r's footprint at a binary-searched wall height
// targeting targetVolume*(1+0.5/water_rock), rejecting if it overlaps
// seen, crosses no-data terrain, or needs a wall outside
// [minimum_dam_height, max_dam_height]. On acceptance, the footprint is
// marked into seen.
func commit(p *config.Params, dem *terrain.Grid, fd *terrain.FlowDirGrid, seen []bool, r *reservoir.RoughReservoir, targetVolume float64) (bool, Footprint) {
	if r.Brownfield {
		return true, Footprint{}
	}

	waterRock := r.MaxWaterRock()
	if waterRock <= 0 {
		return false, Footprint{}
	}
	adjustedTarget := targetVolume * (1 + 0.5/waterRock)

	wallHeight, ok := binarySearchWallHeight(r, adjustedTarget, p.VolumeAccuracy)
	if !ok {
		return false, Footprint{}
	}
	if wallHeight > r.MaxDamHeight && r.MaxDamHeight > 0 {
		return false, Footprint{}
	}
	if wallHeight < p.MinimumDamHeight {
		return false, Footprint{}
	}

	cells := reflood(dem, fd, r.PourPoint.Row, r.PourPoint.Col, wallHeight)
	if len(cells) == 0 {
		return false, Footprint{}
	}
	for _, idx := range cells {
		if seen[idx] || dem.Z[idx] < p.NoDataSentinel {
			return false, Footprint{}
		}
	}
	for _, idx := range cells {
		seen[idx] = true
	}
	return true, Footprint{WallHeight: wallHeight, Cells: cells}
}

func uncommit(seen []bool, f Footprint) {
	for _, idx := range f.Cells {
		seen[idx] = false
	}
}

func binarySearchWallHeight(r *reservoir.RoughReservoir, target, accuracy float64) (float64, bool) {
	if len(r.Volume) == 0 {
		return 0, false
	}
	lo, hi := 0, len(r.WallHeights)-1
	if target <= r.Volume[0] {
		return float64(r.WallHeights[0]), true
	}
	if target > r.Volume[hi] {
		return 0, false
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if r.Volume[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if math.Abs(r.Volume[lo]-target) > accuracy*target && lo > 0 {
		v0, v1 := r.Volume[lo-1], r.Volume[lo]
		h0, h1 := float64(r.WallHeights[lo-1]), float64(r.WallHeights[lo])
		if v1 != v0 {
			frac := (target - v0) / (v1 - v0)
			return h0 + frac*(h1-h0), true
		}
	}
	return float64(r.WallHeights[lo]), true
}

var d8DRow = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var d8DCol = [8]int{1, 1, 0, -1, -1, -1, 0, 1}

// reflood is the same BFS growth rule as the greenfield modeller's pass
// 1, stopped at a fixed wall height instead of the configured maximum,
// returning the flat grid indices it admitted.
func reflood(dem *terrain.Grid, fd *terrain.FlowDirGrid, ppRow, ppCol int, wallHeight float64) []int {
	ppElev := dem.Z[ppRow*dem.Cols+ppCol]
	visited := make(map[int]bool)
	start := ppRow*dem.Cols + ppCol
	visited[start] = true
	queue := []int{start}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		r, c := idx/dem.Cols, idx%dem.Cols
		for d := 0; d < 8; d++ {
			nr, nc := r+d8DRow[d], c+d8DCol[d]
			if !dem.InBounds(nr, nc) {
				continue
			}
			nidx := nr*dem.Cols + nc
			if visited[nidx] || dem.Z[nidx] == dem.NoData {
				continue
			}
			if fd.Dir[nidx] < 0 {
				continue
			}
			drainsToCur := nr+d8DRow[fd.Dir[nidx]] == r && nc+d8DCol[fd.Dir[nidx]] == c
			if !drainsToCur {
				continue
			}
			if dem.Z[nidx]-ppElev >= wallHeight {
				continue
			}
			visited[nidx] = true
			queue = append(queue, nidx)
		}
	}
	return queue
}
