package reservoir

import (
	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

// ExtractOcean floods the DEM's boundary for the connected set of
// near-sea-level cells, and returns a single brownfield reservoir
// representing the ocean: infinite volume, zero dam volume, with a
// shape bound of every edge cell that is a genuine pour point into the
// sea (a flow-direction downstream neighbour that is itself ocean, and
// itself eligible per the filter mask - see ModelGreenfield for the
// mask's true-means-eligible convention).
func ExtractOcean(dem *terrain.Grid, fd *terrain.FlowDirGrid, filter []bool, origin geo.GeographicCoordinate, p *config.Params) (*RoughReservoir, bool) {
	ocean := make([]bool, dem.Rows*dem.Cols)
	var queue []int

	for r := 0; r < dem.Rows; r++ {
		for _, c := range [2]int{0, dem.Cols - 1} {
			seedOcean(dem, ocean, &queue, r, c, p.OceanElevationEps)
		}
	}
	for c := 0; c < dem.Cols; c++ {
		for _, r := range [2]int{0, dem.Rows - 1} {
			seedOcean(dem, ocean, &queue, r, c, p.OceanElevationEps)
		}
	}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		r, c := idx/dem.Cols, idx%dem.Cols
		for d := 0; d < 8; d++ {
			nr, nc := r+d8DRow[d], c+d8DCol[d]
			if !dem.InBounds(nr, nc) {
				continue
			}
			nidx := nr*dem.Cols + nc
			if ocean[nidx] || dem.Z[nidx] == dem.NoData {
				continue
			}
			if absF(dem.Z[nidx]) <= p.OceanElevationEps {
				ocean[nidx] = true
				queue = append(queue, nidx)
			}
		}
	}

	if len(queue) == 0 {
		return nil, false
	}

	var edges []geo.ArrayCoordinate
	for _, idx := range queue {
		r, c := idx/dem.Cols, idx%dem.Cols
		if filter != nil && !filter[idx] {
			continue
		}
		nr, nc, ok := terrain.Downstream(fd, r, c)
		if !ok || !dem.InBounds(nr, nc) {
			continue
		}
		if !ocean[nr*dem.Cols+nc] {
			continue
		}
		edges = append(edges, geo.ArrayCoordinate{Row: r, Col: c, Origin: origin})
	}

	if len(edges) == 0 {
		return nil, false
	}

	return &RoughReservoir{
		Identifier: "ocean",
		Brownfield: true,
		Ocean:      true,
		Elevation:  0,
		EdgeCells:  edges,
		Volume:      []float64{config.Infinity},
		DamVolume:   []float64{0},
		Area:        []float64{config.Infinity},
		WaterRock:   []float64{config.Infinity},
		WallHeights: []int{0},
	}, true
}

func seedOcean(dem *terrain.Grid, ocean []bool, queue *[]int, r, c int, eps float64) {
	if !dem.InBounds(r, c) {
		return
	}
	idx := r*dem.Cols + c
	if ocean[idx] || dem.Z[idx] == dem.NoData {
		return
	}
	if absF(dem.Z[idx]) <= eps {
		ocean[idx] = true
		*queue = append(*queue, idx)
	}
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
