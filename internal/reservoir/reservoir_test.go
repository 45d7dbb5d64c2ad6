package reservoir

import (
	"testing"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

func bowlDEM(rows, cols int) *terrain.Grid {
	g := terrain.NewGrid(rows, cols, -9999)
	cr, cc := rows/2, cols/2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dr, dc := r-cr, c-cc
			g.Z[r*cols+c] = 100 + float64(dr*dr+dc*dc)
		}
	}
	return g
}

func TestModelGreenfieldProducesMonotoneVolume(t *testing.T) {
	dem := bowlDEM(41, 41)
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)
	fd := terrain.FlowDirections(dem, origin)

	p := config.Default()
	p.DamWallHeights = []int{5, 10, 20, 40}

	mask := make([]bool, len(dem.Z))
	for i := range mask {
		mask[i] = true
	}

	pp := geo.ArrayCoordinate{Row: 20, Col: 20, Origin: origin}
	rr, ok := ModelGreenfield(dem, fd, mask, origin, pp, "test", p)
	if !ok {
		t.Fatalf("expected a candidate reservoir at the basin floor")
	}
	for i := 1; i < len(rr.Volume); i++ {
		if rr.Volume[i] < rr.Volume[i-1] {
			t.Fatalf("volume curve not monotone: %v", rr.Volume)
		}
	}
}

func TestExtractOceanFindsEdgeCells(t *testing.T) {
	dem := terrain.NewGrid(20, 20, -9999)
	for r := 0; r < 20; r++ {
		for c := 0; c < 20; c++ {
			dem.Z[r*20+c] = float64(10 * (r + c))
			if c < 3 {
				dem.Z[r*20+c] = 0
			}
		}
	}
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)
	fd := terrain.FlowDirections(dem, origin)
	p := config.Default()
	p.OceanElevationEps = 1

	rr, ok := ExtractOcean(dem, fd, nil, origin, p)
	if !ok {
		t.Fatalf("expected an ocean reservoir to be extracted")
	}
	if !rr.Ocean || !rr.Brownfield {
		t.Fatalf("expected ocean reservoir to be flagged Ocean and Brownfield")
	}
}
