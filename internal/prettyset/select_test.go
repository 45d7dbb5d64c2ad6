package prettyset

import (
	"testing"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/pairing"
	"github.com/99ch/phes-search/internal/reservoir"
	"github.com/99ch/phes-search/internal/terrain"
)

func bowlDEM(rows, cols, cr, cc int) *terrain.Grid {
	g := terrain.NewGrid(rows, cols, -9999)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dr, dc := r-cr, c-cc
			g.Z[r*cols+c] = 100 + float64(dr*dr+dc*dc)
		}
	}
	return g
}

func roughGreenfield(id string, row, col int, origin geo.GeographicCoordinate, elev float64) *reservoir.RoughReservoir {
	return &reservoir.RoughReservoir{
		Identifier:   id,
		PourPoint:    geo.ArrayCoordinate{Row: row, Col: col, Origin: origin},
		Elevation:    elev,
		WallHeights:  []int{5, 10, 20, 40},
		Volume:       []float64{1, 4, 10, 30},
		WaterRock:    []float64{2, 3, 4, 5},
		MaxDamHeight: 300,
	}
}

func TestSelectRejectsOverlappingFootprint(t *testing.T) {
	p := config.Default()
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)
	dem := bowlDEM(61, 61, 30, 30)
	fd := terrain.FlowDirections(dem, origin)

	upperA := roughGreenfield("uA", 30, 30, origin, 100)
	upperB := roughGreenfield("uB", 31, 31, origin, 100)
	lower := roughGreenfield("l", 0, 0, origin, 50)
	lower.Brownfield = true
	lower.River = false

	pairs := []pairing.Pair{
		{Identifier: "uA&l", Upper: upperA, Lower: lower, RequiredVolume: 1, FOM: 1},
		{Identifier: "uB&l", Upper: upperB, Lower: lower, RequiredVolume: 1, FOM: 2},
	}

	kept := Select(p, dem, fd, pairs)
	if len(kept) != 1 {
		t.Fatalf("expected exactly one surviving pair out of two overlapping footprints, got %d", len(kept))
	}
	if kept[0].Identifier != "uA&l" {
		t.Fatalf("expected the lower-FOM pair to win, got %s", kept[0].Identifier)
	}
}
