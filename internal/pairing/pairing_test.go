package pairing

import (
	"testing"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/reservoir"
)

func roughAt(id string, lat, lon, elev float64, row, col int, origin geo.GeographicCoordinate, volumes []float64, walls []int, waterRock []float64) *reservoir.RoughReservoir {
	bounds := make([]reservoir.ShapeBound, len(walls))
	pp := geo.ArrayCoordinate{Row: row, Col: col, Origin: origin}
	for b := range bounds {
		for d := 0; d < 8; d++ {
			bounds[b][d] = pp
		}
	}
	return &reservoir.RoughReservoir{
		Identifier:   id,
		Latitude:     lat,
		Longitude:    lon,
		Elevation:    elev,
		PourPoint:    pp,
		WallHeights:  walls,
		Volume:       volumes,
		DamVolume:    volumes,
		WaterRock:    waterRock,
		MaxDamHeight: 300,
		Bounds:       bounds,
	}
}

func TestSearchFindsFeasiblePair(t *testing.T) {
	p := config.Default()
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)

	upper := roughAt("u1", 0.01, 0.01, 500, 100, 100, origin,
		[]float64{1, 5, 20, 100}, []int{10, 20, 50, 100}, []float64{2, 3, 4, 5})
	lower := roughAt("l1", 0.0, 0.0, 300, 110, 110, origin,
		[]float64{1, 5, 20, 100}, []int{10, 20, 50, 100}, []float64{2, 3, 4, 5})

	results := Search(p, []*reservoir.RoughReservoir{upper}, []*reservoir.RoughReservoir{lower}, config.Test{EnergyCapacityGWh: 0.5, StorageTimeHours: 6})
	if len(results) == 0 {
		t.Fatalf("expected at least one surviving pair")
	}
	if results[0].Head != 200 {
		t.Fatalf("head = %v, want 200", results[0].Head)
	}
}

func TestSearchRejectsOutOfRangeHead(t *testing.T) {
	p := config.Default()
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)

	upper := roughAt("u1", 0.01, 0.01, 310, 100, 100, origin,
		[]float64{1, 5, 20}, []int{10, 20, 50}, []float64{2, 3, 4})
	lower := roughAt("l1", 0.0, 0.0, 300, 110, 110, origin,
		[]float64{1, 5, 20}, []int{10, 20, 50}, []float64{2, 3, 4})

	results := Search(p, []*reservoir.RoughReservoir{upper}, []*reservoir.RoughReservoir{lower}, config.Test{EnergyCapacityGWh: 0.5, StorageTimeHours: 6})
	if len(results) != 0 {
		t.Fatalf("expected head gate to reject a 10m head pair, got %d survivors", len(results))
	}
}

func TestRetainBestCapsPerUpper(t *testing.T) {
	pairs := []Pair{
		{Identifier: "a", Upper: &reservoir.RoughReservoir{Identifier: "u"}, FOM: 1},
		{Identifier: "b", Upper: &reservoir.RoughReservoir{Identifier: "u"}, FOM: 2},
		{Identifier: "c", Upper: &reservoir.RoughReservoir{Identifier: "u"}, FOM: 3},
	}
	out := RetainBest(pairs, 2, false)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
}
