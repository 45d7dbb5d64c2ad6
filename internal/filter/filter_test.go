package filter

import (
	"testing"

	"github.com/99ch/phes-search/internal/bigmodel"
	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

// flatLayer returns a full native-resolution tile (matching bigmodel's
// own tileSize) so that a Build call with border=0 copies it in exactly,
// with no uncovered padding to confound the eligibility assertions below.
func flatLayer(fill float64) *terrain.Grid {
	size := bigmodel.TileSize
	g := terrain.NewGrid(size, size, 0)
	for i := range g.Z {
		g.Z[i] = fill
	}
	return g
}

func TestBuildExcludesUrbanAndWaterbodyCells(t *testing.T) {
	square := geo.GridSquare{Lat: 0, Lon: 0}
	p := config.Default()

	load := func(sq geo.GridSquare, layer string) (*terrain.Grid, error) {
		switch layer {
		case urbanLayer:
			return flatLayer(1), nil
		default:
			return flatLayer(0), nil
		}
	}

	mask, err := Build(square, 0, p, load)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, eligible := range mask {
		if eligible {
			t.Fatalf("cell %d: expected urban cell to be excluded from the mask", i)
		}
	}
}

func TestBuildTreatsMissingLayersAsEligible(t *testing.T) {
	square := geo.GridSquare{Lat: 0, Lon: 0}
	p := config.Default()

	load := func(sq geo.GridSquare, layer string) (*terrain.Grid, error) {
		return flatLayer(0), nil
	}

	mask, err := Build(square, 0, p, load)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, eligible := range mask {
		if !eligible {
			t.Fatalf("cell %d: expected a tile with no exclusion data to be fully eligible", i)
		}
	}
}

func TestBuildExcludesConfiguredLanduseClass(t *testing.T) {
	square := geo.GridSquare{Lat: 0, Lon: 0}
	p := config.Default()
	p.ExcludedLanduseClasses = []int{190}

	load := func(sq geo.GridSquare, layer string) (*terrain.Grid, error) {
		if layer == landuseLayer {
			return flatLayer(190), nil
		}
		return flatLayer(0), nil
	}

	mask, err := Build(square, 0, p, load)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, eligible := range mask {
		if eligible {
			t.Fatalf("cell %d: expected excluded landuse class to be ineligible", i)
		}
	}
}
