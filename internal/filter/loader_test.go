package filter

import (
	"testing"

	"github.com/99ch/phes-search/internal/bigmodel"
	"github.com/99ch/phes-search/internal/geo"
)

func TestFileLoaderReturnsZeroGridForMissingLayer(t *testing.T) {
	load := FileLoader(t.TempDir())
	g, err := load(geo.GridSquare{Lat: -23, Lon: 146}, "urban")
	if err != nil {
		t.Fatalf("FileLoader: %v", err)
	}
	if g.Rows != bigmodel.TileSize+1 || g.Cols != bigmodel.TileSize+1 {
		t.Fatalf("expected a %dx%d grid, got %dx%d", bigmodel.TileSize+1, bigmodel.TileSize+1, g.Rows, g.Cols)
	}
	for i, z := range g.Z {
		if z != 0 {
			t.Fatalf("cell %d: expected 0 for a missing layer, got %v", i, z)
		}
	}
}
