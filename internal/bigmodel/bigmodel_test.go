package bigmodel

import (
	"testing"

	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

func flatTile(fill float64) *terrain.Grid {
	g := terrain.NewGrid(tileSize+1, tileSize+1, -9999)
	for i := range g.Z {
		g.Z[i] = fill
	}
	return g
}

func TestBuildFillsCentreAndPadding(t *testing.T) {
	centre := geo.GridSquare{Lat: -23, Lon: 146}
	border := 10

	load := func(sq geo.GridSquare) (*terrain.Grid, error) {
		if sq == centre {
			return flatTile(1), nil
		}
		return flatTile(2), nil
	}

	big, err := Build(centre, border, load)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	size := tileSize + 2*border
	if big.Rows != size || big.Cols != size {
		t.Fatalf("expected %dx%d grid, got %dx%d", size, size, big.Rows, big.Cols)
	}
	if got := big.Z[(border+1)*big.Cols+border+1]; got != 1 {
		t.Fatalf("centre cell = %v, want 1", got)
	}
	if got := big.Z[0*big.Cols+border+1]; got != 2 {
		t.Fatalf("north padding cell = %v, want 2", got)
	}
}

func TestBuildToleratesMissingNeighbour(t *testing.T) {
	centre := geo.GridSquare{Lat: 0, Lon: 0}
	border := 5
	load := func(sq geo.GridSquare) (*terrain.Grid, error) {
		if sq == centre {
			return flatTile(5), nil
		}
		return nil, errNoTile
	}
	big, err := Build(centre, border, load)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if big.Z[(border+1)*big.Cols+border+1] != 5 {
		t.Fatalf("centre tile should still be stitched in when neighbours are missing")
	}
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

var errNoTile = sentinelErr("no tile")
