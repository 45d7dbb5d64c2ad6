package terrain

import (
	"testing"

	"github.com/99ch/phes-search/internal/geo"
)

func basin(rows, cols int, pitR, pitC int, pitDepth float64) *Grid {
	g := NewGrid(rows, cols, -9999)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.set(r, c, float64(r+c))
		}
	}
	g.set(pitR, pitC, g.at(pitR, pitC)-pitDepth)
	return g
}

func TestFillDepressionsRemovesPit(t *testing.T) {
	g := basin(10, 10, 5, 5, 100)
	filled := FillDepressions(g, 1e-6)

	z := filled.at(5, 5)
	lower := false
	for d := 0; d < 8; d++ {
		nr, nc := 5+d8DRow[d], 5+d8DCol[d]
		if filled.at(nr, nc) <= z {
			lower = true
		}
	}
	if !lower {
		t.Fatalf("pit at (5,5) still has no neighbour at or below its filled elevation %v", z)
	}
}

func TestFillDepressionsLeavesMonotoneSurfaceUnchanged(t *testing.T) {
	g := basin(10, 10, 0, 0, 0)
	filled := FillDepressions(g, 1e-6)
	for i := range g.Z {
		if filled.Z[i] != g.Z[i] {
			t.Fatalf("monotone surface changed at index %d: %v -> %v", i, g.Z[i], filled.Z[i])
		}
	}
}

func TestFlowDirectionsPointDownhill(t *testing.T) {
	g := basin(10, 10, 0, 0, 0)
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)
	fd := FlowDirections(g, origin)

	nr, nc, ok := Downstream(fd, 5, 5)
	if !ok {
		t.Fatalf("cell (5,5) has no downstream neighbour")
	}
	if g.at(nr, nc) >= g.at(5, 5) {
		t.Fatalf("downstream neighbour (%d,%d)=%v is not lower than (5,5)=%v", nr, nc, g.at(nr, nc), g.at(5, 5))
	}
}

func TestFlowAccumulationConservesTotal(t *testing.T) {
	g := basin(6, 6, 0, 0, 0)
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)
	fd := FlowDirections(g, origin)
	accum := FlowAccumulation(fd)

	var maxAccum float64
	for _, a := range accum {
		if a > maxAccum {
			maxAccum = a
		}
	}
	if maxAccum < 1 {
		t.Fatalf("expected at least one cell to accumulate flow, got max %v", maxAccum)
	}
	if maxAccum > float64(g.Rows*g.Cols) {
		t.Fatalf("flow accumulation %v exceeds total cell count %v", maxAccum, g.Rows*g.Cols)
	}

	// Every outer-ring cell points off the grid, so the flow of all cells
	// ends on the ring exactly once.
	var ringTotal float64
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if r == 0 || c == 0 || r == g.Rows-1 || c == g.Cols-1 {
				ringTotal += accum[r*g.Cols+c]
			}
		}
	}
	if ringTotal != float64(g.Rows*g.Cols) {
		t.Fatalf("accumulation over the outer ring is %v, want total cell count %v", ringTotal, g.Rows*g.Cols)
	}
}

func TestPourPointsRespectBorder(t *testing.T) {
	g := basin(12, 12, 0, 0, 0)
	origin := geo.Origin(geo.GridSquare{Lat: 0, Lon: 0}, 0)
	fd := FlowDirections(g, origin)
	accum := FlowAccumulation(fd)

	pps := PourPoints(g, fd, accum, 1, 1, 2)
	for _, pp := range pps {
		if pp.Row < 2 || pp.Col < 2 || pp.Row >= g.Rows-2 || pp.Col >= g.Cols-2 {
			t.Fatalf("pour point %+v falls inside the border", pp)
		}
	}
}
