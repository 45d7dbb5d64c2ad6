package csvio

import (
	"bytes"
	"testing"

	"github.com/99ch/phes-search/internal/reservoir"
)

func TestReservoirRoundTrip(t *testing.T) {
	in := []*reservoir.RoughReservoir{{
		Identifier:  "s23_e146_100_100",
		Latitude:    -23.5,
		Longitude:   146.5,
		Elevation:   500,
		WallHeights: []int{5, 10, 20},
		Volume:      []float64{1, 4, 10},
		DamVolume:   []float64{0.1, 0.4, 1},
		Area:        []float64{2, 5, 12},
		WaterRock:   []float64{2, 3, 4},
	}}

	var buf bytes.Buffer
	if err := WriteReservoirs(&buf, in); err != nil {
		t.Fatalf("WriteReservoirs: %v", err)
	}

	out, err := ReadReservoirs(&buf)
	if err != nil {
		t.Fatalf("ReadReservoirs: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 reservoir, got %d", len(out))
	}
	if out[0].Identifier != in[0].Identifier || out[0].Elevation != in[0].Elevation {
		t.Fatalf("round trip mismatch: got %+v", out[0])
	}
	if len(out[0].Volume) != 3 || out[0].Volume[1] != 4 {
		t.Fatalf("volume curve mismatch: got %v", out[0].Volume)
	}
}
