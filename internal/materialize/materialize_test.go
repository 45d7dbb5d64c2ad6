package materialize

import (
	"bytes"
	"testing"

	"github.com/ctessum/geom"

	"github.com/99ch/phes-search/internal/geo"
)

func square(cr, cc, half float64) []geo.GeographicCoordinate {
	return []geo.GeographicCoordinate{
		{Lat: cr - half, Lon: cc - half},
		{Lat: cr - half, Lon: cc + half},
		{Lat: cr + half, Lon: cc + half},
		{Lat: cr + half, Lon: cc - half},
		{Lat: cr - half, Lon: cc - half},
	}
}

func TestChaikinSmoothPreservesClosure(t *testing.T) {
	poly := square(0, 0, 1)
	smoothed := ChaikinSmooth(poly, 2)
	if smoothed[0] != smoothed[len(smoothed)-1] {
		t.Fatalf("smoothed polygon is not closed: first=%v last=%v", smoothed[0], smoothed[len(smoothed)-1])
	}
	if len(smoothed) <= len(poly) {
		t.Fatalf("expected corner cutting to add vertices, got %d from %d", len(smoothed), len(poly))
	}
}

func TestAttributeCountryFindsContainingPolygon(t *testing.T) {
	country := Country{
		Name: "testland",
		Polygon: geom.Polygon{{
			{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1},
		}},
	}
	inside := geo.GeographicCoordinate{Lat: 0, Lon: 0}
	outside := geo.GeographicCoordinate{Lat: 10, Lon: 10}

	if got := AttributeCountry(inside, []Country{country}); got != "testland" {
		t.Fatalf("expected testland, got %q", got)
	}
	if got := AttributeCountry(outside, []Country{country}); got != "" {
		t.Fatalf("expected no attribution outside the polygon, got %q", got)
	}
}

func TestWriteKMLProducesWellFormedXML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteKML(&buf, "reservoirs", []ReservoirKML{{Name: "r1", Polygon: square(0, 0, 1)}})
	if err != nil {
		t.Fatalf("WriteKML: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty KML output")
	}
}
