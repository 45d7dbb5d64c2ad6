// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package existing ingests already-existing reservoirs and mine pits -
// lakes and pits read from a shapefile/CSV database rather than modelled
// from the DEM - and computes the depression volume curve a pit needs
// for pairing.
package existing

import (
	"math"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/reservoir"
	"github.com/99ch/phes-search/internal/shpio"
	"github.com/99ch/phes-search/internal/terrain"
)

// AltitudeVolumePair is one (altitude, cumulative_volume) sample of a
// pit's depth-interpolation curve.
type AltitudeVolumePair struct {
	Altitude float64
	Volume   float64
}

// ExistingReservoir is a lake or river already on the map, ingested
// rather than flood-modelled.
type ExistingReservoir struct {
	Identifier string
	Centroid   geo.GeographicCoordinate
	Elevation  float64
	Volume     float64
	Area       float64
	River      bool
	Polygon    []geo.GeographicCoordinate
}

// ExistingPit additionally carries the altitude/volume curve a
// depression-volume search needs to size a candidate dam within it.
type ExistingPit struct {
	ExistingReservoir
	Curve []AltitudeVolumePair
}

// FromLake converts a shapefile lake record into an ExistingReservoir,
// computing its centroid and area the same way every other stage does
// (geo.Centroid / geo.SphericalPolygonAreaHa) so that tile assignment
// stays consistent across stages.
func FromLake(l shpio.Lake) ExistingReservoir {
	closed := closePolygon(l.Polygon)
	return ExistingReservoir{
		Identifier: l.Name,
		Centroid:   geo.Centroid(closed),
		Elevation:  float64(l.Elevation),
		Volume:     l.VolTotal,
		Area:       geo.SphericalPolygonAreaHa(closed),
		Polygon:    closed,
	}
}

// FromRiver converts a shapefile river record into an ExistingReservoir
// flagged River. Elevation and Volume are left at zero and no later
// stage assigns them, so AsRough gives a river a zero volume curve.
func FromRiver(r shpio.River) ExistingReservoir {
	closed := r.Vertices
	return ExistingReservoir{
		Identifier: r.Name,
		Centroid:   geo.Centroid(closed),
		River:      true,
		Polygon:    closed,
	}
}

func closePolygon(p []geo.GeographicCoordinate) []geo.GeographicCoordinate {
	if len(p) == 0 {
		return p
	}
	first, last := p[0], p[len(p)-1]
	if first == last {
		return p
	}
	return append(append([]geo.GeographicCoordinate{}, p...), first)
}

// RasterizeMask marks every DEM cell whose centre falls within polygon,
// in the coordinate system of origin, producing the boolean mask a
// pit's elevation-band integration rasterizes against.
func RasterizeMask(dem *terrain.Grid, origin geo.GeographicCoordinate, polygon []geo.GeographicCoordinate) []bool {
	mask := make([]bool, dem.Rows*dem.Cols)
	if len(polygon) < 3 {
		return mask
	}
	for r := 0; r < dem.Rows; r++ {
		for c := 0; c < dem.Cols; c++ {
			p := geo.ToGeographic(geo.ArrayCoordinate{Row: r, Col: c, Origin: origin}, 0.5)
			if pointInPolygon(p, polygon) {
				mask[r*dem.Cols+c] = true
			}
		}
	}
	return mask
}

// pointInPolygon is the standard even-odd ray-casting test.
func pointInPolygon(p geo.GeographicCoordinate, polygon []geo.GeographicCoordinate) bool {
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]
		if (pi.Lat > p.Lat) != (pj.Lat > p.Lat) {
			slope := (pj.Lon - pi.Lon) / (pj.Lat - pi.Lat)
			atLat := pi.Lon + slope*(p.Lat-pi.Lat)
			if p.Lon < atLat {
				inside = !inside
			}
		}
	}
	return inside
}

// DepressionVolume rasterizes a pit's polygon, finds its elevation
// extremes within the DEM, integrates cumulative area per elevation band
// exactly as the greenfield modeller's growth pass does, and samples the
// result at numSamples equally-spaced elevations between the pit's
// minimum and maximum elevation.
func DepressionVolume(dem *terrain.Grid, origin geo.GeographicCoordinate, polygon []geo.GeographicCoordinate, numSamples int) *ExistingPit {
	mask := RasterizeMask(dem, origin, polygon)

	minElev, maxElev := config.Infinity, -config.Infinity
	for i, inMask := range mask {
		if !inMask || dem.Z[i] == dem.NoData {
			continue
		}
		if dem.Z[i] < minElev {
			minElev = dem.Z[i]
		}
		if dem.Z[i] > maxElev {
			maxElev = dem.Z[i]
		}
	}
	if maxElev <= minElev {
		return nil
	}

	bandWidth := 1.0
	nBands := int(math.Ceil((maxElev-minElev)/bandWidth)) + 2
	areaAtBand := make([]float64, nBands)
	for i, inMask := range mask {
		if !inMask || dem.Z[i] == dem.NoData {
			continue
		}
		r, c := i/dem.Cols, i%dem.Cols
		b := int((dem.Z[i]-minElev)/bandWidth) + 1
		if b < 0 {
			b = 0
		}
		if b >= nBands {
			b = nBands - 1
		}
		areaAtBand[b] += geo.AreaHa(geo.ArrayCoordinate{Row: r, Col: c, Origin: origin})
	}

	cum := make([]float64, nBands)
	running, vol := 0.0, 0.0
	for i, a := range areaAtBand {
		running += a
		vol += running
		cum[i] = 0.01 * vol
	}

	curve := make([]AltitudeVolumePair, numSamples)
	for i := 0; i < numSamples; i++ {
		frac := float64(i) / float64(numSamples-1)
		alt := minElev + frac*(maxElev-minElev)
		b := int((alt - minElev) / bandWidth)
		if b >= nBands {
			b = nBands - 1
		}
		curve[i] = AltitudeVolumePair{Altitude: alt, Volume: cum[b]}
	}

	closed := closePolygon(polygon)
	return &ExistingPit{
		ExistingReservoir: ExistingReservoir{
			Centroid:  geo.Centroid(closed),
			Elevation: maxElev,
			Volume:    curve[len(curve)-1].Volume,
			Area:      geo.SphericalPolygonAreaHa(closed),
			Polygon:   closed,
		},
		Curve: curve,
	}
}

// AsRough converts an ingested lake/river/pit into the RoughReservoir
// shape pairing operates on, with a single synthetic wall-height band
// since a brownfield reservoir's volume doesn't vary with a dam we
// don't build.
func AsRough(id string, e ExistingReservoir) *reservoir.RoughReservoir {
	return &reservoir.RoughReservoir{
		Identifier:  id,
		Latitude:    e.Centroid.Lat,
		Longitude:   e.Centroid.Lon,
		Elevation:   e.Elevation,
		Brownfield:  true,
		River:       e.River,
		Polygon:     e.Polygon,
		WallHeights: []int{0},
		Volume:      []float64{e.Volume},
		DamVolume:   []float64{0},
		Area:        []float64{e.Area},
		WaterRock:   []float64{config.Infinity},
	}
}
