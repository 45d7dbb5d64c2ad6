// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package reservoir models the candidate impoundments a pour point or an
// existing water body could become: the greenfield flood-fill modeller,
// ocean-edge extraction, and the shared shape describing a reservoir at
// every candidate dam-wall height.
package reservoir

import (
	"gonum.org/v1/gonum/floats"

	"github.com/99ch/phes-search/internal/geo"
)

// ShapeBound is the eight directional extrema of a reservoir's footprint
// at one dam-wall height, indexed by geo.Direction: the farthest cell the
// flood reached looking out along that compass direction from the pour
// point. Pairing's refined-geometry gate measures vertex-to-vertex
// distance between two reservoirs' ShapeBounds rather than their full
// footprints.
type ShapeBound [8]geo.ArrayCoordinate

// RoughReservoir is a candidate impoundment before a dam height has been
// committed: one entry per dam-wall-height band, carrying the cumulative
// volume/area/dam_volume/water_rock curve a pairing search interpolates
// against.
type RoughReservoir struct {
	Identifier    string
	Latitude      float64
	Longitude     float64
	PourPoint     geo.ArrayCoordinate
	Elevation     float64
	WatershedArea float64
	MaxDamHeight  float64

	// Brownfield-only.
	Brownfield bool
	River      bool
	Ocean      bool
	Pit        bool
	Polygon    []geo.GeographicCoordinate

	// Per-dam-wall-height bands, indexed the same as the configured
	// DamWallHeights slice (or a single synthetic band for brownfield
	// reservoirs, whose volume doesn't vary with a dam we don't build).
	WallHeights []int
	Volume      []float64
	DamVolume   []float64
	Area        []float64
	WaterRock   []float64
	Bounds      []ShapeBound

	// Ocean/brownfield reservoirs report their footprint directly
	// rather than through per-height bounds.
	EdgeCells []geo.ArrayCoordinate
}

// WallHeightForVolume linearly interpolates the (wall_height, volume) curve for a
// target volume v, returning the wall height that would hold it and
// whether v is achievable at all within the configured bands.
func (r *RoughReservoir) WallHeightForVolume(v float64) (height float64, ok bool) {
	if len(r.Volume) == 0 {
		return 0, false
	}
	if v <= r.Volume[0] {
		return float64(r.WallHeights[0]), true
	}
	for i := 1; i < len(r.Volume); i++ {
		if v <= r.Volume[i] {
			v0, v1 := r.Volume[i-1], r.Volume[i]
			h0, h1 := float64(r.WallHeights[i-1]), float64(r.WallHeights[i])
			if v1 == v0 {
				return h1, true
			}
			frac := (v - v0) / (v1 - v0)
			return h0 + frac*(h1-h0), true
		}
	}
	return 0, false
}

// MaxVolume and MaxWaterRock report the best a reservoir can offer at its
// tallest modelled dam wall - the quantities the greenfield retention
// gate tests against.
func (r *RoughReservoir) MaxVolume() float64 {
	if len(r.Volume) == 0 {
		return 0
	}
	return floats.Max(r.Volume)
}

func (r *RoughReservoir) MaxWaterRock() float64 {
	if len(r.WaterRock) == 0 {
		return 0
	}
	return floats.Max(r.WaterRock)
}

// Reservoir is a concrete, committed impoundment: one specific dam
// height, exact volume/area, and (once materialized) a country
// attribution.
type Reservoir struct {
	Identifier string
	Latitude   float64
	Longitude  float64
	Elevation  float64
	DamHeight  float64
	Volume     float64
	DamVolume  float64
	Area       float64
	WaterRock  float64
	Country    string
	Polygon    []geo.GeographicCoordinate
	Brownfield bool
	River      bool
	Ocean      bool
}
