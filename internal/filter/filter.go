// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package filter builds the eligibility mask the greenfield reservoir
// modeller consults to tighten a candidate's max_dam_height: true for
// eligible cells, i.e. every cell outside the union of urban,
// existing-waterbody and excluded-landuse-class cells, across the
// BigModel extent, stitched the same way bigmodel stitches the DEM
// itself so the mask lines up cell-for-cell with the conditioned terrain.
package filter

import (
	"github.com/99ch/phes-search/internal/bigmodel"
	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

// Mask is true for a cell eligible for reservoir inundation: not urban,
// not an existing waterbody, and not an excluded landuse class. A
// greenfield candidate's max_dam_height is tightened to the tallest
// admitted cell still within this mask (see ModelGreenfield).
type Mask []bool

// Loader reads one named ancillary raster layer ("urban", "waterbody",
// "landuse") for a tile, at the DEM's native resolution and alignment.
// Implementations that find no file for a given layer/tile should return
// an all-zero grid rather than an error - not every tile carries every
// ancillary layer, and an absent layer excludes nothing.
type Loader func(square geo.GridSquare, layer string) (*terrain.Grid, error)

// urbanLayer, waterbodyLayer and landuseLayer name the ancillary raster
// layers Build combines, matching the "<tile>_<layer>.tif" convention the
// DEM and shapefile loaders already use elsewhere in the pipeline.
const (
	urbanLayer     = "urban"
	waterbodyLayer = "waterbody"
	landuseLayer   = "landuse"
)

// Build stitches the tile's urban/waterbody/landuse ancillary layers the
// same way bigmodel.Build stitches the DEM, then combines them into a
// single eligibility Mask over the stitched extent.
func Build(square geo.GridSquare, border int, p *config.Params, load Loader) (Mask, error) {
	urban, err := bigmodel.Build(square, border, layerLoader(load, urbanLayer))
	if err != nil {
		return nil, err
	}
	waterbody, err := bigmodel.Build(square, border, layerLoader(load, waterbodyLayer))
	if err != nil {
		return nil, err
	}
	landuse, err := bigmodel.Build(square, border, layerLoader(load, landuseLayer))
	if err != nil {
		return nil, err
	}

	mask := make(Mask, len(urban.Z))
	for i := range mask {
		excluded := urban.Z[i] > 0 ||
			waterbody.Z[i] > 0 ||
			isExcludedClass(landuse.Z[i], p.ExcludedLanduseClasses)
		mask[i] = !excluded
	}
	return mask, nil
}

func isExcludedClass(v float64, excluded []int) bool {
	class := int(v)
	for _, e := range excluded {
		if class == e {
			return true
		}
	}
	return false
}

func layerLoader(load Loader, layer string) bigmodel.TileLoader {
	return func(square geo.GridSquare) (*terrain.Grid, error) {
		return load(square, layer)
	}
}
