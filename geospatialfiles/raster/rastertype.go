// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Originally created by John Lindsay<jlindsay@uoguelph.ca>, Nov. 2014.

// Package raster provides support for reading and writing the georeferenced
// GeoTIFF rasters consumed by the PHES screening pipeline: DEM tiles, derived
// flow-direction/accumulation grids, and the boolean filter masks built up
// from them.
package raster

import (
	"path/filepath"
	"strings"
)

// GeoTIFF is the only raster format the pipeline reads or writes;
// shapefile and DBF ingestion live in their own package since they never
// carry pixel data. There is no longer a RasterType enum to switch on -
// with one format, IsSupportedRasterFileExtension is the only question
// CreateRasterFromFile needs answered before it calls into geotiff.Open.
var geotiffExtensions = []string{".tif", ".tiff"}

// IsSupportedRasterFileExtension reports whether fileName carries a
// recognized raster extension.
func IsSupportedRasterFileExtension(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range geotiffExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
