// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// This file was originally created by John Lindsay<jlindsay@uoguelph.ca>,
// Nov. 2014.

// Package raster provides support for reading and creating the single-band
// GeoTIFF rasters this pipeline trades in: DEM tiles, derived flow grids,
// and boolean filter masks. The multi-format dispatch layer the package
// once carried is gone - GeoTIFF is the only format ever read or written
// here - and the codec itself lives in the geotiff subpackage.
package raster

import (
	"fmt"

	"github.com/99ch/phes-search/geospatialfiles/raster/geotiff"
)

// Data type constants for RasterConfig.DataType. These name the sample
// encodings the geotiff codec actually supports; the RGB/Paletted/tiled
// variants the original format supports more broadly have no counterpart
// here since nothing in this pipeline ever produces or consumes them.
const (
	DT_INT16 = iota
	DT_INT32
	DT_FLOAT32
	DT_FLOAT64
)

type RasterConfig struct {
	DataType     int
	NoDataValue  float64
	InitialValue float64
}

func NewDefaultRasterConfig() *RasterConfig {
	return &RasterConfig{
		DataType:     DT_FLOAT32,
		NoDataValue:  -32768.0,
		InitialValue: -32768.0,
	}
}

// sampleEncoding translates a RasterConfig.DataType into the TIFF
// bits-per-sample / sample-format pair the geotiff codec writes to disk.
func sampleEncoding(dt int) (bitsPerSample, sampleFormat int, err error) {
	const sfSignedInt = 2
	const sfFloat = 3
	switch dt {
	case DT_INT16:
		return 16, sfSignedInt, nil
	case DT_INT32:
		return 32, sfSignedInt, nil
	case DT_FLOAT32:
		return 32, sfFloat, nil
	case DT_FLOAT64:
		return 64, sfFloat, nil
	default:
		return 0, 0, UnsupportedRasterFormatError
	}
}

// Raster is a georeferenced grid of float64 cell values backed by a single
// GeoTIFF file.
type Raster struct {
	Rows, Columns            int
	North, South, East, West float64
	NoDataValue              float64

	fileName string
	gt       *geotiff.GeoTIFF
}

// CreateNewRaster allocates a new raster in memory, every cell set to
// config's InitialValue, ready to be filled via SetData and persisted via
// Save.
func CreateNewRaster(fileName string, rows, columns int, north, south, east, west float64, config ...*RasterConfig) (*Raster, error) {
	cfg := NewDefaultRasterConfig()
	if len(config) > 0 && config[len(config)-1] != nil {
		cfg = config[len(config)-1]
	}
	bits, sf, err := sampleEncoding(cfg.DataType)
	if err != nil {
		return nil, err
	}

	gt := geotiff.New(rows, columns, north, south, east, west, bits, sf, cfg.NoDataValue)
	for i := range gt.Data {
		gt.Data[i] = cfg.InitialValue
	}

	return &Raster{
		Rows: rows, Columns: columns,
		North: north, South: south, East: east, West: west,
		NoDataValue: cfg.NoDataValue,
		fileName:    fileName,
		gt:          gt,
	}, nil
}

// CreateRasterFromFile reads an existing GeoTIFF off disk.
func CreateRasterFromFile(fileName string) (*Raster, error) {
	if !IsSupportedRasterFileExtension(fileName) {
		return nil, UnsupportedRasterFormatError
	}
	gt, err := geotiff.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("raster: reading %s: %w", fileName, err)
	}
	return &Raster{
		Rows: gt.Rows, Columns: gt.Columns,
		North: gt.North, South: gt.South, East: gt.East, West: gt.West,
		NoDataValue: gt.NoDataValue,
		fileName:    fileName,
		gt:          gt,
	}, nil
}

// Value retrieves a single cell, returning NoDataValue for an out-of-bounds
// request rather than panicking.
func (r *Raster) Value(row, column int) float64 {
	if row < 0 || row >= r.Rows || column < 0 || column >= r.Columns {
		return r.NoDataValue
	}
	return r.gt.Data[row*r.Columns+column]
}

// SetValue sets a single cell; out-of-bounds requests are silently ignored.
func (r *Raster) SetValue(row, column int, value float64) {
	if row < 0 || row >= r.Rows || column < 0 || column >= r.Columns {
		return
	}
	r.gt.Data[row*r.Columns+column] = value
}

// Data returns the raster's cells as a row-major slice.
func (r *Raster) Data() ([]float64, error) {
	return r.gt.Data, nil
}

// SetData replaces the raster's cells wholesale.
func (r *Raster) SetData(values []float64) {
	r.gt.Data = values
}

// Save writes the raster back out to its file.
func (r *Raster) Save() error {
	return r.gt.Write(r.fileName)
}

// GetTags renders the underlying GeoTIFF's IFD entries for diagnostics.
func (r *Raster) GetTags() string {
	return r.gt.GetTags()
}
