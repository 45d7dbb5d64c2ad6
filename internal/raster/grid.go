// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package raster bridges the GeoTIFF codec in geospatialfiles/raster to
// the pipeline's own domain types: a terrain.Grid for elevation, and a
// generic Grid[T] for the boolean filter masks and category rasters
// built alongside it.
package raster

import (
	"fmt"

	"github.com/99ch/phes-search/geospatialfiles/raster"
	"github.com/99ch/phes-search/internal/terrain"
)

// Grid is a row-major raster of any value type, used for
// filter masks (Grid[bool]) and other non-elevation layers that ride
// alongside a DEM tile but don't need the float64-specific helpers of
// terrain.Grid.
type Grid[T any] struct {
	Rows, Cols int
	Cells      []T
}

// NewGrid allocates a Rows x Cols grid with every cell set to zero.
func NewGrid[T any](rows, cols int) *Grid[T] {
	return &Grid[T]{Rows: rows, Cols: cols, Cells: make([]T, rows*cols)}
}

func (g *Grid[T]) At(row, col int) T       { return g.Cells[row*g.Cols+col] }
func (g *Grid[T]) Set(row, col int, v T)   { g.Cells[row*g.Cols+col] = v }
func (g *Grid[T]) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.Rows && col < g.Cols
}

// ReadDEM loads a GeoTIFF DEM tile into a terrain.Grid, the shape every
// terrain-conditioning and reservoir-modelling stage consumes.
func ReadDEM(path string) (*terrain.Grid, error) {
	r, err := raster.CreateRasterFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("raster: reading %s: %w", path, err)
	}
	data, err := r.Data()
	if err != nil {
		return nil, fmt.Errorf("raster: reading cell data from %s: %w", path, err)
	}
	return &terrain.Grid{Rows: r.Rows, Cols: r.Columns, Z: data, NoData: r.NoDataValue}, nil
}

// WriteDEM saves g as a GeoTIFF tile spanning the given geographic bounds.
func WriteDEM(path string, g *terrain.Grid, north, south, east, west float64) error {
	cfg := raster.NewDefaultRasterConfig()
	cfg.DataType = raster.DT_FLOAT32
	cfg.NoDataValue = g.NoData
	cfg.InitialValue = g.NoData

	r, err := raster.CreateNewRaster(path, g.Rows, g.Cols, north, south, east, west, cfg)
	if err != nil {
		return fmt.Errorf("raster: creating %s: %w", path, err)
	}
	r.SetData(g.Z)
	if err := r.Save(); err != nil {
		return fmt.Errorf("raster: saving %s: %w", path, err)
	}
	return nil
}

// UpsampleDoubled doubles a 1801-wide SRTM3 tile to 3601-wide SRTM1
// resolution by linear pixel duplication, halving only the column step
// (not the row step): the source pipeline's resampler does this
// asymmetrically, and the behaviour is preserved rather than "fixed" in
// case a dependent computation already compensates for it.
func UpsampleDoubled(src *terrain.Grid) *terrain.Grid {
	outCols := 2*src.Cols - 1
	out := terrain.NewGrid(src.Rows, outCols, src.NoData)
	for r := 0; r < src.Rows; r++ {
		for c := 0; c < src.Cols; c++ {
			v := src.Z[r*src.Cols+c]
			out.Z[r*outCols+2*c] = v
			if c+1 < src.Cols {
				out.Z[r*outCols+2*c+1] = v
			}
		}
	}
	return out
}
