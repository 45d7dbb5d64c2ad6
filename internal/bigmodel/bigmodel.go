// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package bigmodel stitches a DEM tile together with its eight
// neighbours into one padded grid, so that reservoirs and flow paths
// near a tile's edge are modelled against real terrain instead of
// running off the edge of the world. The stitched grid's interior
// (the [border, border+3600) band on each axis) is the tile itself;
// the padding is copied from the border-width strip of each neighbour
// nearest the shared edge. Neighbouring tiles share one row/column with
// the centre: north and west strips skip the neighbour's copy of it, so
// the centre's own value is kept there, while south and east strips
// start at the neighbour's copy and overwrite the centre's last
// row/column with it.
package bigmodel

import (
	"fmt"

	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

// TileLoader loads the native-resolution DEM for one 1x1 degree tile.
// Implementations read a GeoTIFF named after square.String(); tests
// supply a synthetic in-memory version.
type TileLoader func(square geo.GridSquare) (*terrain.Grid, error)

// tileSize is the number of distinct 1-arcsecond cells spanning one
// degree; SRTM1-class tiles overlap their neighbours by one row/column,
// which pasteNeighbour accounts for on the north and west sides by
// starting those strips one row/column in from the neighbour's shared
// edge; south and east strips start at the shared row/column itself.
const tileSize = 3600

// TileSize exports tileSize for callers (e.g. internal/filter) that need
// to size a native-resolution tile grid without stitching one.
const TileSize = tileSize

// Build stitches the tile at square together with its eight neighbours
// into one (tileSize+2*border) square grid, centred so that
// big.Z[(border+r)*cols + border+c] is cell (r,c) of the centre tile.
// A neighbour that fails to load (missing file, off the edge of
// available data) leaves its padding region at NoData rather than
// aborting the whole stitch, since a reservoir or flow path rarely
// needs the full padding depth to resolve correctly.
func Build(square geo.GridSquare, border int, load TileLoader) (*terrain.Grid, error) {
	centre, err := load(square)
	if err != nil {
		return nil, fmt.Errorf("bigmodel: loading centre tile %s: %w", square.String(), err)
	}

	size := tileSize + 2*border
	big := terrain.NewGrid(size, size, centre.NoData)

	copyInto(big, centre, border, border, 0, 0, centre.Rows, centre.Cols)

	type neighbour struct {
		d      geo.Direction
		offset func(sq geo.GridSquare) geo.GridSquare
	}
	neighbours := []neighbour{
		{geo.DirN, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat + 1, Lon: sq.Lon} }},
		{geo.DirS, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat - 1, Lon: sq.Lon} }},
		{geo.DirE, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat, Lon: sq.Lon + 1} }},
		{geo.DirW, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat, Lon: sq.Lon - 1} }},
		{geo.DirNE, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat + 1, Lon: sq.Lon + 1} }},
		{geo.DirNW, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat + 1, Lon: sq.Lon - 1} }},
		{geo.DirSE, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat - 1, Lon: sq.Lon + 1} }},
		{geo.DirSW, func(sq geo.GridSquare) geo.GridSquare { return geo.GridSquare{Lat: sq.Lat - 1, Lon: sq.Lon - 1} }},
	}

	for _, n := range neighbours {
		tile, err := load(n.offset(square))
		if err != nil {
			continue
		}
		pasteNeighbour(big, tile, n.d, border)
	}

	return big, nil
}

// copyInto copies src[srcR0:srcR0+rows, srcC0:srcC0+cols] into
// dst starting at (dstR0, dstC0).
func copyInto(dst, src *terrain.Grid, dstR0, dstC0, srcR0, srcC0, rows, cols int) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sr, sc := srcR0+r, srcC0+c
			if sr < 0 || sc < 0 || sr >= src.Rows || sc >= src.Cols {
				continue
			}
			dr, dc := dstR0+r, dstC0+c
			if dr < 0 || dc < 0 || dr >= dst.Rows || dc >= dst.Cols {
				continue
			}
			dst.Z[dr*dst.Cols+dc] = src.Z[sr*src.Cols+sc]
		}
	}
}

// pasteNeighbour copies the border-width strip or corner of tile
// nearest the centre tile's edge in direction d into the padding region
// of big on that side.
func pasteNeighbour(big, tile *terrain.Grid, d geo.Direction, border int) {
	switch d {
	case geo.DirN:
		// tile's southernmost rows fill the strip above the centre.
		copyInto(big, tile, 0, border, tile.Rows-1-border, 0, border, tileSize)
	case geo.DirS:
		copyInto(big, tile, border+tileSize, border, 0, 0, border, tileSize)
	case geo.DirE:
		copyInto(big, tile, border, border+tileSize, 0, 0, tileSize, border)
	case geo.DirW:
		copyInto(big, tile, border, 0, 0, tile.Cols-1-border, tileSize, border)
	case geo.DirNE:
		copyInto(big, tile, 0, border+tileSize, tile.Rows-1-border, 0, border, border)
	case geo.DirNW:
		copyInto(big, tile, 0, 0, tile.Rows-1-border, tile.Cols-1-border, border, border)
	case geo.DirSE:
		copyInto(big, tile, border+tileSize, border+tileSize, 0, 0, border, border)
	case geo.DirSW:
		copyInto(big, tile, border+tileSize, 0, 0, tile.Cols-1-border, border, border)
	}
}

// Origin returns the geographic coordinate of the stitched grid's (0,0)
// cell, i.e. square's own Origin with the same border.
func Origin(square geo.GridSquare, border int) geo.GeographicCoordinate {
	return geo.Origin(square, border)
}
