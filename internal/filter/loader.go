// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package filter

import (
	"os"
	"path/filepath"

	"github.com/99ch/phes-search/internal/bigmodel"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/raster"
	"github.com/99ch/phes-search/internal/terrain"
)

// FileLoader reads "<tile>_<layer>.tif" from dir, matching the naming
// convention the DEM tiles (pipeline.tileLoader) and existing-reservoir
// shapefiles (pipeline.loadExistingInputs) already use. A layer missing
// for a given tile is reported as an all-zero native-resolution grid
// (nothing excluded) rather than an error.
func FileLoader(dir string) Loader {
	return func(square geo.GridSquare, layer string) (*terrain.Grid, error) {
		path := filepath.Join(dir, square.String()+"_"+layer+".tif")
		if _, err := os.Stat(path); err != nil {
			size := bigmodel.TileSize + 1
			return terrain.NewGrid(size, size, 0), nil
		}
		g, err := raster.ReadDEM(path)
		if err != nil {
			return nil, err
		}
		if g.Cols == 1801 {
			g = raster.UpsampleDoubled(g)
		}
		return g, nil
	}
}
