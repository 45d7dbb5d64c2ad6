// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Originally created by John Lindsay, Nov. 2014.

package raster

import "errors"

var UnsupportedRasterFormatError = errors.New("Unsupported raster format.")
