package geotiff

// Tag codes (see p. 28-41 of the TIFF6/GeoTIFF spec). This reader/writer
// only ever touches a single-band, strip-based, uncompressed image, so the
// tag set is pared down to exactly what that shape needs - no tiling,
// colour, or compression tags.
const (
	tImageWidth                = 256
	tImageLength               = 257
	tBitsPerSample             = 258
	tCompression               = 259
	tPhotometricInterpretation = 262
	tStripOffsets              = 273
	tSamplesPerPixel           = 277
	tRowsPerStrip              = 278
	tStripByteCounts           = 279
	tSoftware                  = 305
	tSampleFormat              = 339

	tModelPixelScaleTag = 33550
	tModelTiepointTag   = 33922
	tGeoKeyDirectoryTag = 34735
	tGeoDoubleParamsTag = 34736
	tGeoAsciiParamsTag  = 34737
	tGDALNoData         = 42113

	tGTModelTypeGeoKey    = 1024
	tGTRasterTypeGeoKey   = 1025
	tGeographicTypeGeoKey = 2048
)

// tagName is consulted only by GetTags for diagnostic printing; every tag
// this package reads or writes has an entry here.
var tagName = map[int]string{
	tImageWidth:                "ImageWidth",
	tImageLength:               "ImageLength",
	tBitsPerSample:             "BitsPerSample",
	tCompression:               "Compression",
	tPhotometricInterpretation: "PhotometricInterpretation",
	tStripOffsets:              "StripOffsets",
	tSamplesPerPixel:           "SamplesPerPixel",
	tRowsPerStrip:              "RowsPerStrip",
	tStripByteCounts:           "StripByteCounts",
	tSoftware:                  "Software",
	tSampleFormat:              "SampleFormat",
	tModelPixelScaleTag:        "ModelPixelScaleTag",
	tModelTiepointTag:          "ModelTiepointTag",
	tGeoKeyDirectoryTag:        "GeoKeyDirectoryTag",
	tGeoDoubleParamsTag:        "GeoDoubleParamsTag",
	tGeoAsciiParamsTag:         "GeoAsciiParamsTag",
	tGDALNoData:                "GDAL_NODATA",
	tGTModelTypeGeoKey:         "GTModelTypeGeoKey",
	tGTRasterTypeGeoKey:        "GTRasterTypeGeoKey",
	tGeographicTypeGeoKey:      "GeographicTypeGeoKey",
}

func tagString(code int) string {
	if n, ok := tagName[code]; ok {
		return n
	}
	return "Unknown"
}
