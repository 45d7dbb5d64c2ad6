// Package geotiff reads and writes single-band, strip-based, uncompressed
// GeoTIFF rasters: the only shape a DEM tile, a derived flow grid, or a
// boolean filter mask ever takes in this pipeline. Multi-band imagery,
// tiling, compression (LZW/Deflate/PackBits), and projected coordinate
// systems are all out of scope - every raster this package touches is
// geographic (lat/lon) WGS84.
package geotiff

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Sample format codes (TIFF6 spec, tag 339).
const (
	sfUnsignedInt = 1
	sfSignedInt   = 2
	sfFloat       = 3
)

const photometricBlackIsZero = 1

const leHeader = "II\x2a\x00"
const beHeader = "MM\x00\x2a"

var (
	FileIsNotProperlyFormated = errors.New("the file does not appear to be a valid GeoTIFF")
	UnsupportedSampleFormat   = errors.New("unsupported GeoTIFF sample bit-depth/format combination")
)

// GeoTIFF is an in-memory single-band raster together with the handful of
// TIFF/GeoTIFF tags this pipeline cares about: image shape, sample
// encoding, geographic extent, and a nodata value.
type GeoTIFF struct {
	Rows, Columns int
	North, South, East, West float64
	NoDataValue   float64
	BitsPerSample int
	SampleFormat  int
	ByteOrder     binary.ByteOrder
	Data          []float64

	ifd map[int]ifdEntry
}

// New builds a GeoTIFF ready to have Data filled in and Write called; it
// does not touch disk.
func New(rows, cols int, north, south, east, west float64, bitsPerSample, sampleFormat int, noData float64) *GeoTIFF {
	return &GeoTIFF{
		Rows: rows, Columns: cols,
		North: north, South: south, East: east, West: west,
		NoDataValue:   noData,
		BitsPerSample: bitsPerSample,
		SampleFormat:  sampleFormat,
		ByteOrder:     binary.LittleEndian,
		Data:          make([]float64, rows*cols),
	}
}

// Open reads the single image strip set out of a GeoTIFF file on disk.
func Open(fileName string) (*GeoTIFF, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr := make([]byte, 8)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return nil, FileIsNotProperlyFormated
	}
	g := &GeoTIFF{}
	switch string(hdr[0:2]) {
	case "II":
		g.ByteOrder = binary.LittleEndian
	case "MM":
		g.ByteOrder = binary.BigEndian
	default:
		return nil, FileIsNotProperlyFormated
	}
	ifdOffset := int64(g.ByteOrder.Uint32(hdr[4:8]))

	ifd, err := readIFD(f, g.ByteOrder, ifdOffset)
	if err != nil {
		return nil, err
	}
	g.ifd = ifd

	width, ok := ifd[tImageWidth]
	length, ok2 := ifd[tImageLength]
	if !ok || !ok2 {
		return nil, FileIsNotProperlyFormated
	}
	g.Columns = int(width.ints(g.ByteOrder)[0])
	g.Rows = int(length.ints(g.ByteOrder)[0])

	g.BitsPerSample = 32
	if bps, ok := ifd[tBitsPerSample]; ok {
		g.BitsPerSample = int(bps.ints(g.ByteOrder)[0])
	}
	g.SampleFormat = sfSignedInt
	if sf, ok := ifd[tSampleFormat]; ok {
		g.SampleFormat = int(sf.ints(g.ByteOrder)[0])
	}

	offsets, ok := ifd[tStripOffsets]
	if !ok {
		return nil, FileIsNotProperlyFormated
	}
	counts, ok := ifd[tStripByteCounts]
	if !ok {
		return nil, FileIsNotProperlyFormated
	}
	stripOffsets := offsets.ints(g.ByteOrder)
	stripCounts := counts.ints(g.ByteOrder)

	buf := make([]byte, 0, g.Rows*g.Columns*g.BitsPerSample/8)
	for i, off := range stripOffsets {
		strip := make([]byte, stripCounts[i])
		if _, err := f.ReadAt(strip, int64(off)); err != nil && err != io.EOF {
			return nil, fmt.Errorf("geotiff: reading strip: %w", err)
		}
		buf = append(buf, strip...)
	}

	g.Data, err = decodeSamples(buf, g.Rows*g.Columns, g.BitsPerSample, g.SampleFormat, g.ByteOrder)
	if err != nil {
		return nil, err
	}

	if scale, ok := ifd[tModelPixelScaleTag]; ok {
		s := scale.floats(g.ByteOrder)
		if tp, ok := ifd[tModelTiepointTag]; ok {
			t := tp.floats(g.ByteOrder)
			if len(s) >= 2 && len(t) >= 6 {
				g.West = t[3]
				g.North = t[4]
				g.East = g.West + s[0]*float64(g.Columns)
				g.South = g.North - s[1]*float64(g.Rows)
			}
		}
	}

	g.NoDataValue = -32768
	if nd, ok := ifd[tGDALNoData]; ok {
		if v, err := parseNoData(nd.ascii()); err == nil {
			g.NoDataValue = v
		}
	}

	return g, nil
}

func parseNoData(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%g", &v)
	return v, err
}

// readIFD reads the single image-file-directory at offset, following the
// TIFF convention that field values longer than 4 bytes are stored
// out-of-line and referenced by an offset in the entry itself.
func readIFD(r io.ReaderAt, order binary.ByteOrder, offset int64) (map[int]ifdEntry, error) {
	p := make([]byte, 2)
	if _, err := r.ReadAt(p, offset); err != nil {
		return nil, FileIsNotProperlyFormated
	}
	numEntries := int(order.Uint16(p))

	const entryLen = 12
	buf := make([]byte, entryLen*numEntries)
	if _, err := r.ReadAt(buf, offset+2); err != nil {
		return nil, FileIsNotProperlyFormated
	}

	entries := make(map[int]ifdEntry, numEntries)
	for i := 0; i < numEntries; i++ {
		p := buf[i*entryLen : (i+1)*entryLen]
		tag := int(order.Uint16(p[0:2]))
		dataType := int(order.Uint16(p[2:4]))
		count := order.Uint32(p[4:8])

		length, known := fieldLen[dataType]
		if !known {
			continue
		}
		dataLen := length * count

		var raw []byte
		if dataLen <= 4 {
			raw = p[8 : 8+dataLen]
		} else {
			raw = make([]byte, dataLen)
			valOffset := int64(order.Uint32(p[8:12]))
			if _, err := r.ReadAt(raw, valOffset); err != nil && err != io.EOF {
				return nil, fmt.Errorf("geotiff: reading tag %d: %w", tag, err)
			}
		}
		entries[tag] = ifdEntry{tag: tag, dataType: dataType, count: count, raw: raw}
	}
	return entries, nil
}

// decodeSamples turns n samples of raw strip bytes into float64 cell
// values, widening every integer sample kind up to float64 the way the
// rest of the pipeline expects its grids to be stored.
func decodeSamples(buf []byte, n, bitsPerSample, sampleFormat int, order binary.ByteOrder) ([]float64, error) {
	out := make([]float64, n)
	switch {
	case sampleFormat == sfFloat && bitsPerSample == 32:
		for i := 0; i < n; i++ {
			out[i] = float64(math.Float32frombits(order.Uint32(buf[4*i : 4*i+4])))
		}
	case sampleFormat == sfFloat && bitsPerSample == 64:
		for i := 0; i < n; i++ {
			out[i] = math.Float64frombits(order.Uint64(buf[8*i : 8*i+8]))
		}
	case sampleFormat == sfSignedInt && bitsPerSample == 16:
		for i := 0; i < n; i++ {
			out[i] = float64(int16(order.Uint16(buf[2*i : 2*i+2])))
		}
	case sampleFormat == sfUnsignedInt && bitsPerSample == 16:
		for i := 0; i < n; i++ {
			out[i] = float64(order.Uint16(buf[2*i : 2*i+2]))
		}
	case sampleFormat == sfSignedInt && bitsPerSample == 32:
		for i := 0; i < n; i++ {
			out[i] = float64(int32(order.Uint32(buf[4*i : 4*i+4])))
		}
	case sampleFormat == sfUnsignedInt && bitsPerSample == 32:
		for i := 0; i < n; i++ {
			out[i] = float64(order.Uint32(buf[4*i : 4*i+4]))
		}
	case sampleFormat == sfSignedInt && bitsPerSample == 8:
		for i := 0; i < n; i++ {
			out[i] = float64(int8(buf[i]))
		}
	case sampleFormat == sfUnsignedInt && bitsPerSample == 8:
		for i := 0; i < n; i++ {
			out[i] = float64(buf[i])
		}
	default:
		return nil, UnsupportedSampleFormat
	}
	return out, nil
}

// encodeSamples is decodeSamples' inverse, narrowing float64 cell values
// back down to the declared bit-depth/format before they hit the strip.
func encodeSamples(data []float64, bitsPerSample, sampleFormat int, order binary.ByteOrder) ([]byte, error) {
	n := len(data)
	switch {
	case sampleFormat == sfFloat && bitsPerSample == 32:
		buf := make([]byte, 4*n)
		for i, v := range data {
			order.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
		}
		return buf, nil
	case sampleFormat == sfFloat && bitsPerSample == 64:
		buf := make([]byte, 8*n)
		for i, v := range data {
			order.PutUint64(buf[8*i:], math.Float64bits(v))
		}
		return buf, nil
	case sampleFormat == sfSignedInt && bitsPerSample == 16:
		buf := make([]byte, 2*n)
		for i, v := range data {
			order.PutUint16(buf[2*i:], uint16(int16(v)))
		}
		return buf, nil
	case sampleFormat == sfSignedInt && bitsPerSample == 32:
		buf := make([]byte, 4*n)
		for i, v := range data {
			order.PutUint32(buf[4*i:], uint32(int32(v)))
		}
		return buf, nil
	default:
		return nil, UnsupportedSampleFormat
	}
}

// Write serializes the raster to fileName: header, a single uncompressed
// strip holding every row, then one IFD describing it and a hardcoded
// WGS84 GeoKeyDirectory.
func (g *GeoTIFF) Write(fileName string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if g.ByteOrder == nil {
		g.ByteOrder = binary.LittleEndian
	}
	header := leHeader
	if g.ByteOrder == binary.BigEndian {
		header = beHeader
	}
	if _, err := w.WriteString(header); err != nil {
		return err
	}

	strip, err := encodeSamples(g.Data, g.BitsPerSample, g.SampleFormat, g.ByteOrder)
	if err != nil {
		return err
	}

	const headerLen = 8
	ifdOffset := uint32(headerLen + len(strip))
	if err := binary.Write(w, g.ByteOrder, ifdOffset); err != nil {
		return err
	}
	if _, err := w.Write(strip); err != nil {
		return err
	}

	if err := g.writeIFD(w, headerLen, uint32(len(strip))); err != nil {
		return err
	}
	return w.Flush()
}

// writeIFD emits the fixed tag set this package always writes: image
// shape, single-strip layout, sample encoding, pixel scale/tiepoint
// georeferencing, nodata, and a WGS84 GeoKeyDirectory. stripStart is the
// byte offset of the image strip written just before the IFD.
func (g *GeoTIFF) writeIFD(w *bufio.Writer, stripStart int, stripLen uint32) error {
	order := g.ByteOrder
	pixelScaleX := (g.East - g.West) / float64(g.Columns)
	pixelScaleY := (g.North - g.South) / float64(g.Rows)

	type entry struct {
		tag      int
		dataType int
		count    uint32
		value    []byte
	}

	geoKeys := encodeInts(order, dtShort, []uint{
		1, 1, 0, 2, // key directory header: version, key revision, minor revision, number of keys
		tGTModelTypeGeoKey, 0, 1, 2, // geographic model
		tGeographicTypeGeoKey, 0, 1, 4326, // WGS84
	})

	entries := []entry{
		{tImageWidth, dtLong, 1, encodeInts(order, dtLong, []uint{uint(g.Columns)})},
		{tImageLength, dtLong, 1, encodeInts(order, dtLong, []uint{uint(g.Rows)})},
		{tBitsPerSample, dtShort, 1, encodeInts(order, dtShort, []uint{uint(g.BitsPerSample)})},
		{tCompression, dtShort, 1, encodeInts(order, dtShort, []uint{1})},
		{tPhotometricInterpretation, dtShort, 1, encodeInts(order, dtShort, []uint{photometricBlackIsZero})},
		{tStripOffsets, dtLong, 1, encodeInts(order, dtLong, []uint{uint(stripStart)})},
		{tSamplesPerPixel, dtShort, 1, encodeInts(order, dtShort, []uint{1})},
		{tRowsPerStrip, dtLong, 1, encodeInts(order, dtLong, []uint{uint(g.Rows)})},
		{tStripByteCounts, dtLong, 1, encodeInts(order, dtLong, []uint{uint(stripLen)})},
		{tSoftware, dtASCII, uint32(len(encodeASCII("phes-search"))), encodeASCII("phes-search")},
		{tSampleFormat, dtShort, 1, encodeInts(order, dtShort, []uint{uint(g.SampleFormat)})},
		{tModelPixelScaleTag, dtDouble, 3, encodeDoubles(order, []float64{pixelScaleX, pixelScaleY, 0})},
		{tModelTiepointTag, dtDouble, 6, encodeDoubles(order, []float64{0, 0, 0, g.West, g.North, 0})},
		{tGeoKeyDirectoryTag, dtShort, 12, geoKeys},
		{tGDALNoData, dtASCII, uint32(len(encodeASCII(fmt.Sprintf("%v", g.NoDataValue)))), encodeASCII(fmt.Sprintf("%v", g.NoDataValue))},
	}

	const entryLen = 12
	dirOffset := stripStart + int(stripLen)
	valuesOffset := dirOffset + 2 + entryLen*len(entries) + 4

	if err := binary.Write(w, order, uint16(len(entries))); err != nil {
		return err
	}

	indirect := make([][]byte, 0)
	cursor := valuesOffset
	for _, e := range entries {
		if err := binary.Write(w, order, uint16(e.tag)); err != nil {
			return err
		}
		if err := binary.Write(w, order, uint16(e.dataType)); err != nil {
			return err
		}
		if err := binary.Write(w, order, e.count); err != nil {
			return err
		}
		if len(e.value) <= 4 {
			padded := make([]byte, 4)
			copy(padded, e.value)
			if _, err := w.Write(padded); err != nil {
				return err
			}
		} else {
			if err := binary.Write(w, order, uint32(cursor)); err != nil {
				return err
			}
			indirect = append(indirect, e.value)
			cursor += len(e.value)
		}
	}
	if err := binary.Write(w, order, uint32(0)); err != nil { // no further IFDs
		return err
	}
	for _, v := range indirect {
		if _, err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// GetTags renders every IFD entry read from disk as a diagnostic string;
// neither the pipeline nor the CLI calls it.
func (g *GeoTIFF) GetTags() string {
	ret := "IMAGE TAG ENTRIES:\n"
	for _, e := range g.ifd {
		ret += e.String() + "\n"
	}
	return ret
}
