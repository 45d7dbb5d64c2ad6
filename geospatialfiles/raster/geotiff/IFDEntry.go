package geotiff

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TIFF6 field types. The writer puts only Short, Long, ASCII and Double on
// the wire; Byte and Float are also decoded on read, and anything else
// encountered while reading is treated as opaque bytes and skipped.
const (
	dtByte   = 1
	dtASCII  = 2
	dtShort  = 3
	dtLong   = 4
	dtFloat  = 11
	dtDouble = 12
)

// fieldLen is the length, in bytes, of one instance of each field type
// above.
var fieldLen = map[int]uint32{
	dtByte:   1,
	dtASCII:  1,
	dtShort:  2,
	dtLong:   4,
	dtFloat:  4,
	dtDouble: 8,
}

// ifdEntry is one parsed image-file-directory entry: a tag code, its field
// type, an element count, and the raw value bytes (already dereferenced
// from the file if the value didn't fit inline).
type ifdEntry struct {
	tag      int
	dataType int
	count    uint32
	raw      []byte
}

func (e ifdEntry) String() string {
	return fmt.Sprintf("%s (tag %d), type %d, count %d", tagString(e.tag), e.tag, e.dataType, e.count)
}

// ints decodes a Byte/Short/Long entry into its integer values.
func (e ifdEntry) ints(order binary.ByteOrder) []uint {
	out := make([]uint, e.count)
	switch e.dataType {
	case dtByte:
		for i := range out {
			out[i] = uint(e.raw[i])
		}
	case dtShort:
		for i := range out {
			out[i] = uint(order.Uint16(e.raw[2*i : 2*i+2]))
		}
	case dtLong:
		for i := range out {
			out[i] = uint(order.Uint32(e.raw[4*i : 4*i+4]))
		}
	}
	return out
}

// floats decodes a Float/Double entry into float64 values.
func (e ifdEntry) floats(order binary.ByteOrder) []float64 {
	out := make([]float64, e.count)
	switch e.dataType {
	case dtFloat:
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(e.raw[4*i : 4*i+4])))
		}
	case dtDouble:
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(e.raw[8*i : 8*i+8]))
		}
	}
	return out
}

// ascii decodes an ASCII entry, trimming the trailing NUL the TIFF spec
// requires every string field to carry.
func (e ifdEntry) ascii() string {
	if e.count == 0 {
		return ""
	}
	return string(e.raw[:e.count-1])
}

// encodeInts packs vals into count entries of the given field type, ready
// to be written as an IFD entry's inline or indirect value bytes.
func encodeInts(order binary.ByteOrder, dataType int, vals []uint) []byte {
	switch dataType {
	case dtShort:
		buf := make([]byte, 2*len(vals))
		for i, v := range vals {
			order.PutUint16(buf[2*i:], uint16(v))
		}
		return buf
	case dtLong:
		buf := make([]byte, 4*len(vals))
		for i, v := range vals {
			order.PutUint32(buf[4*i:], uint32(v))
		}
		return buf
	default:
		buf := make([]byte, len(vals))
		for i, v := range vals {
			buf[i] = byte(v)
		}
		return buf
	}
}

func encodeDoubles(order binary.ByteOrder, vals []float64) []byte {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		order.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func encodeASCII(s string) []byte {
	return append([]byte(s), 0)
}
