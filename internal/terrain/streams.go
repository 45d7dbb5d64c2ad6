package terrain

import "math"

// PourPoint is a candidate dam site: a stream cell whose height crosses a
// contour multiple relative to its downstream neighbour.
type PourPoint struct {
	Row, Col int
}

// Streams reports, for every cell, whether its flow accumulation meets
// threshold - the boolean mask a stream network is rendered from.
func Streams(accum []float64, threshold float64) []bool {
	mask := make([]bool, len(accum))
	for i, a := range accum {
		mask[i] = a >= threshold
	}
	return mask
}

// PourPoints extracts the cells at which a dam would be sited: stream
// cells whose integer-rounded height crosses a contourHeight multiple
// relative to their downstream neighbour, i.e.
// floor(h/contour)*contour > h_down. Only cells strictly inside the
// padded border contribute, since a pour point on the border would sit
// on a neighbouring tile's territory.
func PourPoints(dem *Grid, fd *FlowDirGrid, accum []float64, streamThreshold float64, contourHeight int, border int) []PourPoint {
	var out []PourPoint
	for r := border; r < dem.Rows-border; r++ {
		for c := border; c < dem.Cols-border; c++ {
			idx := r*dem.Cols + c
			if accum[idx] < streamThreshold {
				continue
			}
			nr, nc, ok := Downstream(fd, r, c)
			if !ok || !dem.inBounds(nr, nc) {
				continue
			}
			h := math.Round(dem.at(r, c))
			hDown := math.Round(dem.at(nr, nc))
			contour := float64(contourHeight)
			crossing := math.Floor(h/contour)*contour > hDown
			if crossing {
				out = append(out, PourPoint{Row: r, Col: c})
			}
		}
	}
	return out
}
