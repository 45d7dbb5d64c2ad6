package reservoir

import (
	"fmt"
	"math"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/terrain"
)

// d8 mirrors the direction-table offsets of package geo; duplicated here
// (rather than imported) because the flood-fill below walks the DEM by
// raw (row,col) pairs, not geo.ArrayCoordinate, to avoid an allocation
// per visited cell in what is the hottest loop in the pipeline.
var d8DRow = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var d8DCol = [8]int{1, 1, 0, -1, -1, -1, 0, 1}

// drainsTo reports whether (nr,nc) drains into (r,c) per the flow
// direction grid, i.e. fd.Dir[nr][nc] points back at (r,c).
func drainsTo(fd *terrain.FlowDirGrid, r, c, nr, nc int) bool {
	d := fd.Dir[nr*fd.Cols+nc]
	if d < 0 {
		return false
	}
	return nr+d8DRow[d] == r && nc+d8DCol[d] == c
}

// ModelGreenfield runs the two-pass flood described for the greenfield
// reservoir modeller: a growth pass that accumulates area and shape
// bounds per dam-wall-height band, followed by a dam-length pass over
// the same footprint. id should be unique within the tile (the pipeline
// uses the pour point's stringified coordinate).
func ModelGreenfield(dem *terrain.Grid, fd *terrain.FlowDirGrid, filter []bool, origin geo.GeographicCoordinate, pp geo.ArrayCoordinate, id string, p *config.Params) (*RoughReservoir, bool) {
	maxWallHeight := p.MaxWallHeight()
	ppElev := dem.Z[pp.Row*dem.Cols+pp.Col]

	// Pass 1: growth. admittedElev[i] is the elevation-above-pour-point of
	// cell i, or -1 if the cell was never reached.
	type visit struct{ row, col int }
	admittedElev := make([]float64, dem.Rows*dem.Cols)
	for i := range admittedElev {
		admittedElev[i] = -1
	}
	admittedElev[pp.Row*dem.Cols+pp.Col] = 0
	queue := []visit{{pp.Row, pp.Col}}

	nBands := len(p.DamWallHeights)
	areaAtElev := make([]float64, maxWallHeight+2)
	bounds := make([]ShapeBound, nBands)
	for b := range bounds {
		for d := 0; d < 8; d++ {
			bounds[b][d] = pp
		}
	}
	maxDamHeight := 0.0

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		z := dem.Z[cur.row*dem.Cols+cur.col]
		h := z - ppElev
		hi := int(math.Floor(h))
		if hi >= 0 && hi+1 < len(areaAtElev) {
			areaAtElev[hi+1] += geo.AreaHa(geo.ArrayCoordinate{Row: cur.row, Col: cur.col, Origin: origin})
		}
		coord := geo.ArrayCoordinate{Row: cur.row, Col: cur.col, Origin: origin}
		for b, wallHeight := range p.DamWallHeights {
			if h <= float64(wallHeight) {
				updateBounds(&bounds[b], coord, pp)
			}
		}
		if filter != nil && filter[cur.row*dem.Cols+cur.col] {
			if h > maxDamHeight {
				maxDamHeight = h
			}
		}

		for d := 0; d < 8; d++ {
			nr, nc := cur.row+d8DRow[d], cur.col+d8DCol[d]
			if !dem.InBounds(nr, nc) {
				continue
			}
			idx := nr*dem.Cols + nc
			if admittedElev[idx] >= 0 {
				continue
			}
			if dem.Z[idx] == dem.NoData {
				continue
			}
			if !drainsTo(fd, cur.row, cur.col, nr, nc) {
				continue
			}
			if dem.Z[idx]-ppElev >= float64(maxWallHeight) {
				continue
			}
			admittedElev[idx] = dem.Z[idx] - ppElev
			queue = append(queue, visit{nr, nc})
		}
	}

	if len(queue) <= 1 {
		return nil, false
	}

	// Pass 2: dam length. Re-walk the same footprint (order doesn't
	// matter here, unlike pass 1's bound/area accounting) looking for
	// orthogonal steps that leave the admitted set.
	damLengthAtElev := make([]float64, maxWallHeight+1)
	admitted := func(r, c int) bool {
		if r < 0 || c < 0 || r >= dem.Rows || c >= dem.Cols {
			return false
		}
		return admittedElev[r*dem.Cols+c] >= 0
	}
	for _, cur := range queue {
		h := admittedElev[cur.row*dem.Cols+cur.col]
		orth := [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
		for _, o := range orth {
			nr, nc := cur.row+o[0], cur.col+o[1]
			if admitted(nr, nc) {
				continue
			}
			if !dem.InBounds(nr, nc) || dem.Z[nr*dem.Cols+nc] == dem.NoData {
				continue
			}
			hDown := dem.Z[nr*dem.Cols+nc] - ppElev
			b := math.Min(float64(maxWallHeight), math.Max(h, hDown))
			bi := int(b)
			if bi < 0 {
				bi = 0
			}
			if bi > maxWallHeight {
				bi = maxWallHeight
			}
			p1 := geo.ArrayCoordinate{Row: cur.row, Col: cur.col, Origin: origin}
			p2 := geo.ArrayCoordinate{Row: nr, Col: nc, Origin: origin}
			damLengthAtElev[bi] += geo.OrthogonalNNDistance(p1, p2)
		}
	}

	rr := buildCurves(id, pp, ppElev, origin, areaAtElev, damLengthAtElev, bounds, maxDamHeight, float64(len(queue)), p)

	if rr.MaxVolume() < p.MinReservoirVolume || rr.MaxWaterRock() < p.MinReservoirWaterRock || rr.MaxDamHeight < p.MinMaxDamHeight {
		return nil, false
	}
	return rr, true
}

func updateBounds(b *ShapeBound, coord, pp geo.ArrayCoordinate) {
	for d := 0; d < 8; d++ {
		delta := geo.Directions[d]
		cur := b[d]
		// Project (coord - pp) onto direction d; keep whichever cell
		// extends farthest along that compass direction.
		along := float64((coord.Row-pp.Row)*delta.DRow + (coord.Col-pp.Col)*delta.DCol)
		curAlong := float64((cur.Row-pp.Row)*delta.DRow + (cur.Col-pp.Col)*delta.DCol)
		if along > curAlong {
			b[d] = coord
		}
	}
}

func buildCurves(id string, pp geo.ArrayCoordinate, ppElev float64, origin geo.GeographicCoordinate, areaAtElev, damLengthAtElev []float64, bounds []ShapeBound, maxDamHeight, watershedArea float64, p *config.Params) *RoughReservoir {
	n := len(p.DamWallHeights)
	volume := make([]float64, n)
	damVolume := make([]float64, n)
	area := make([]float64, n)
	waterRock := make([]float64, n)

	cumArea := 0.0
	cumAreaAtHeight := make([]float64, maxElevBand(areaAtElev))
	for i := range cumAreaAtHeight {
		cumArea += areaAtElev[i]
		cumAreaAtHeight[i] = cumArea
	}

	for b, h := range p.DamWallHeights {
		a := 0.0
		for i := 0; i <= h && i < len(areaAtElev); i++ {
			a += areaAtElev[i]
		}
		area[b] = a

		v := 0.0
		for i := 0; i <= h && i < len(cumAreaAtHeight); i++ {
			v += cumAreaAtHeight[i]
		}
		volume[b] = 0.01 * v

		dv := 0.0
		for j := 0; j < h && j < len(damLengthAtElev); j++ {
			hj := float64(h - j)
			dv += (hj+p.Freeboard) * (p.CrestWidth + p.DamBatter*(hj+p.Freeboard)) / 1e6 * damLengthAtElev[j]
		}
		damVolume[b] = dv

		if dv > 0 {
			waterRock[b] = (volume[b] + 0.5*dv) / dv
		} else {
			waterRock[b] = config.Infinity
		}
	}

	return &RoughReservoir{
		Identifier:    id,
		Latitude:      geo.ToGeographic(pp, 0.5).Lat,
		Longitude:     geo.ToGeographic(pp, 0.5).Lon,
		PourPoint:     pp,
		Elevation:     ppElev,
		WatershedArea: watershedArea,
		MaxDamHeight:  maxDamHeight,
		WallHeights:   p.DamWallHeights,
		Volume:        volume,
		DamVolume:     damVolume,
		Area:          area,
		WaterRock:     waterRock,
		Bounds:        bounds,
	}
}

func maxElevBand(areaAtElev []float64) int { return len(areaAtElev) }

// String is a debugging aid; production identifiers are assigned by the
// caller from the pour point's coordinates.
func (r *RoughReservoir) String() string {
	return fmt.Sprintf("%s@(%d,%d)", r.Identifier, r.PourPoint.Row, r.PourPoint.Col)
}
