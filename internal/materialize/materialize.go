// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package materialize turns a committed reservoir footprint into the
// polygon a KML export needs: boundary extraction, Chaikin corner
// cutting, Douglas-Peucker-style simplification (via ctessum/geom's
// Polygon.Simplify) and country attribution by point-in-polygon test
// against preloaded country geometries.
package materialize

import (
	"github.com/ctessum/geom"

	"github.com/99ch/phes-search/internal/geo"
)

// Country is one preloaded attribution polygon: an ISO-prefixed name
// plus the boundary to test reservoirs against.
type Country struct {
	Name    string
	Polygon geom.Polygon
}

// FootprintPolygon traces the boundary of a set of admitted grid cells
// (as produced by the prettyset/greenfield BFS) into an ordered ring of
// geographic coordinates: the centre of every boundary cell, in
// cell-visitation order. This is deliberately coarse (one
// vertex per boundary cell, not a true marching-squares trace) since the
// corner-cutting and simplification passes below are what produce a
// presentable KML outline from it.
func FootprintPolygon(origin geo.GeographicCoordinate, rows, cols int, cells []int, inFootprint func(idx int) bool) []geo.GeographicCoordinate {
	var boundary []geo.GeographicCoordinate
	seen := make(map[int]bool, len(cells))
	for _, idx := range cells {
		seen[idx] = true
	}
	for _, idx := range cells {
		r, c := idx/cols, idx%cols
		if !isBoundaryCell(r, c, rows, cols, seen) {
			continue
		}
		coord := geo.ArrayCoordinate{Row: r, Col: c, Origin: origin}
		boundary = append(boundary, geo.ToGeographic(coord, 0.5))
	}
	if len(boundary) > 0 {
		boundary = append(boundary, boundary[0])
	}
	return boundary
}

func isBoundaryCell(r, c, rows, cols int, footprint map[int]bool) bool {
	orth := [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	for _, o := range orth {
		nr, nc := r+o[0], c+o[1]
		if nr < 0 || nc < 0 || nr >= rows || nc >= cols {
			return true
		}
		if !footprint[nr*cols+nc] {
			return true
		}
	}
	return false
}

// ChaikinSmooth applies one or more rounds of Chaikin corner-cutting to
// a closed polygon: each edge (p0,p1) is replaced by two points 1/4 and
// 3/4 of the way along it, rounding every corner without moving the
// curve's centroid.
func ChaikinSmooth(polygon []geo.GeographicCoordinate, rounds int) []geo.GeographicCoordinate {
	cur := polygon
	for i := 0; i < rounds; i++ {
		cur = chaikinPass(cur)
	}
	return cur
}

func chaikinPass(polygon []geo.GeographicCoordinate) []geo.GeographicCoordinate {
	n := len(polygon)
	if n < 3 {
		return polygon
	}
	out := make([]geo.GeographicCoordinate, 0, 2*n)
	for i := 0; i < n-1; i++ {
		p0, p1 := polygon[i], polygon[i+1]
		out = append(out,
			lerp(p0, p1, 0.25),
			lerp(p0, p1, 0.75),
		)
	}
	out = append(out, out[0])
	return out
}

func lerp(a, b geo.GeographicCoordinate, t float64) geo.GeographicCoordinate {
	return geo.GeographicCoordinate{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

// Simplify runs Douglas-Peucker-style compression (ctessum/geom's
// Polygon.Simplify) over the smoothed outline, at the given tolerance in
// degrees.
func Simplify(polygon []geo.GeographicCoordinate, tolerance float64) []geo.GeographicCoordinate {
	ring := toGeomRing(polygon)
	simplified := geom.Polygon{ring}.Simplify(tolerance)
	poly, ok := simplified.(geom.Polygon)
	if !ok || len(poly) == 0 {
		return polygon
	}
	return fromGeomRing(poly[0])
}

// AttributeCountry returns the name of the first country whose polygon
// contains the reservoir's centroid, or "" if none do.
func AttributeCountry(centroid geo.GeographicCoordinate, countries []Country) string {
	pt := geom.Point{X: centroid.Lon, Y: centroid.Lat}
	for _, c := range countries {
		if pt.Within(c.Polygon) != geom.Outside {
			return c.Name
		}
	}
	return ""
}

func toGeomRing(polygon []geo.GeographicCoordinate) []geom.Point {
	ring := make([]geom.Point, len(polygon))
	for i, p := range polygon {
		ring[i] = geom.Point{X: p.Lon, Y: p.Lat}
	}
	return ring
}

func fromGeomRing(ring []geom.Point) []geo.GeographicCoordinate {
	out := make([]geo.GeographicCoordinate, len(ring))
	for i, p := range ring {
		out[i] = geo.GeographicCoordinate{Lat: p.Y, Lon: p.X}
	}
	return out
}
