// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package shpio reads the per-tile shapefile + DBF pairs that back the
// existing-reservoir and river ingestion modes: lake polygons carrying
// Vol_total/Elevation/Lake_name attributes, and river polylines carrying
// DIS_AV_CMS/River_name.
package shpio

import (
	"fmt"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"github.com/99ch/phes-search/internal/geo"
)

// Lake is one polygon record from an existing-reservoir shapefile.
type Lake struct {
	Name      string
	Elevation int
	VolTotal  float64
	Polygon   []geo.GeographicCoordinate
}

// River is one polyline record from a river-network shapefile.
type River struct {
	Name      string
	DischargeAvgCumecs float64
	Vertices  []geo.GeographicCoordinate
}

// ReadLakes opens a shapefile of lake polygons and the attributes the
// pipeline needs: Vol_total (double), Elevation (int), Lake_name
// (string).
func ReadLakes(path string) ([]Lake, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shpio: opening %s: %w", path, err)
	}
	defer reader.Close()

	fields := reader.Fields()
	volIdx, elevIdx, nameIdx := fieldIndex(fields, "Vol_total"), fieldIndex(fields, "Elevation"), fieldIndex(fields, "Lake_name")

	var lakes []Lake
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		l := Lake{
			Name:      attrString(reader, n, nameIdx),
			Elevation: attrInt(reader, n, elevIdx),
			VolTotal:  attrFloat(reader, n, volIdx),
			Polygon:   polygonVertices(poly),
		}
		lakes = append(lakes, l)
	}
	return lakes, reader.Err()
}

// ReadRivers opens a shapefile of river polylines and the attributes the
// pipeline needs: DIS_AV_CMS (double), River_name (string).
func ReadRivers(path string) ([]River, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shpio: opening %s: %w", path, err)
	}
	defer reader.Close()

	fields := reader.Fields()
	disIdx, nameIdx := fieldIndex(fields, "DIS_AV_CMS"), fieldIndex(fields, "River_name")

	var rivers []River
	for reader.Next() {
		n, shape := reader.Shape()
		line, ok := shape.(*shp.PolyLine)
		if !ok {
			continue
		}
		r := River{
			Name:               attrString(reader, n, nameIdx),
			DischargeAvgCumecs: attrFloat(reader, n, disIdx),
			Vertices:           polylineVertices(line),
		}
		rivers = append(rivers, r)
	}
	return rivers, reader.Err()
}

func fieldIndex(fields []shp.Field, name string) int {
	for i, f := range fields {
		if strings.EqualFold(strings.TrimRight(string(f.Name[:]), "\x00"), name) {
			return i
		}
	}
	return -1
}

func attrString(r *shp.Reader, n, idx int) string {
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(r.ReadAttribute(n, idx))
}

func attrFloat(r *shp.Reader, n, idx int) float64 {
	if idx < 0 {
		return 0
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(r.ReadAttribute(n, idx)), 64)
	return v
}

func attrInt(r *shp.Reader, n, idx int) int {
	if idx < 0 {
		return 0
	}
	v, _ := strconv.Atoi(strings.TrimSpace(r.ReadAttribute(n, idx)))
	return v
}

func polygonVertices(p *shp.Polygon) []geo.GeographicCoordinate {
	out := make([]geo.GeographicCoordinate, len(p.Points))
	for i, pt := range p.Points {
		out[i] = geo.GeographicCoordinate{Lat: pt.Y, Lon: pt.X}
	}
	return out
}

func polylineVertices(p *shp.PolyLine) []geo.GeographicCoordinate {
	out := make([]geo.GeographicCoordinate, len(p.Points))
	for i, pt := range p.Points {
		out[i] = geo.GeographicCoordinate{Lat: pt.Y, Lon: pt.X}
	}
	return out
}
