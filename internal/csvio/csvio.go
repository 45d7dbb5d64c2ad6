// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package csvio reads and writes the CSV intermediates reservoirs and
// pairs are persisted as between pipeline stages, matching the
// encoding/csv usage throughout the example pack's own data-ingestion
// code.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/99ch/phes-search/internal/pairing"
	"github.com/99ch/phes-search/internal/reservoir"
)

var reservoirHeader = []string{
	"identifier", "latitude", "longitude", "elevation", "pour_row", "pour_col",
	"wall_heights", "volume", "dam_volume", "area", "water_rock",
}

// WriteReservoirs serializes rough reservoirs one per row: identifier,
// centroid, elevation, pour-point row/col, then the semicolon-joined
// per-dam-height volume/dam_volume/area/water_rock curves.
func WriteReservoirs(w io.Writer, reservoirs []*reservoir.RoughReservoir) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write(reservoirHeader); err != nil {
		return err
	}
	for _, r := range reservoirs {
		row := []string{
			r.Identifier,
			ftoa(r.Latitude),
			ftoa(r.Longitude),
			ftoa(r.Elevation),
			strconv.Itoa(r.PourPoint.Row),
			strconv.Itoa(r.PourPoint.Col),
			joinInts(r.WallHeights),
			joinFloats(r.Volume),
			joinFloats(r.DamVolume),
			joinFloats(r.Area),
			joinFloats(r.WaterRock),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csvio: writing reservoir %s: %w", r.Identifier, err)
		}
	}
	return cw.Error()
}

// ReadReservoirs parses the format WriteReservoirs produces.
func ReadReservoirs(r io.Reader) ([]*reservoir.RoughReservoir, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvio: reading reservoirs: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	var out []*reservoir.RoughReservoir
	for _, rec := range records[1:] {
		if len(rec) < len(reservoirHeader) {
			continue
		}
		rr := &reservoir.RoughReservoir{
			Identifier: rec[0],
			Latitude:   atof(rec[1]),
			Longitude:  atof(rec[2]),
			Elevation:  atof(rec[3]),
		}
		rr.PourPoint.Row = atoi(rec[4])
		rr.PourPoint.Col = atoi(rec[5])
		rr.WallHeights = splitInts(rec[6])
		rr.Volume = splitFloats(rec[7])
		rr.DamVolume = splitFloats(rec[8])
		rr.Area = splitFloats(rec[9])
		rr.WaterRock = splitFloats(rec[10])
		out = append(out, rr)
	}
	return out, nil
}

var pairHeader = []string{
	"identifier", "upper_id", "lower_id", "head", "distance", "pp_distance", "slope",
	"energy_capacity", "storage_time", "required_volume", "water_rock", "fom", "category",
}

// WritePairs serializes pairs one per row: identifier, both reservoir
// identifiers (the payloads themselves are looked up from the
// reservoir CSVs rather than duplicated here), head, distance,
// pp_distance, slope, energy_capacity, storage_time, required_volume,
// water_rock, FOM, category.
func WritePairs(w io.Writer, pairs []pairing.Pair) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write(pairHeader); err != nil {
		return err
	}
	for _, p := range pairs {
		row := []string{
			p.Identifier,
			p.Upper.Identifier,
			p.Lower.Identifier,
			ftoa(p.Head),
			ftoa(p.Distance),
			ftoa(p.PourPointDist),
			ftoa(p.Slope),
			ftoa(p.EnergyGWh),
			ftoa(p.StorageHours),
			ftoa(p.RequiredVolume),
			ftoa(p.WaterRock),
			ftoa(p.FOM),
			string(p.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csvio: writing pair %s: %w", p.Identifier, err)
		}
	}
	return cw.Error()
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
func atof(s string) float64 { v, _ := strconv.ParseFloat(s, 64); return v }
func atoi(s string) int     { v, _ := strconv.Atoi(s); return v }

func joinInts(xs []int) string {
	s := ""
	for i, x := range xs {
		if i > 0 {
			s += ";"
		}
		s += strconv.Itoa(x)
	}
	return s
}

func joinFloats(xs []float64) string {
	s := ""
	for i, x := range xs {
		if i > 0 {
			s += ";"
		}
		s += ftoa(x)
	}
	return s
}

func splitInts(s string) []int {
	parts := splitSemicolons(s)
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i] = atoi(p)
	}
	return out
}

func splitFloats(s string) []float64 {
	parts := splitSemicolons(s)
	out := make([]float64, len(parts))
	for i, p := range parts {
		out[i] = atof(p)
	}
	return out
}

func splitSemicolons(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
