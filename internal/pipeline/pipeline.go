// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package pipeline wires terrain conditioning, reservoir modelling,
// pairing, pretty-set and KML output into the single grid-cell run the
// CLI driver invokes, persisting CSV intermediates between stages the way
// the source this is built from does. Its KML placemarks carry only
// reservoir names; no footprint polygon is materialized for them.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/99ch/phes-search/internal/bigmodel"
	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/csvio"
	"github.com/99ch/phes-search/internal/filter"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/materialize"
	"github.com/99ch/phes-search/internal/pairing"
	raster "github.com/99ch/phes-search/internal/raster"
	"github.com/99ch/phes-search/internal/reservoir"
	"github.com/99ch/phes-search/internal/terrain"
)

// NewGridCellContext builds the Context for a whole-tile search type
// (greenfield, ocean, bulk existing, bulk pit).
func NewGridCellContext(p *config.Params, st config.SearchType, lat, lon int, debug bool) *config.Context {
	return &config.Context{
		Params:     p,
		Log:        config.NewLogger(debug),
		SearchType: st,
		Square:     geo.GridSquare{Lat: lat, Lon: lon},
	}
}

// NewNamedContext builds the Context for a single named reservoir/pit
// search.
func NewNamedContext(p *config.Params, st config.SearchType, name string, debug bool) *config.Context {
	return &config.Context{
		Params:     p,
		Log:        config.NewLogger(debug),
		SearchType: st,
		Name:       name,
	}
}

// tileLoader returns the TileLoader bigmodel.Build uses: a GeoTIFF DEM
// named "<tile>_1arc_v3.tif" under StorageLocation, upsampled from
// 1801-wide tiles where necessary.
func tileLoader(c *config.Context) bigmodel.TileLoader {
	return func(square geo.GridSquare) (*terrain.Grid, error) {
		path := filepath.Join(c.Params.StorageLocation, square.String()+"_1arc_v3.tif")
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

// Run executes one grid-cell pipeline run end to end: condition the
// terrain, model or ingest candidate reservoirs, search for pairs per
// Test, resolve a conflict-free subset, and persist CSV + KML outputs.
//
// Only the Greenfield and Ocean search types are modelled directly from
// the DEM here; the Existing/Pit family is wired through
// internal/existing and is invoked the same way once its shapefile
// inputs are supplied - see runExisting for the ingestion path shared
// by every Existing() search type.
func Run(c *config.Context) error {
	if c.SearchType.Existing() {
		return runExisting(c)
	}

	big, err := buildAndCondition(c)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	uppers, err := modelCandidates(c, big)
	if err != nil {
		return err
	}
	if len(uppers) == 0 {
		c.Log.Warnf("no candidate reservoirs found in %s", c.Filename())
		return nil
	}

	if err := writeReservoirCSV(c, uppers); err != nil {
		return err
	}

	var allPairs []pairing.Pair
	for _, test := range c.Params.Tests {
		found := pairing.Search(c.Params, uppers, uppers, test)
		found = pairing.RetainBest(found, c.Params.MaxLowersPerUpper, c.SearchType.Single())
		allPairs = append(allPairs, found...)
	}

	kept := prettySetStage(c, big, allPairs)

	if err := writePairCSV(c, kept); err != nil {
		return err
	}
	return writeKML(c, kept)
}

type conditionedTile struct {
	dem    *terrain.Grid
	fd     *terrain.FlowDirGrid
	accum  []float64
	origin geo.GeographicCoordinate
	filter filter.Mask
}

func buildAndCondition(c *config.Context) (*conditionedTile, error) {
	raw, err := bigmodel.Build(c.Square, c.Params.Border, tileLoader(c))
	if err != nil {
		return nil, err
	}
	origin := bigmodel.Origin(c.Square, c.Params.Border)

	filled := terrain.FillDepressions(raw, c.Params.FillEpsilon)
	fd := terrain.FlowDirections(filled, origin)
	accum := terrain.FlowAccumulation(fd)

	mask, err := filter.Build(c.Square, c.Params.Border, c.Params, filter.FileLoader(c.Params.StorageLocation))
	if err != nil {
		return nil, fmt.Errorf("pipeline: building filter mask: %w", err)
	}

	return &conditionedTile{dem: filled, fd: fd, accum: accum, origin: origin, filter: mask}, nil
}

func modelCandidates(c *config.Context, t *conditionedTile) ([]*reservoir.RoughReservoir, error) {
	if c.SearchType == config.Ocean {
		rr, ok := reservoir.ExtractOcean(t.dem, t.fd, t.filter, t.origin, c.Params)
		if !ok {
			return nil, nil
		}
		return []*reservoir.RoughReservoir{rr}, nil
	}

	pps := terrain.PourPoints(t.dem, t.fd, t.accum, float64(c.Params.StreamThreshold), c.Params.ContourHeight, c.Params.Border)
	var out []*reservoir.RoughReservoir
	for _, pp := range pps {
		coord := geo.ArrayCoordinate{Row: pp.Row, Col: pp.Col, Origin: t.origin}
		id := fmt.Sprintf("%s_%d_%d", c.Square.String(), pp.Row, pp.Col)
		rr, ok := reservoir.ModelGreenfield(t.dem, t.fd, t.filter, t.origin, coord, id, c.Params)
		if ok {
			out = append(out, rr)
		}
	}
	return out, nil
}

func prettySetStage(c *config.Context, t *conditionedTile, pairs []pairing.Pair) []pairing.Pair {
	sortByFOM(pairs)
	return prettySetSelect(c.Params, t.dem, t.fd, pairs)
}

func writeReservoirCSV(c *config.Context, reservoirs []*reservoir.RoughReservoir) error {
	path := filepath.Join(c.Params.StorageLocation, c.Filename()+"_reservoirs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: creating %s: %w", path, err)
	}
	defer f.Close()
	return csvio.WriteReservoirs(f, reservoirs)
}

func writePairCSV(c *config.Context, pairs []pairing.Pair) error {
	path := filepath.Join(c.Params.StorageLocation, c.Filename()+"_pairs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: creating %s: %w", path, err)
	}
	defer f.Close()
	return csvio.WritePairs(f, pairs)
}

func writeKML(c *config.Context, pairs []pairing.Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	path := filepath.Join(c.Params.StorageLocation, c.Filename()+".kml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: creating %s: %w", path, err)
	}
	defer f.Close()

	var entries []materialize.ReservoirKML
	for _, pr := range pairs {
		entries = append(entries,
			materialize.ReservoirKML{Name: pr.Upper.Identifier},
			materialize.ReservoirKML{Name: pr.Lower.Identifier},
		)
	}
	return materialize.WriteKML(f, c.Filename(), entries)
}
