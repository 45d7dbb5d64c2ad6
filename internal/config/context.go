// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package config

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/99ch/phes-search/internal/geo"
)

// SearchType selects which family of reservoirs a pipeline run screens:
// freshly-modelled greenfield impoundments, the ocean edge, or one of the
// existing-reservoir/pit ingestion modes. It mirrors the CLI mode prefixes
// of section 6, even though the CLI itself sits outside the core.
type SearchType int

const (
	Greenfield SearchType = iota
	Ocean
	SingleExisting
	BulkExisting
	BulkPit
	SinglePit
)

// Existing reports whether the search type draws reservoirs from the
// existing-reservoir/pit database rather than modelling them from the DEM.
func (s SearchType) Existing() bool {
	return s == SingleExisting || s == BulkExisting || s == BulkPit || s == SinglePit
}

// GridCell reports whether the search type processes a whole grid square
// (as opposed to a single named reservoir or pit).
func (s SearchType) GridCell() bool {
	return s == Greenfield || s == Ocean || s == BulkExisting || s == BulkPit
}

// Single reports whether the search type targets one named reservoir/pit.
func (s SearchType) Single() bool {
	return s == SingleExisting || s == SinglePit
}

// Prefix is the filename prefix intermediates for this search type are
// written under.
func (s SearchType) Prefix() string {
	switch s {
	case Ocean:
		return "ocean_"
	case SinglePit:
		return "single_pit_"
	case BulkPit:
		return "pit_"
	case BulkExisting:
		return "existing_"
	default:
		return ""
	}
}

// LowersPrefix names the file prefix of a tile's candidate lowers for each
// search type: ocean lowers for an ocean search, existing lowers for a
// bulk-existing search, and plain greenfield lowers for everything else.
// No stage calls it; pairing uses the current tile's own candidates as
// lowers.
func (s SearchType) LowersPrefix() string {
	switch s {
	case Ocean:
		return "ocean_"
	case BulkExisting:
		return "existing_"
	default:
		return ""
	}
}

// Logger is a thin wrapper that gives every stage the same debug/warn/error
// surface without reaching for a package-level global.
type Logger struct {
	*logrus.Logger
}

// NewLogger builds a Logger at Debug level when debug is set and at Warn
// level otherwise. Pairing and pretty-set log no per-rejection messages at
// either level.
func NewLogger(debug bool) *Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{Logger: l}
}

// Context bundles everything a pipeline stage needs to run: the tuning
// parameters, the logger, which search type and tile it is working on, and
// the name of a single reservoir/pit when Single() is true. It replaces the
// global SearchConfig/Logger pair with an explicit, passable value.
type Context struct {
	Params     *Params
	Log        *Logger
	SearchType SearchType
	Square     geo.GridSquare
	Name       string
}

// Filename is the intermediate-file stem for this context: the search
// type's prefix plus either the stringified grid square (grid-cell modes)
// or a filename-safe form of the reservoir/pit name (single modes).
func (c *Context) Filename() string {
	if c.SearchType.GridCell() {
		return c.SearchType.Prefix() + c.Square.String()
	}
	return c.SearchType.Prefix() + FormatForFilename(c.Name)
}

// FormatForFilename lowercases s and replaces whitespace with underscores,
// matching the behaviour expected of reservoir/pit names used as filenames.
func FormatForFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}
