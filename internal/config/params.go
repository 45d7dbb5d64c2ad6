// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package config bundles the engineering constants, file locations and
// logger that every pipeline stage needs, replacing the process-wide global
// configuration of the program this package's logic is drawn from with an
// explicit Context threaded through each stage's entry point.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Test is one (energy_capacity, storage_time) combination that every
// candidate pair is screened and classified against.
type Test struct {
	EnergyCapacityGWh float64 `toml:"energy_capacity_gwh"`
	StorageTimeHours  int     `toml:"storage_time_hours"`
}

// CategoryCutoff is one rule of the descending-stringency FOM category
// table: a pair earns category Category while its FOM stays under
// PowerCost + storage_time*StorageCost.
type CategoryCutoff struct {
	Category    byte    `toml:"category"`
	PowerCost   float64 `toml:"power_cost"`
	StorageCost float64 `toml:"storage_cost"`
}

// Params holds every engineering constant the screening, pairing and
// pretty-set stages consult. It is loaded once from a TOML file (mirroring
// the "variables" file the original tool parsed by hand) and then passed
// by value/pointer into each stage - no package-level mutable state.
type Params struct {
	// Terrain conditioning.
	Border         int     `toml:"border"`
	FillEpsilon    float64 `toml:"fill_epsilon"`
	StreamThreshold int    `toml:"stream_threshold"`
	ContourHeight  int     `toml:"contour_height"`

	// Greenfield reservoir modelling.
	DamWallHeights       []int   `toml:"dam_wall_heights"`
	Freeboard            float64 `toml:"freeboard"`
	CrestWidth            float64 `toml:"crest_width"`
	DamBatter             float64 `toml:"dam_batter"`
	MinReservoirVolume    float64 `toml:"min_reservoir_volume_gl"`
	MinReservoirWaterRock float64 `toml:"min_reservoir_water_rock"`
	MinMaxDamHeight       float64 `toml:"min_max_dam_height"`
	OceanElevationEps     float64 `toml:"ocean_elevation_eps"`

	// Filter mask (urban/landuse/waterbody exclusion, §2 filter builder).
	// A cell is eligible for inundation unless the ancillary urban or
	// waterbody layer flags it, or its landuse class appears here.
	ExcludedLanduseClasses []int `toml:"excluded_landuse_classes"`

	// Existing reservoir / pit ingestion.
	NumAltitudeVolumePairs int `toml:"num_altitude_volume_pairs"`

	// Pairing.
	MinHead                 float64 `toml:"min_head"`
	MaxHead                 float64 `toml:"max_head"`
	MinPourPointSlope       float64 `toml:"min_pp_slope"`
	MinPairWaterRock        float64 `toml:"min_pair_water_rock"`
	MaxLowersPerUpper       int     `toml:"max_lowers_per_upper"`
	PitHeightResolution     float64 `toml:"pit_height_resolution"`
	MaxHeadVariability      float64 `toml:"max_head_variability"`
	RiverVolumeMultiplier   float64 `toml:"river_volume_multiplier"`
	FOMTolerance            float64 `toml:"fom_tolerance"`

	// Pretty-set.
	VolumeAccuracy                float64 `toml:"volume_accuracy"`
	MaxBluefieldSurfaceAreaRatio  float64 `toml:"max_bluefield_surface_area_ratio"`
	MinimumDamHeight              float64 `toml:"minimum_dam_height"`
	NoDataSentinel                float64 `toml:"no_data_sentinel"`

	// Unit conversion / physical constants.
	JoulesPerGWh             float64 `toml:"joules_per_gwh"`
	WaterDensity             float64 `toml:"water_density"`
	Gravity                  float64 `toml:"gravity"`
	GenerationEfficiency     float64 `toml:"generation_efficiency"`
	UsableVolumeFraction     float64 `toml:"usable_volume_fraction"`
	CubicMetresPerGL         float64 `toml:"cubic_metres_per_gl"`
	MetresPerHectare         float64 `toml:"metres_per_hectare"`

	// Cost model (figure of merit).
	DamCost             float64 `toml:"dam_cost"`
	PowerhouseCoeff     float64 `toml:"powerhouse_coeff"`
	PowerExponent       float64 `toml:"power_exponent"`
	HeadExponent        float64 `toml:"head_exponent"`
	PowerSlopeFactor    float64 `toml:"power_slope_factor"`
	SlopeIntercept      float64 `toml:"slope_intercept"`
	HeadCoeff           float64 `toml:"head_coeff"`
	PowerOffset         float64 `toml:"power_offset"`
	TunnelFixedCost     float64 `toml:"tunnel_fixed_cost"`
	LiningCost          float64 `toml:"lining_cost"`
	SeaPowerScaling     float64 `toml:"sea_power_scaling"`
	RefMarineCost       float64 `toml:"ref_marine_cost"`
	RefHead             float64 `toml:"ref_head"`
	RefPower            float64 `toml:"ref_power"`

	Tests            []Test            `toml:"tests"`
	CategoryCutoffs  []CategoryCutoff  `toml:"category_cutoffs"`

	StorageLocation string `toml:"storage_location"`
}

// Epsilon is the small positive float used by threshold comparisons that
// need to tolerate floating point noise (the source's EPS).
const Epsilon = 1e-9

// Infinity stands in for the source's INF sentinel: large enough that any
// real head/volume/cost comparison treats it as unbounded, but finite so it
// can be serialized and compared without special-casing math.Inf.
const Infinity = 1.0e20

// MaxWallHeight returns the largest configured dam wall height, in
// metres: the greenfield flood fill admits no cell this far or farther
// above its pour point. The BigModel padding is the separate Border
// cell count.
func (p *Params) MaxWallHeight() int {
	max := 0
	for _, h := range p.DamWallHeights {
		if h > max {
			max = h
		}
	}
	return max
}

// Default returns the engineering constants in the ranges the screening
// tool this pipeline generalizes ships with. Call Load to override from a
// file; Default alone is enough to run the pipeline end to end.
func Default() *Params {
	return &Params{
		Border:          3600,
		FillEpsilon:     1e-6,
		StreamThreshold: 1000,
		ContourHeight:   15,

		DamWallHeights:        []int{5, 10, 15, 20, 25, 30, 35, 40, 50, 60, 80, 100, 120, 150, 200, 250, 300},
		Freeboard:             3,
		CrestWidth:            10,
		DamBatter:             2.5,
		MinReservoirVolume:    0.005,
		MinReservoirWaterRock: 1.5,
		MinMaxDamHeight:       5,
		OceanElevationEps:     1e-6,

		ExcludedLanduseClasses: []int{},

		NumAltitudeVolumePairs: 11,

		MinHead:               50,
		MaxHead:                800,
		MinPourPointSlope:      0.1,
		MinPairWaterRock:       2,
		MaxLowersPerUpper:      30,
		PitHeightResolution:    5,
		MaxHeadVariability:     0.1,
		RiverVolumeMultiplier:  5,
		FOMTolerance:           0.2,

		VolumeAccuracy:               0.02,
		MaxBluefieldSurfaceAreaRatio: 0.5,
		MinimumDamHeight:             5,
		NoDataSentinel:               -2000,

		JoulesPerGWh:         3.6e12,
		WaterDensity:         1000,
		Gravity:              9.8,
		GenerationEfficiency: 0.9,
		UsableVolumeFraction: 0.9,
		CubicMetresPerGL:     1.0e6,
		MetresPerHectare:     10000,

		DamCost:         7.5e-6,
		PowerhouseCoeff: 22000,
		PowerExponent:   0.45,
		HeadExponent:    0.3,
		PowerSlopeFactor: 0.000033,
		SlopeIntercept:   3,
		HeadCoeff:        0.3,
		PowerOffset:      0.4,
		TunnelFixedCost:  250000,
		LiningCost:       1,
		SeaPowerScaling:  1.2,
		RefMarineCost:    100000000,
		RefHead:          100,
		RefPower:         1000,

		Tests: []Test{
			{EnergyCapacityGWh: 0.5, StorageTimeHours: 6},
			{EnergyCapacityGWh: 2, StorageTimeHours: 6},
			{EnergyCapacityGWh: 5, StorageTimeHours: 8},
			{EnergyCapacityGWh: 15, StorageTimeHours: 12},
			{EnergyCapacityGWh: 50, StorageTimeHours: 18},
			{EnergyCapacityGWh: 150, StorageTimeHours: 24},
		},
		CategoryCutoffs: []CategoryCutoff{
			{Category: 'A', PowerCost: 1.0, StorageCost: 0.05},
			{Category: 'B', PowerCost: 1.5, StorageCost: 0.10},
			{Category: 'C', PowerCost: 2.5, StorageCost: 0.20},
			{Category: 'D', PowerCost: 4.0, StorageCost: 0.35},
		},

		StorageLocation: "./",
	}
}

// Load reads params from a TOML file on top of Default, so a partial file
// can override just the constants a study wants to vary.
func Load(path string) (*Params, error) {
	p := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return p, nil
}
