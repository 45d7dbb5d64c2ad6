// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package pairing searches the upper and lower candidate lists it is
// given for viable upper/lower reservoir combinations, gating cheaply
// before the expensive figure-of-merit cost model, and classifies
// survivors into lettered cost categories. The pipeline passes one
// tile's own candidates as both lists; candidates from neighbouring
// tiles are not read.
package pairing

import (
	"math"

	"github.com/99ch/phes-search/internal/config"
)

// powerMW converts a required energy capacity (GWh) and storage time
// (hours) into the generation power the powerhouse must be sized for,
// in megawatts.
func powerMW(energyGWh float64, storageHours float64) float64 {
	return energyGWh * 1000 / storageHours
}

// powerhouseCost is the powerhouse's capital cost, scaled by head and
// split into two parallel units once the plant's head exceeds 800 m (the
// point at which a single Francis/Pelton train stops being practical).
func powerhouseCost(p *config.Params, powerMW, head float64) float64 {
	unit := p.PowerhouseCoeff * math.Pow(powerMW, p.PowerExponent) * math.Pow(head, p.HeadExponent)
	if head > 800 {
		return 2 * unit
	}
	return unit
}

// tunnelCost is the waterway connecting upper and lower, as a function of
// head, horizontal distance and power: a fixed mobilisation cost plus a
// per-unit-length lining cost driven by the slope the tunnel must
// traverse.
func tunnelCost(p *config.Params, powerMW, head, distanceKm float64) float64 {
	slope := p.SlopeIntercept + p.PowerSlopeFactor*powerMW
	length := distanceKm / slope
	return p.TunnelFixedCost + p.LiningCost*length*1000*math.Pow(head, p.HeadCoeff) + p.PowerOffset*powerMW
}

// oceanCost adds the marine outlet and reservoir-lining premium an
// ocean-lower pair pays on top of an equivalent freshwater pair, scaled
// relative to a reference head/power/cost triple.
func oceanCost(p *config.Params, powerMW, head float64) float64 {
	return p.RefMarineCost * p.SeaPowerScaling * math.Pow(powerMW/p.RefPower, p.PowerExponent) * math.Pow(head/p.RefHead, p.HeadExponent)
}

// FOM computes the figure of merit (cost per unit of firm capacity) for
// a candidate pair, per the glossary's power_cost + storage_time *
// energy_cost formula.
func FOM(p *config.Params, head, distanceKm, waterRock, energyGWh, storageHours float64, oceanLower bool) float64 {
	pw := powerMW(energyGWh, storageHours)
	cappedP := math.Min(pw, 800)

	energyCost := p.DamCost / (waterRock * p.GenerationEfficiency * p.UsableVolumeFraction * p.WaterDensity * p.Gravity * head)
	powerCost := (powerhouseCost(p, pw, head) + tunnelCost(p, pw, head, distanceKm)) / cappedP
	if oceanLower {
		powerCost += oceanCost(p, pw, head) / cappedP
	}

	return powerCost + storageHours*energyCost
}

// Category classifies a FOM into a letter A..Z by scanning the
// configured cutoffs in the order given (a descending-stringency scan
// with <= comparisons, so iteration order determines ties, matching the
// deterministic linear pass the original cost model used instead of a
// binary search).
func Category(p *config.Params, fom float64, storageHours float64) (byte, bool) {
	for _, cut := range p.CategoryCutoffs {
		if fom <= cut.PowerCost+storageHours*cut.StorageCost {
			return cut.Category, true
		}
	}
	return 0, false
}
