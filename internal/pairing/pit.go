package pairing

import (
	"math"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/existing"
)

// PitCandidate is one feasible (floor elevation, pit depth) combination
// found while sizing a dam within an existing mine pit.
type PitCandidate struct {
	FloorElevation float64
	PitDepth       float64
	Volume         float64
	HeadRatio      float64
}

// SearchPit iterates candidate pit-floor elevations at the configured
// resolution and, for each, searches a pit depth that meets the
// required volume while keeping the head_ratio - the ratio of maximum
// to minimum head over the cycle - under the configured tolerance. upperWallHeight (Hw)
// and the pit's own wall height (Hp) enter the ratio as the glossary
// defines it: (h + (Hw+Hp)/2) / (h - (Hw+Hp)/2).
func SearchPit(p *config.Params, pit *existing.ExistingPit, head, upperWallHeight, requiredVolume float64) (PitCandidate, bool) {
	if len(pit.Curve) == 0 {
		return PitCandidate{}, false
	}
	minAlt := pit.Curve[0].Altitude
	maxAlt := pit.Curve[len(pit.Curve)-1].Altitude

	for floor := minAlt; floor <= maxAlt; floor += p.PitHeightResolution {
		depth := interpolateDepthForVolume(pit, floor, requiredVolume)
		if depth <= 0 {
			continue
		}
		ratio := headRatio(head, upperWallHeight, depth)
		if ratio-1 <= p.MaxHeadVariability {
			vol := volumeAt(pit, floor+depth) - volumeAt(pit, floor)
			return PitCandidate{FloorElevation: floor, PitDepth: depth, Volume: vol, HeadRatio: ratio}, true
		}
	}
	return PitCandidate{}, false
}

func headRatio(h, hw, hp float64) float64 {
	half := 0.5 * (hw + hp)
	denom := h - half
	if denom <= 0 {
		return math.Inf(1)
	}
	return (h + half) / denom
}

func volumeAt(pit *existing.ExistingPit, alt float64) float64 {
	curve := pit.Curve
	if alt <= curve[0].Altitude {
		return curve[0].Volume
	}
	if alt >= curve[len(curve)-1].Altitude {
		return curve[len(curve)-1].Volume
	}
	for i := 1; i < len(curve); i++ {
		if alt <= curve[i].Altitude {
			a0, a1 := curve[i-1].Altitude, curve[i].Altitude
			v0, v1 := curve[i-1].Volume, curve[i].Volume
			frac := (alt - a0) / (a1 - a0)
			return v0 + frac*(v1-v0)
		}
	}
	return curve[len(curve)-1].Volume
}

// interpolateDepthForVolume searches (linearly, since the curve is
// small) for the smallest depth above floor whose cumulative volume
// meets requiredVolume, returning 0 if the pit never holds enough even
// at its deepest modelled point.
func interpolateDepthForVolume(pit *existing.ExistingPit, floor, requiredVolume float64) float64 {
	base := volumeAt(pit, floor)
	maxAlt := pit.Curve[len(pit.Curve)-1].Altitude
	const steps = 50
	for i := 1; i <= steps; i++ {
		depth := (maxAlt - floor) * float64(i) / steps
		if volumeAt(pit, floor+depth)-base >= requiredVolume {
			return depth
		}
	}
	return 0
}
