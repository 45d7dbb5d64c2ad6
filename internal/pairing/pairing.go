package pairing

import (
	"fmt"
	"math"
	"sort"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/geo"
	"github.com/99ch/phes-search/internal/reservoir"
)

// Pair is a committed candidate: an upper/lower reservoir combination
// that survived every gate for one Test, with its cost-model outputs.
type Pair struct {
	Identifier     string
	Upper, Lower   *reservoir.RoughReservoir
	Head           float64
	Distance       float64
	PourPointDist  float64
	Slope          float64
	EnergyGWh      float64
	StorageHours   float64
	RequiredVolume float64
	WaterRock      float64
	FOM            float64
	Category       byte
}

// Search evaluates every (upper, lower) combination from the candidate
// lists against one Test, applying the gates of the pairing stage in
// increasing cost order (cheap pruning first) and returning survivors
// sorted by (FOM ascending, identifier ascending).
func Search(p *config.Params, uppers, lowers []*reservoir.RoughReservoir, test config.Test) []Pair {
	var out []Pair
	for _, u := range uppers {
		for _, l := range lowers {
			if u == l {
				continue
			}
			if pair, ok := evaluate(p, u, l, test); ok {
				out = append(out, pair)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FOM != out[j].FOM {
			return out[i].FOM < out[j].FOM
		}
		return out[i].Identifier < out[j].Identifier
	})
	return out
}

func evaluate(p *config.Params, u, l *reservoir.RoughReservoir, test config.Test) (Pair, bool) {
	// Gate 1: head.
	head := u.Elevation - l.Elevation
	if !u.River && !l.River {
		if head < p.MinHead || head > p.MaxHead {
			return Pair{}, false
		}
	}

	// Gate 2: pour-point distance vs. min_pp_slope.
	ppDist := pourPointDistance(u, l)
	maxDistSqd := sq(head * 0.001 / p.MinPourPointSlope)
	if ppDist*ppDist > maxDistSqd {
		return Pair{}, false
	}

	// Gate 3: volume solvability.
	requiredVolume := requiredVolumeGL(p, test, head)
	lowerRequirement := requiredVolume
	if l.River {
		lowerRequirement = p.RiverVolumeMultiplier * requiredVolume
	}
	if u.MaxVolume() < requiredVolume || l.MaxVolume() < lowerRequirement {
		return Pair{}, false
	}

	// Gate 4: dam-wall heights feasible for both sides.
	upperWall, ok := u.WallHeightForVolume(requiredVolume)
	if !ok || upperWall > u.MaxDamHeight && u.MaxDamHeight > 0 {
		return Pair{}, false
	}
	lowerWall, ok := l.WallHeightForVolume(lowerRequirement)
	if !ok || lowerWall > l.MaxDamHeight && l.MaxDamHeight > 0 {
		return Pair{}, false
	}

	// Gate 5: combined water-to-rock.
	wu, wl := u.MaxWaterRock(), l.MaxWaterRock()
	if wu <= 0 || wl <= 0 {
		return Pair{}, false
	}
	waterRock := 1 / (1/wu + 1/wl)
	if waterRock < p.MinPairWaterRock {
		return Pair{}, false
	}

	// Gate 6: refined geometry - closest vertex pair between the
	// directional-extrema shape bounds, re-applying the slope gate.
	dist, ok := leastDistanceSqd(u, l)
	if !ok {
		dist = ppDist * ppDist
	}
	if sq(head)*1e-6 <= dist*sq(p.MinPourPointSlope) {
		return Pair{}, false
	}
	slope := head * 0.001 / math.Sqrt(math.Max(dist, 1e-12))

	// Gate 7: figure of merit.
	fom := FOM(p, head, math.Sqrt(dist), waterRock, test.EnergyCapacityGWh, float64(test.StorageTimeHours), l.Ocean)
	category, ok := Category(p, fom, float64(test.StorageTimeHours))
	if !ok {
		return Pair{}, false
	}
	maxFOM := categoryCutoffValue(p, category, float64(test.StorageTimeHours))
	if fom > maxFOM*(1+p.FOMTolerance) {
		return Pair{}, false
	}

	return Pair{
		Identifier:     fmt.Sprintf("%s & %s", u.Identifier, l.Identifier),
		Upper:          u,
		Lower:          l,
		Head:           head,
		Distance:       math.Sqrt(dist),
		PourPointDist:  ppDist,
		Slope:          slope,
		EnergyGWh:      test.EnergyCapacityGWh,
		StorageHours:   float64(test.StorageTimeHours),
		RequiredVolume: requiredVolume,
		WaterRock:      waterRock,
		FOM:            fom,
		Category:       category,
	}, true
}

// requiredVolumeGL converts a Test's energy capacity into the volume
// (gigalitres) of water that must be cycled through the given head to
// deliver it, per the glossary's V = E*J_per_GWh / (head*rho*g*eta*usable*m3_per_GL).
func requiredVolumeGL(p *config.Params, test config.Test, head float64) float64 {
	joules := test.EnergyCapacityGWh * p.JoulesPerGWh
	perCubicMetre := head * p.WaterDensity * p.Gravity * p.GenerationEfficiency * p.UsableVolumeFraction
	cubicMetres := joules / perCubicMetre
	return cubicMetres / p.CubicMetresPerGL
}

// pourPointDistance is the distance gate's metric: the direct distance
// between two pour points or, when either side carries EdgeCells, the
// minimum over every pair of cellsOf cells. Only the ocean reservoir
// carries EdgeCells; lakes and rivers from internal/existing carry none
// and are measured from their PourPoint, which AsRough leaves at its
// zero value.
func pourPointDistance(u, l *reservoir.RoughReservoir) float64 {
	if len(u.EdgeCells) == 0 && len(l.EdgeCells) == 0 {
		coslat := math.Cos(radians(0.5 * (u.Latitude + l.Latitude)))
		return geo.Distance(u.PourPoint, l.PourPoint, coslat)
	}
	best := math.Inf(1)
	uCells := cellsOf(u)
	lCells := cellsOf(l)
	for _, a := range uCells {
		for _, b := range lCells {
			coslat := math.Cos(radians(0.5 * (geo.ToGeographic(a, 0.5).Lat + geo.ToGeographic(b, 0.5).Lat)))
			d := geo.Distance(a, b, coslat)
			if d < best {
				best = d
			}
		}
	}
	return best
}

func cellsOf(r *reservoir.RoughReservoir) []geo.ArrayCoordinate {
	if len(r.EdgeCells) > 0 {
		return r.EdgeCells
	}
	return []geo.ArrayCoordinate{r.PourPoint}
}

// leastDistanceSqd finds the closest vertex pair between two reservoirs'
// directional-extrema shape bounds (their widest modelled footprint),
// mirroring find_least_distance_sqd's refined geometry check.
func leastDistanceSqd(u, l *reservoir.RoughReservoir) (float64, bool) {
	if len(u.Bounds) == 0 || len(l.Bounds) == 0 {
		return 0, false
	}
	ub, lb := u.Bounds[len(u.Bounds)-1], l.Bounds[len(l.Bounds)-1]
	best := math.Inf(1)
	for _, a := range ub {
		for _, b := range lb {
			coslat := math.Cos(radians(0.5 * (geo.ToGeographic(a, 0.5).Lat + geo.ToGeographic(b, 0.5).Lat)))
			d := geo.DistanceSqd(a, b, coslat)
			if d < best {
				best = d
			}
		}
	}
	return best, true
}

func categoryCutoffValue(p *config.Params, category byte, storageHours float64) float64 {
	for _, cut := range p.CategoryCutoffs {
		if cut.Category == category {
			return cut.PowerCost + storageHours*cut.StorageCost
		}
	}
	return config.Infinity
}

func sq(f float64) float64        { return f * f }
func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

// RetainBest applies the retention policy: at most maxPerUpper survivors
// per upper per Test, keeping the lowest-FOM (pairs is assumed already
// sorted by FOM ascending then identifier ascending).
func RetainBest(pairs []Pair, maxPerUpper int, singlePerUpper bool) []Pair {
	if singlePerUpper {
		maxPerUpper = 1
	}
	counts := make(map[string]int)
	var out []Pair
	for _, pr := range pairs {
		if counts[pr.Upper.Identifier] >= maxPerUpper {
			continue
		}
		counts[pr.Upper.Identifier]++
		out = append(out, pr)
	}
	return out
}
