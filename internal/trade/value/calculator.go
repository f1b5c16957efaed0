// Package value computes objective trade value for players and draft picks.
// All functions are pure; the only state is the pick chart precomputed at
// construction, so one Calculator safely serves concurrent callers.
package value

import (
	"math"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Player valuation constants.
const (
	ratingFloor    = 50   // Ratings at or below this are worth nothing
	ratingExponent = 1.8  // Power curve: value grows superlinearly with skill
	ratingDivisor  = 3.2  // Scales a 75 rating to roughly 100 units
	prePeakPerYear = 0.03 // Discount per year short of the peak window
	prePeakFloor   = 0.80
	declineFloor   = 0.40
)

// positionTiers is the market multiplier per position. Premium spots carry
// the highest tier; specialists the lowest.
var positionTiers = map[league.Position]float64{
	league.QB:   1.60,
	league.EDGE: 1.35,
	league.OT:   1.25,
	league.WR:   1.15,
	league.CB:   1.10,
	league.C:    1.05,
	league.RB:   1.00,
	league.TE:   1.00,
	league.LB:   1.00,
	league.S:    1.00,
	league.OG:   1.00,
	league.DT:   0.90,
	league.K:    0.50,
	league.P:    0.50,
}

// ageProfile is a position group's peak window and post-peak decline rate.
type ageProfile struct {
	peakStart int
	peakEnd   int
	decline   float64 // Value lost per year past the peak
}

// ageProfiles: running backs fall off fastest, quarterbacks slowest.
var ageProfiles = map[league.Position]ageProfile{
	league.QB:   {26, 35, 0.04},
	league.RB:   {23, 26, 0.12},
	league.WR:   {24, 29, 0.08},
	league.TE:   {25, 29, 0.08},
	league.OT:   {25, 31, 0.06},
	league.OG:   {25, 31, 0.06},
	league.C:    {25, 31, 0.06},
	league.EDGE: {24, 29, 0.08},
	league.DT:   {25, 30, 0.07},
	league.LB:   {24, 29, 0.08},
	league.CB:   {23, 28, 0.09},
	league.S:    {24, 29, 0.08},
	league.K:    {25, 35, 0.04},
	league.P:    {25, 35, 0.04},
}

var defaultAgeProfile = ageProfile{24, 29, 0.08}

// Calculator values players and picks. Build with New; the pick chart is
// computed once and never mutated afterward.
type Calculator struct {
	standings league.Standings // Optional; nil falls back to mid-round slots
	chart     []float64        // Index i = value of overall pick i+1
}

// New builds a Calculator. standings may be nil; pick projections then
// assume a mid-round slot for unprojected picks.
func New(standings league.Standings) *Calculator {
	return &Calculator{
		standings: standings,
		chart:     buildPickChart(),
	}
}

// PlayerValue computes a player's trade value:
// base(rating) x positionTier x ageCurve x contractQuality x needMultiplier.
// needs is the acquiring team's positional urgency; pass nil when no needs
// source exists and the multiplier is skipped entirely.
func (c *Calculator) PlayerValue(p *league.Player, needs map[league.Position]league.NeedLevel) float64 {
	v := baseValue(p.Overall)
	if v == 0 {
		return 0
	}
	if tier, ok := positionTiers[p.Position]; ok {
		v *= tier
	}
	v *= ageCurve(p.Position, p.Age)
	v *= contractQuality(p.Overall, p.ContractYears, p.CapHit)
	if needs != nil {
		v *= needMultiplier(needs[p.Position])
	}
	return v
}

// baseValue is the rating power curve: zero at or below the floor, then
// (rating-50)^1.8 scaled so an average starter (~75) lands near 100 units.
func baseValue(overall int) float64 {
	if overall <= ratingFloor {
		return 0
	}
	return math.Pow(float64(overall-ratingFloor), ratingExponent) / ratingDivisor
}

// ageCurve returns 1.0 inside the position's peak window, a small discount
// per year short of it (floor 0.80), and a position-specific decline per
// year past it (floor 0.40).
func ageCurve(pos league.Position, age int) float64 {
	prof, ok := ageProfiles[pos]
	if !ok {
		prof = defaultAgeProfile
	}
	switch {
	case age < prof.peakStart:
		m := 1.0 - prePeakPerYear*float64(prof.peakStart-age)
		return math.Max(m, prePeakFloor)
	case age > prof.peakEnd:
		m := 1.0 - prof.decline*float64(age-prof.peakEnd)
		return math.Max(m, declineFloor)
	default:
		return 1.0
	}
}

// fairAAV is the annual contract value a rating should command, in the same
// millions unit as cap hits.
func fairAAV(overall int) float64 {
	if overall <= ratingFloor {
		return 0.8
	}
	return math.Pow(float64(overall-ratingFloor), 2) / 55.0
}

// contractQuality compares the fair annual value implied by the rating to
// the actual cap hit, then folds in remaining length. Missing contract data
// neutralizes the whole factor.
func contractQuality(overall, yearsLeft int, capHit float64) float64 {
	if yearsLeft == 0 || capHit <= 0 {
		return 1.0
	}

	ratio := fairAAV(overall) / capHit
	var quality float64
	switch {
	case ratio >= 1.5:
		quality = 1.20 // Bargain
	case ratio >= 1.2:
		quality = 1.10
	case ratio >= 0.8:
		quality = 1.00
	case ratio >= 0.6:
		quality = 0.90
	default:
		quality = 0.70 // Albatross
	}

	var length float64
	switch {
	case yearsLeft == 1:
		length = 0.85 // Rental
	case yearsLeft <= 3:
		length = 1.00
	case yearsLeft <= 5:
		length = 0.95
	default:
		length = 0.85
	}

	return quality * length
}

// needMultiplier scales value by the acquiring team's urgency at the
// player's position, from 0.7 (no need) to 1.3 (critical).
func needMultiplier(level league.NeedLevel) float64 {
	switch level {
	case league.NeedCritical:
		return 1.3
	case league.NeedStarter:
		return 1.15
	case league.NeedDepth:
		return 1.0
	default:
		return 0.7
	}
}
