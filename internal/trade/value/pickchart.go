package value

import (
	"math"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Pick chart constants.
const (
	chartScale         = 1.0 / 7.5 // Brings pick values into player-value units
	lastChartedPick    = 192
	lateDecay          = 0.95 // Per-pick geometric decay past the charted range
	futureYearDiscount = 0.95 // Per year out
	wideRangePicks     = 15   // Projection range wider than this discounts 10%
	moderateRangePicks = 8    // Wider than this discounts 5%
	picksPerRound      = 32
)

// chartBreakpoints are the raw reference values at the documented overall
// picks; values between breakpoints interpolate linearly. After chartScale
// the top pick lands near an elite young player (~400 units).
var chartBreakpoints = []struct {
	pick  int
	value float64
}{
	{1, 3000},
	{32, 820},
	{64, 450},
	{96, 240},
	{128, 135},
	{160, 75},
	{192, 45},
}

// buildPickChart precomputes scaled values for picks 1..192. Later picks
// are derived geometrically at lookup time.
func buildPickChart() []float64 {
	chart := make([]float64, lastChartedPick)
	for seg := 0; seg < len(chartBreakpoints)-1; seg++ {
		lo, hi := chartBreakpoints[seg], chartBreakpoints[seg+1]
		span := float64(hi.pick - lo.pick)
		for p := lo.pick; p <= hi.pick; p++ {
			t := float64(p-lo.pick) / span
			chart[p-1] = (lo.value + t*(hi.value-lo.value)) * chartScale
		}
	}
	return chart
}

// chartValue returns the value of an overall pick number.
func (c *Calculator) chartValue(overall int) float64 {
	if overall < 1 {
		overall = 1
	}
	if overall <= lastChartedPick {
		return c.chart[overall-1]
	}
	return c.chart[lastChartedPick-1] * math.Pow(lateDecay, float64(overall-lastChartedPick))
}

// PickValue computes a draft pick's trade value for the given current
// season: chart value at the projected slot, discounted for years out and
// projection uncertainty.
func (c *Calculator) PickValue(pick *league.DraftPick, season int) float64 {
	overall := pick.ProjectedOverall
	if overall == 0 {
		overall = c.projectOverall(pick)
	}

	v := c.chartValue(overall)

	if yearsOut := pick.Year - season; yearsOut > 0 {
		v *= math.Pow(futureYearDiscount, float64(yearsOut))
	}

	switch r := pick.Range(); {
	case r > wideRangePicks:
		v *= 0.90
	case r > moderateRangePicks:
		v *= 0.95
	}

	return v
}

// projectOverall estimates a pick's overall number from the record of the
// team whose slot it is: the worse the record, the earlier the slot within
// the round.
func (c *Calculator) projectOverall(pick *league.DraftPick) int {
	slot := picksPerRound / 2
	if c.standings != nil {
		if winPct, err := c.standings.WinPct(pick.OriginalTeam); err == nil {
			slot = int(math.Round(winPct*31)) + 1
			if slot < 1 {
				slot = 1
			}
			if slot > picksPerRound {
				slot = picksPerRound
			}
		}
	}
	return (pick.Round-1)*picksPerRound + slot
}
