// Package draft hosts the draft-day trade desk: while the human team is on
// the clock, it generates AI trade-up offers from teams picking later and
// recommends a response.
package draft

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/trade"
	"github.com/talgya/dynasty-gm/internal/trade/value"
)

// Trade-up mechanics.
const (
	sweetSpotMin = 5  // Partners pick at least this many slots later
	sweetSpotMax = 15 // ...and at most this many
	minGapCover  = 0.8
	maxExtras    = 3 // Compensation picks beyond the one on the table
)

// Recommendation bands on the human side's value ratio.
const (
	clearWinRatio = 1.15
	leanWinRatio  = 1.05
	standPatRatio = 0.95
)

// PickSource supplies draft-pick state for offer generation.
type PickSource interface {
	PicksInRound(year, round int) ([]*league.DraftPick, error)
	TeamPicks(team league.TeamID) ([]*league.DraftPick, error)
}

// Verdict is the advisor's bottom line.
type Verdict uint8

const (
	VerdictAccept Verdict = iota
	VerdictReject
)

func (v Verdict) String() string {
	if v == VerdictAccept {
		return "accept"
	}
	return "reject"
}

// Recommendation pairs the verdict with its confidence and a rationale the
// human can read on the clock.
type Recommendation struct {
	Verdict    Verdict `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Offer is one AI team's trade-up package for the human's pick.
type Offer struct {
	Partner        league.TeamID   `json:"partner"`
	Proposal       *trade.Proposal `json:"proposal"`
	Ratio          float64         `json:"ratio"` // Human side: received / given
	Recommendation Recommendation  `json:"recommendation"`
}

// Advisor builds trade-up offers and grades them for the human team.
type Advisor struct {
	Calc   *value.Calculator
	Picks  PickSource
	Season int
}

// TradeUpOffers scans the sweet-spot window behind the human's pick for
// candidate partners and assembles a compensation package from each. Offers
// are returned best ratio first.
func (a *Advisor) TradeUpOffers(humanTeam league.TeamID, humanPick *league.DraftPick, rebuilding bool) ([]Offer, error) {
	if humanPick.CurrentTeam != humanTeam {
		return nil, fmt.Errorf("%w: pick %d/%d belongs to %s",
			trade.ErrInvalidProposal, humanPick.Year, humanPick.Round, humanPick.CurrentTeam)
	}

	roundPicks, err := a.Picks.PicksInRound(humanPick.Year, humanPick.Round)
	if err != nil {
		return nil, fmt.Errorf("scan round %d: %w", humanPick.Round, err)
	}

	humanValue := a.Calc.PickValue(humanPick, a.Season)
	var offers []Offer
	for _, candidate := range roundPicks {
		behind := candidate.ProjectedOverall - humanPick.ProjectedOverall
		if candidate.Completed || candidate.CurrentTeam == humanTeam ||
			behind < sweetSpotMin || behind > sweetSpotMax {
			continue
		}

		offer, ok := a.buildOffer(humanTeam, humanPick, humanValue, candidate, rebuilding)
		if ok {
			offers = append(offers, offer)
		}
	}

	sort.SliceStable(offers, func(i, j int) bool { return offers[i].Ratio > offers[j].Ratio })
	return offers, nil
}

// buildOffer assembles one partner's package: their sweet-spot pick plus
// their own future picks, most valuable first, until the value gap to the
// human's slot is at least 80% covered.
func (a *Advisor) buildOffer(humanTeam league.TeamID, humanPick *league.DraftPick, humanValue float64, partnerPick *league.DraftPick, rebuilding bool) (Offer, bool) {
	partner := partnerPick.CurrentTeam
	partnerValue := a.Calc.PickValue(partnerPick, a.Season)
	gap := humanValue - partnerValue

	incoming := []trade.Asset{trade.PickAsset(partnerPick, humanTeam, partnerValue)}

	if gap > 0 {
		extras, err := a.Picks.TeamPicks(partner)
		if err != nil {
			return Offer{}, false
		}

		type valued struct {
			pick *league.DraftPick
			val  float64
		}
		var pool []valued
		for _, p := range extras {
			if p.Completed {
				continue
			}
			if p.Year == partnerPick.Year && p.Round == partnerPick.Round && p.OriginalTeam == partnerPick.OriginalTeam {
				continue // Already on the table
			}
			pool = append(pool, valued{p, a.Calc.PickValue(p, a.Season)})
		}
		// Earliest slots carry the most value, so this is ascending pick order.
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].val > pool[j].val })

		var covered float64
		for _, v := range pool {
			if covered >= gap*minGapCover || len(incoming) > maxExtras {
				break
			}
			incoming = append(incoming, trade.PickAsset(v.pick, humanTeam, v.val))
			covered += v.val
		}
		if covered < gap*minGapCover {
			return Offer{}, false
		}
	}

	outgoing := []trade.Asset{trade.PickAsset(humanPick, partner, humanValue)}
	proposal := trade.NewProposal(humanTeam, partner, outgoing, incoming)
	ratio := proposal.RatioFor(humanTeam)

	return Offer{
		Partner:        partner,
		Proposal:       proposal,
		Ratio:          ratio,
		Recommendation: recommend(ratio, rebuilding, proposal),
	}, true
}

// recommend grades an offer for the human side with fixed ratio bands.
func recommend(ratio float64, rebuilding bool, p *trade.Proposal) Recommendation {
	gained := humanize.CommafWithDigits(p.TotalB-p.TotalA, 0)
	switch {
	case ratio >= clearWinRatio:
		return Recommendation{
			Verdict:    VerdictAccept,
			Confidence: 0.9,
			Rationale: fmt.Sprintf("Clear value win: the package returns %.0f%% of your pick's worth, a %s point surplus. Take it.",
				ratio*100, gained),
		}
	case ratio >= leanWinRatio:
		if rebuilding {
			return Recommendation{
				Verdict:    VerdictAccept,
				Confidence: 0.6,
				Rationale: fmt.Sprintf("Modest %.0f%% return, but extra draft capital fits a rebuild. Lean accept.",
					ratio*100),
			}
		}
		return Recommendation{
			Verdict:    VerdictReject,
			Confidence: 0.6,
			Rationale: fmt.Sprintf("Only a %.0f%% return. A contender should keep the higher pick and take its player.",
				ratio*100),
		}
	case ratio >= standPatRatio:
		return Recommendation{
			Verdict:    VerdictReject,
			Confidence: 0.7,
			Rationale:  "The package is a wash. Stand pat and make your selection.",
		}
	default:
		return Recommendation{
			Verdict:    VerdictReject,
			Confidence: 0.9,
			Rationale: fmt.Sprintf("Light package: it returns just %.0f%% of your pick's value. Easy pass.",
				ratio*100),
		}
	}
}
