package trade

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Counter-generation tuning.
const (
	bandMargin       = 0.03 // Target ratio sits this far inside the band
	minMeaningfulGap = 25.0 // Smaller gaps aren't worth an asset
	maxGapMultiple   = 3.0  // Gap larger than 3x the light side is unbridgeable
	poolCoverage     = 0.5  // Pool must carry at least half the gap
	maxPackageAssets = 3
	overshootLimit   = 1.5  // Don't add an asset that blows 50% past the gap
	closeEnoughFrac  = 0.8  // Stop stacking once within 20% of the gap
	minGapCoverage   = 0.30 // Selected assets must cover 30% of the gap
	capBuffer        = 1.10 // Added cap hits may exceed space by 10%
	highCapHit       = 15.0 // Millions; cap-disciplined GMs won't touch above this
)

// CounterInput carries everything needed to construct one counter-offer.
// Acquirer is the team that would receive the added assets; Pool holds the
// other side's tradable assets, already valued from the acquirer's chair.
type CounterInput struct {
	Proposal       *Proposal
	ByTeam         league.TeamID // The side generating the counter
	PerceivedRatio float64       // ByTeam's perceived received/given ratio
	BandMin        float64       // ByTeam's acceptance band
	BandMax        float64
	Acquirer       league.TeamID
	Pool           []Asset
	Archetype      league.Archetype    // Acquirer's personality
	Context        *league.TeamContext // Acquirer's situation; nil skips cap/need logic
	History        []*Proposal         // Prior proposals, for loop prevention
}

// GenerateCounter builds a new proposal that bridges the value gap of a
// rejected one. Invalid input comes back as an error; an inability to
// construct a viable counter comes back as an Impasse, which is an expected
// negotiation outcome rather than a defect.
func GenerateCounter(in CounterInput) (*Proposal, *Impasse, error) {
	p := in.Proposal
	if p == nil || p.TotalA <= 0 || p.TotalB <= 0 {
		return nil, nil, fmt.Errorf("%w: both sides need positive value", ErrInvalidProposal)
	}
	if in.PerceivedRatio == 0 {
		return nil, nil, fmt.Errorf("%w: missing perceived ratio", ErrInvalidDecision)
	}
	if !p.Involves(in.ByTeam) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotParty, in.ByTeam)
	}

	given := TotalValue(p.Gives(in.ByTeam))
	received := TotalValue(p.Receives(in.ByTeam))

	// Aim just inside the band and compute the value that must move. Under
	// the band, ByTeam demands more from the opponent; over it, ByTeam
	// sweetens its own side.
	var gap, lightTotal float64
	if in.PerceivedRatio < in.BandMin {
		target := in.BandMin + bandMargin
		gap = target*given - received
		lightTotal = received
	} else {
		target := in.BandMax - bandMargin
		gap = received/target - given
		lightTotal = given
	}

	if gap < minMeaningfulGap {
		return nil, &Impasse{ImpasseGapTooSmall, fmt.Sprintf("gap %.0f below the minimum meaningful asset", gap)}, nil
	}
	if gap > maxGapMultiple*lightTotal {
		return nil, &Impasse{ImpasseGapTooLarge, fmt.Sprintf("gap %.0f exceeds 3x the light side (%.0f)", gap, lightTotal)}, nil
	}

	pool := filterPool(excludeProposalAssets(in.Pool, p), in.Archetype)
	if TotalValue(pool) < gap*poolCoverage {
		return nil, &Impasse{ImpassePoolTooThin, fmt.Sprintf("pool carries %.0f of a %.0f gap", TotalValue(pool), gap)}, nil
	}

	selected := selectPackage(pool, gap, in.Archetype, in.Context)
	selectedTotal := TotalValue(selected)
	if selectedTotal < minGapCoverage*gap {
		return nil, &Impasse{ImpasseNoViablePackage,
			fmt.Sprintf("best package covers %s of a %s gap",
				humanize.CommafWithDigits(selectedTotal, 0), humanize.CommafWithDigits(gap, 0))}, nil
	}

	counter := buildCounter(p, in.Acquirer, selected)

	if in.Context != nil && in.Context.CapSpace > 0 {
		var addedCap float64
		for i := range selected {
			if selected[i].Kind == KindPlayer {
				addedCap += selected[i].CapHit
			}
		}
		if addedCap > in.Context.CapSpace*capBuffer {
			return nil, &Impasse{ImpasseCapOverrun,
				fmt.Sprintf("package adds $%.1fM against $%.1fM of space", addedCap, in.Context.CapSpace)}, nil
		}
	}

	key := counter.StructuralKey()
	for _, prior := range append(in.History, p) {
		if prior.StructuralKey() == key {
			return nil, &Impasse{ImpasseDuplicateOffer, "counter repeats an earlier package"}, nil
		}
	}

	return counter, nil, nil
}

// excludeProposalAssets drops pool entries already on the table.
func excludeProposalAssets(pool []Asset, p *Proposal) []Asset {
	inPlay := make(map[string]bool)
	for i := range p.AssetsFromA {
		inPlay[p.AssetsFromA[i].Key()] = true
	}
	for i := range p.AssetsFromB {
		inPlay[p.AssetsFromB[i].Key()] = true
	}
	out := make([]Asset, 0, len(pool))
	for i := range pool {
		if !inPlay[pool[i].Key()] {
			out = append(out, pool[i])
		}
	}
	return out
}

// filterPool applies the acquiring GM's personality constraints.
// Cap-disciplined GMs won't take on big contracts; win-now GMs only want
// players in their prime; risk-averse GMs avoid unproven youth. Picks pass
// the age filters untouched.
func filterPool(pool []Asset, arch league.Archetype) []Asset {
	out := make([]Asset, 0, len(pool))
	for i := range pool {
		a := pool[i]
		if a.Kind == KindPlayer {
			if arch.CapDiscipline > 0.7 && a.CapHit > highCapHit {
				continue
			}
			if arch.WinNowUrgency > 0.7 && (a.Age < 25 || a.Age > 32) {
				continue
			}
			if arch.RiskTolerance < 0.3 && a.Age < 25 {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// preferenceScore weights an asset's raw value by the acquiring GM's
// tastes and the acquiring team's positional needs.
func preferenceScore(a *Asset, arch league.Archetype, ctx *league.TeamContext) float64 {
	score := a.Value
	if a.Kind == KindPick {
		switch {
		case arch.DraftPickAffinity > 0.6:
			score *= 2.0
		case arch.DraftPickAffinity < 0.4:
			score *= 0.5
		}
		return score
	}
	if arch.StarChasing > 0.6 && a.Overall >= 88 {
		score *= 1.5
	}
	if arch.VeteranPreference > 0.6 && a.Age >= 28 {
		score *= 1.3
	} else if arch.VeteranPreference < 0.4 && a.Age <= 24 {
		score *= 1.3
	}
	if arch.PremiumPositionFocus > 0.6 && league.IsPremium(a.Position) {
		score *= 1.2
	}
	if ctx != nil && ctx.Need(a.Position) >= league.NeedStarter {
		score *= 1.3
	}
	return score
}

// selectPackage greedily stacks the highest-preference assets until the gap
// is close enough, capped at three pieces. Falls back to the single best
// asset when nothing stacks cleanly.
func selectPackage(pool []Asset, gap float64, arch league.Archetype, ctx *league.TeamContext) []Asset {
	if len(pool) == 0 {
		return nil
	}

	ranked := make([]Asset, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return preferenceScore(&ranked[i], arch, ctx) > preferenceScore(&ranked[j], arch, ctx)
	})

	var selected []Asset
	var total float64
	for i := range ranked {
		if len(selected) == maxPackageAssets || total >= gap*closeEnoughFrac {
			break
		}
		if total+ranked[i].Value > gap*overshootLimit {
			continue
		}
		selected = append(selected, ranked[i])
		total += ranked[i].Value
	}

	if len(selected) == 0 {
		selected = ranked[:1]
	}
	return selected
}

// buildCounter constructs the next proposal by adding the selected assets
// to the acquirer's incoming side. The prior proposal is left untouched.
func buildCounter(p *Proposal, acquirer league.TeamID, added []Asset) *Proposal {
	for i := range added {
		added[i].ToTeam = acquirer
	}

	fromA := append([]Asset(nil), p.AssetsFromA...)
	fromB := append([]Asset(nil), p.AssetsFromB...)
	if acquirer == p.TeamA {
		fromB = append(fromB, added...)
	} else {
		fromA = append(fromA, added...)
	}
	return NewProposal(p.TeamA, p.TeamB, fromA, fromB)
}
