package trade

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Convergence tuning.
const (
	DefaultMaxRounds   = 4    // Includes the opening offer
	minProgressShrink  = 0.05 // Each counter must close the gap by 5%
	oscillationEpsilon = 0.02 // New ratio within 2% of two rounds back = loop
)

// Negotiator drives a proposal to a terminal outcome. All collaborators are
// injected: the evaluator judges, the band/pool/context funcs describe each
// team, and counter generation does the bridging. One negotiation is a
// single synchronous call bounded by MaxRounds; no external cancellation
// exists or is needed.
type Negotiator struct {
	MaxRounds int
	Evaluator Evaluator

	// BandFor returns a team's acceptance band on its perceived ratio.
	BandFor func(team league.TeamID) (min, max float64)

	// PoolFor returns owner's tradable assets valued from acquirer's chair.
	PoolFor func(owner, acquirer league.TeamID) []Asset

	// ArchetypeFor returns the personality running a team.
	ArchetypeFor func(team league.TeamID) league.Archetype

	// ContextFor returns a team's situational snapshot; may return nil.
	ContextFor func(team league.TeamID) *league.TeamContext
}

// Negotiate runs the multi-round loop: both sides evaluate each proposal,
// counters bridge disagreements, and the loop terminates on acceptance,
// rejection, stalemate, or round exhaustion. Every proposal produced along
// the way is retained in the result history.
func (n *Negotiator) Negotiate(initial *Proposal) (*NegotiationResult, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: nil initial proposal", ErrInvalidProposal)
	}
	if initial.TotalA <= 0 || initial.TotalB <= 0 {
		return nil, fmt.Errorf("%w: both sides need positive value", ErrInvalidProposal)
	}
	maxRounds := n.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	history := make([]*Proposal, 0, maxRounds)
	current := initial
	initiator := initial.TeamA

	for round := 1; round <= maxRounds; round++ {
		history = append(history, current)

		decA, err := n.evaluate(current, current.TeamA)
		if err != nil {
			return nil, err
		}
		decB, err := n.evaluate(current, current.TeamB)
		if err != nil {
			return nil, err
		}

		// Explicit rejection ends it, attributed to the rejecting side.
		if decA.Type == Reject {
			return n.failed(OutcomeRejected, current.TeamA, decA.Reasoning, round, history), nil
		}
		if decB.Type == Reject {
			return n.failed(OutcomeRejected, current.TeamB, decB.Reasoning, round, history), nil
		}

		// At least one acceptance and no rejection: the deal stands.
		// A lone counter against an acceptance does not reopen it.
		if decA.Type == Accept || decB.Type == Accept {
			return &NegotiationResult{
				Success: true,
				Final:   current,
				Rounds:  round,
				Reason:  OutcomeAccepted,
				History: history,
			}, nil
		}

		// Both want a counter. The last evaluated round may not generate one.
		if round == maxRounds {
			break
		}

		counterer := pickCounterer(current, decA, decB, initiator)
		perceived := decA.PerceivedRatio
		if counterer == current.TeamB {
			perceived = decB.PerceivedRatio
		}

		next, imp, err := n.generateNext(current, counterer, perceived, history)
		if err != nil {
			return nil, err
		}
		if imp != nil {
			slog.Debug("negotiation impasse", "team", counterer, "reason", imp.Reason.String(), "detail", imp.Detail)
			return n.failed(OutcomeStalemate, "", imp.String(), round, history), nil
		}

		// Progress guards: the counter must move the ratio meaningfully
		// toward even, and must not swing back to where it stood two
		// rounds ago.
		prevDev := math.Abs(current.Ratio - 1.0)
		newDev := math.Abs(next.Ratio - 1.0)
		if prevDev > 0 && newDev > prevDev*(1.0-minProgressShrink) {
			history = append(history, next)
			return n.failed(OutcomeStalemate, "", "counter failed to narrow the gap", round, history), nil
		}
		if len(history) >= 2 {
			twoBack := history[len(history)-2].Ratio
			if math.Abs(next.Ratio-twoBack) <= oscillationEpsilon*twoBack {
				history = append(history, next)
				return n.failed(OutcomeStalemate, "", "offers are oscillating", round, history), nil
			}
		}

		current = next
	}

	return &NegotiationResult{
		Success: false,
		Rounds:  maxRounds,
		Reason:  OutcomeMaxRounds,
		History: history,
	}, nil
}

func (n *Negotiator) evaluate(p *Proposal, team league.TeamID) (*Decision, error) {
	dec, err := n.Evaluator.Evaluate(p, team)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", team, err)
	}
	if err := dec.Validate(); err != nil {
		return nil, err
	}
	return dec, nil
}

// pickCounterer chooses which of two would-be counterers goes: the side
// whose perceived ratio deviates more from even. Ties favor the initiator.
func pickCounterer(p *Proposal, decA, decB *Decision, initiator league.TeamID) league.TeamID {
	devA := math.Abs(decA.PerceivedRatio - 1.0)
	devB := math.Abs(decB.PerceivedRatio - 1.0)
	switch {
	case devA > devB:
		return p.TeamA
	case devB > devA:
		return p.TeamB
	default:
		return initiator
	}
}

// generateNext frames the counter: a side perceiving itself underpaid
// demands assets from the opponent's pool; a side perceiving itself
// overpaid sweetens its own side instead.
func (n *Negotiator) generateNext(current *Proposal, counterer league.TeamID, perceived float64, history []*Proposal) (*Proposal, *Impasse, error) {
	bandMin, bandMax := n.BandFor(counterer)
	opponent := current.Opponent(counterer)

	acquirer := counterer
	owner := opponent
	if perceived >= bandMin {
		acquirer = opponent
		owner = counterer
	}

	return GenerateCounter(CounterInput{
		Proposal:       current,
		ByTeam:         counterer,
		PerceivedRatio: perceived,
		BandMin:        bandMin,
		BandMax:        bandMax,
		Acquirer:       acquirer,
		Pool:           n.PoolFor(owner, acquirer),
		Archetype:      n.ArchetypeFor(acquirer),
		Context:        n.ContextFor(acquirer),
		History:        history,
	})
}

func (n *Negotiator) failed(reason Outcome, rejectedBy league.TeamID, detail string, rounds int, history []*Proposal) *NegotiationResult {
	return &NegotiationResult{
		Success:    false,
		Rounds:     rounds,
		Reason:     reason,
		RejectedBy: rejectedBy,
		Detail:     detail,
		History:    history,
	}
}
