package gm

import (
	"fmt"

	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/trade"
)

// Evaluator thresholds. A perceived ratio too far outside the band is a
// hard pass; anything else out of band draws a counter.
const (
	rejectBelowFactor = 0.72 // Reject below bandMin * this
	rejectAboveFactor = 1.35 // Reject above bandMax * this
	starOverall       = 88
)

// ArchetypeEvaluator turns an archetype's traits into accept/reject/counter
// judgments. It is one implementation of the trade.Evaluator strategy
// boundary; the engine only ever sees the interface.
type ArchetypeEvaluator struct {
	Archetypes league.ArchetypeProvider

	// ContextFor supplies the team's situation for need-fit perception.
	// Optional; nil means perception works from the objective ratio alone.
	ContextFor func(team league.TeamID) *league.TeamContext
}

// Evaluate implements trade.Evaluator.
func (e *ArchetypeEvaluator) Evaluate(p *trade.Proposal, team league.TeamID) (*trade.Decision, error) {
	if !p.Involves(team) {
		return nil, fmt.Errorf("%w: %s", trade.ErrNotParty, team)
	}
	arch, err := e.Archetypes.ArchetypeFor(team)
	if err != nil {
		return nil, fmt.Errorf("archetype for %s: %w", team, err)
	}

	objective := p.RatioFor(team)
	perceived := e.perceive(p, team, arch, objective)
	bandMin, bandMax := arch.AcceptBand()

	switch {
	case perceived >= bandMin && perceived <= bandMax:
		conf := 0.95 - 2.0*abs(perceived-1.0)
		if conf < 0.55 {
			conf = 0.55
		}
		return &trade.Decision{
			Type:           trade.Accept,
			Confidence:     conf,
			Reasoning:      fmt.Sprintf("%s sees a %.2f return and is comfortable", arch.Name, perceived),
			PerceivedRatio: perceived,
		}, nil

	case perceived < bandMin*rejectBelowFactor || perceived > bandMax*rejectAboveFactor:
		return &trade.Decision{
			Type:           trade.Reject,
			Confidence:     0.9,
			Reasoning:      fmt.Sprintf("%s sees a %.2f return, too lopsided to negotiate", arch.Name, perceived),
			PerceivedRatio: perceived,
		}, nil

	default:
		return &trade.Decision{
			Type:           trade.CounterOffer,
			Confidence:     0.6,
			Reasoning:      fmt.Sprintf("%s sees a %.2f return and wants the terms adjusted", arch.Name, perceived),
			PerceivedRatio: perceived,
		}, nil
	}
}

// perceive nudges the objective ratio by personality and fit: incoming
// stars flatter a star chaser, incoming picks flatter a pick hoarder, and
// assets that fill a pressing need read better than their raw value.
func (e *ArchetypeEvaluator) perceive(p *trade.Proposal, team league.TeamID, arch league.Archetype, objective float64) float64 {
	perceived := objective

	var ctx *league.TeamContext
	if e.ContextFor != nil {
		ctx = e.ContextFor(team)
	}

	for _, a := range p.Receives(team) {
		switch a.Kind {
		case trade.KindPick:
			perceived *= 1.0 + 0.04*(arch.DraftPickAffinity-0.5)
		case trade.KindPlayer:
			if a.Overall >= starOverall {
				perceived *= 1.0 + 0.05*arch.StarChasing
			}
			if ctx != nil && ctx.Need(a.Position) == league.NeedCritical {
				perceived *= 1.05
			}
		}
	}
	return perceived
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
