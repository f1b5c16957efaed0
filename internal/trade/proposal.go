package trade

import (
	"strings"
	"time"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Proposal is one two-sided offer: TeamA sends AssetsFromA and receives
// AssetsFromB. A proposal is immutable once built; each negotiation round
// constructs a new one, so a negotiation is an append-only sequence.
type Proposal struct {
	TeamA       league.TeamID `json:"team_a"`
	TeamB       league.TeamID `json:"team_b"`
	AssetsFromA []Asset       `json:"assets_from_a"`
	AssetsFromB []Asset       `json:"assets_from_b"`
	TotalA      float64       `json:"total_a"`
	TotalB      float64       `json:"total_b"`
	Ratio       float64       `json:"ratio"` // TotalB / TotalA
	Fairness    Fairness      `json:"fairness"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewProposal builds a proposal and computes its totals, ratio, and
// fairness. A zero TotalA yields a zero ratio; callers validate totals
// before acting on the proposal.
func NewProposal(teamA, teamB league.TeamID, fromA, fromB []Asset) *Proposal {
	p := &Proposal{
		TeamA:       teamA,
		TeamB:       teamB,
		AssetsFromA: fromA,
		AssetsFromB: fromB,
		TotalA:      TotalValue(fromA),
		TotalB:      TotalValue(fromB),
		CreatedAt:   time.Now().UTC(),
	}
	if p.TotalA > 0 {
		p.Ratio = p.TotalB / p.TotalA
	}
	p.Fairness = ClassifyRatio(p.Ratio)
	return p
}

// Involves reports whether team is a party to the proposal.
func (p *Proposal) Involves(team league.TeamID) bool {
	return team == p.TeamA || team == p.TeamB
}

// Opponent returns the other party. Empty when team is not involved.
func (p *Proposal) Opponent(team league.TeamID) league.TeamID {
	switch team {
	case p.TeamA:
		return p.TeamB
	case p.TeamB:
		return p.TeamA
	}
	return ""
}

// Gives returns the assets team sends away.
func (p *Proposal) Gives(team league.TeamID) []Asset {
	if team == p.TeamA {
		return p.AssetsFromA
	}
	return p.AssetsFromB
}

// Receives returns the assets team acquires.
func (p *Proposal) Receives(team league.TeamID) []Asset {
	if team == p.TeamA {
		return p.AssetsFromB
	}
	return p.AssetsFromA
}

// RatioFor returns the objective value ratio from team's side:
// received total over given total. TeamA sees Ratio, TeamB its reciprocal.
func (p *Proposal) RatioFor(team league.TeamID) float64 {
	if team == p.TeamA {
		return p.Ratio
	}
	if p.TotalB == 0 {
		return 0
	}
	return p.TotalA / p.TotalB
}

// StructuralKey is a normalized fingerprint of the proposal's asset sets,
// used to reject a counter that re-offers an already-seen package.
func (p *Proposal) StructuralKey() string {
	return string(p.TeamA) + "[" + strings.Join(keySet(p.AssetsFromA), ",") + "]" +
		string(p.TeamB) + "[" + strings.Join(keySet(p.AssetsFromB), ",") + "]"
}
