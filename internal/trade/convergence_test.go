package trade

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/talgya/dynasty-gm/internal/league"
)

type evalFunc func(p *Proposal, team league.TeamID) (*Decision, error)

func (f evalFunc) Evaluate(p *Proposal, team league.TeamID) (*Decision, error) {
	return f(p, team)
}

// bandEvaluator accepts inside [0.9, 1.1] on the objective ratio and
// counters outside it. Never rejects.
func bandEvaluator() Evaluator {
	return evalFunc(func(p *Proposal, team league.TeamID) (*Decision, error) {
		r := p.RatioFor(team)
		if r >= 0.9 && r <= 1.1 {
			return &Decision{Type: Accept, Confidence: 0.9, PerceivedRatio: r}, nil
		}
		return &Decision{Type: CounterOffer, Confidence: 0.6, PerceivedRatio: r}, nil
	})
}

func testNegotiator(eval Evaluator, pool []Asset) *Negotiator {
	return &Negotiator{
		Evaluator: eval,
		BandFor:   func(league.TeamID) (float64, float64) { return 0.9, 1.1 },
		PoolFor: func(owner, acquirer league.TeamID) []Asset {
			return append([]Asset(nil), pool...)
		},
		ArchetypeFor: func(league.TeamID) league.Archetype { return balanced() },
		ContextFor:   func(league.TeamID) *league.TeamContext { return nil },
	}
}

func TestNegotiate_InvalidProposal(t *testing.T) {
	n := testNegotiator(bandEvaluator(), nil)
	if _, err := n.Negotiate(nil); !errors.Is(err, ErrInvalidProposal) {
		t.Fatalf("nil: err=%v want ErrInvalidProposal", err)
	}

	// A one-sided opening offer never reaches the evaluators.
	oneSided := NewProposal("AUS", "BKN",
		[]Asset{{Kind: KindPlayer, PlayerID: 1, Name: "A", Value: 300, ToTeam: "BKN"}},
		nil,
	)
	if _, err := n.Negotiate(oneSided); !errors.Is(err, ErrInvalidProposal) {
		t.Fatalf("zero total: err=%v want ErrInvalidProposal", err)
	}
}

func TestNegotiate_MutualAcceptFirstRound(t *testing.T) {
	p := NewProposal("AUS", "BKN",
		[]Asset{{Kind: KindPlayer, PlayerID: 1, Name: "A", Value: 300, ToTeam: "BKN"}},
		[]Asset{{Kind: KindPlayer, PlayerID: 2, Name: "B", Value: 295, ToTeam: "AUS"}},
	)
	res, err := testNegotiator(bandEvaluator(), nil).Negotiate(p)
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if !res.Success || res.Reason != OutcomeAccepted {
		t.Fatalf("res=%+v want accepted", res)
	}
	if res.Rounds != 1 || res.Final != p || len(res.History) != 1 {
		t.Fatalf("rounds=%d final=%p history=%d want first-round close", res.Rounds, res.Final, len(res.History))
	}
}

func TestNegotiate_RejectionAttributed(t *testing.T) {
	eval := evalFunc(func(p *Proposal, team league.TeamID) (*Decision, error) {
		if team == p.TeamB {
			return &Decision{Type: Reject, Confidence: 0.9, Reasoning: "not close", PerceivedRatio: 0.5}, nil
		}
		return &Decision{Type: Accept, Confidence: 0.9, PerceivedRatio: 2.0}, nil
	})
	res, err := testNegotiator(eval, nil).Negotiate(unevenProposal())
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if res.Success || res.Reason != OutcomeRejected {
		t.Fatalf("res=%+v want rejected", res)
	}
	if res.RejectedBy != league.TeamID("BKN") || res.Detail != "not close" {
		t.Fatalf("rejectedBy=%s detail=%q want BKN attribution", res.RejectedBy, res.Detail)
	}
	if res.Final != nil {
		t.Fatal("rejected negotiation must not carry a final proposal")
	}
}

func TestNegotiate_AcceptBeatsCounter(t *testing.T) {
	// One side accepts, the other wants more. The acceptance stands.
	eval := evalFunc(func(p *Proposal, team league.TeamID) (*Decision, error) {
		if team == p.TeamA {
			return &Decision{Type: Accept, Confidence: 0.8, PerceivedRatio: 1.02}, nil
		}
		return &Decision{Type: CounterOffer, Confidence: 0.5, PerceivedRatio: 0.85}, nil
	})
	res, err := testNegotiator(eval, nil).Negotiate(unevenProposal())
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if !res.Success || res.Reason != OutcomeAccepted || res.Rounds != 1 {
		t.Fatalf("res=%+v want first-round acceptance", res)
	}
}

func TestNegotiate_ConvergesAfterCounter(t *testing.T) {
	// AUS sends 300 for 200. BKN, the further-from-even side, must add
	// its 80-value player and both sides land inside the band.
	pool := []Asset{
		{Kind: KindPlayer, PlayerID: 3, Name: "C", Position: league.WR, Overall: 74, Age: 26, Value: 80},
	}
	res, err := testNegotiator(bandEvaluator(), pool).Negotiate(unevenProposal())
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if !res.Success || res.Reason != OutcomeAccepted {
		t.Fatalf("res=%+v want accepted", res)
	}
	if res.Rounds != 2 || len(res.History) != 2 {
		t.Fatalf("rounds=%d history=%d want one counter then a close", res.Rounds, len(res.History))
	}
	if res.Final.TotalB != 280 {
		t.Fatalf("final TotalB=%v want 280", res.Final.TotalB)
	}
	if math.Abs(res.Final.Ratio-280.0/300.0) > 1e-9 {
		t.Fatalf("final ratio=%v", res.Final.Ratio)
	}
}

func TestNegotiate_EmptyPoolStalemate(t *testing.T) {
	res, err := testNegotiator(bandEvaluator(), nil).Negotiate(unevenProposal())
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if res.Success || res.Reason != OutcomeStalemate {
		t.Fatalf("res=%+v want stalemate", res)
	}
	if res.Final != nil {
		t.Fatal("stalemate must not carry a final proposal")
	}
	if !strings.Contains(res.Detail, "pool_too_thin") {
		t.Fatalf("detail=%q want impasse reason", res.Detail)
	}
}

func TestNegotiate_ProgressGuardStalemate(t *testing.T) {
	// The only pool asset is far too big: the fallback single-asset
	// counter overshoots and the gap fails to narrow.
	pool := []Asset{
		{Kind: KindPlayer, PlayerID: 3, Name: "C", Position: league.TE, Overall: 82, Age: 27, Value: 200},
	}
	res, err := testNegotiator(bandEvaluator(), pool).Negotiate(unevenProposal())
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if res.Success || res.Reason != OutcomeStalemate {
		t.Fatalf("res=%+v want stalemate", res)
	}
	// The failed counter stays in the history for the audit trail.
	if len(res.History) != 2 {
		t.Fatalf("history=%d want the failed counter retained", len(res.History))
	}
}

func TestNegotiate_MaxRoundsExhausted(t *testing.T) {
	counterAlways := evalFunc(func(p *Proposal, team league.TeamID) (*Decision, error) {
		return &Decision{Type: CounterOffer, Confidence: 0.5, PerceivedRatio: p.RatioFor(team)}, nil
	})
	n := testNegotiator(counterAlways, nil)
	n.MaxRounds = 1
	res, err := n.Negotiate(unevenProposal())
	if err != nil {
		t.Fatalf("negotiate: %v", err)
	}
	if res.Success || res.Reason != OutcomeMaxRounds {
		t.Fatalf("res=%+v want max_rounds", res)
	}
	if res.Rounds != 1 || len(res.History) != 1 {
		t.Fatalf("rounds=%d history=%d want a single round", res.Rounds, len(res.History))
	}
}

func TestNegotiate_InvalidDecisionSurfaces(t *testing.T) {
	bad := evalFunc(func(p *Proposal, team league.TeamID) (*Decision, error) {
		return &Decision{Type: Accept, PerceivedRatio: 1.0, Counter: p}, nil
	})
	if _, err := testNegotiator(bad, nil).Negotiate(unevenProposal()); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("err=%v want ErrInvalidDecision", err)
	}
}
