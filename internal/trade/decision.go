package trade

import (
	"fmt"

	"github.com/talgya/dynasty-gm/internal/league"
)

// DecisionType is a GM's verdict on a proposal.
type DecisionType uint8

const (
	Accept DecisionType = iota
	Reject
	CounterOffer
)

func (d DecisionType) String() string {
	switch d {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "counter_offer"
	}
}

// Decision is one side's judgment of a proposal. Counter carries the
// suggested replacement offer and is only ever set for CounterOffer.
type Decision struct {
	Type           DecisionType `json:"type"`
	Confidence     float64      `json:"confidence"` // 0–1
	Reasoning      string       `json:"reasoning"`
	PerceivedRatio float64      `json:"perceived_ratio"`
	Counter        *Proposal    `json:"counter,omitempty"`
}

// Validate enforces the decision invariant: only a counter-offer may carry
// a counter-proposal.
func (d *Decision) Validate() error {
	if d.Type != CounterOffer && d.Counter != nil {
		return fmt.Errorf("%w: %s decision carries a counter-proposal", ErrInvalidDecision, d.Type)
	}
	return nil
}

// Evaluator is the strategy boundary: the GM-personality subsystem judges a
// proposal from one team's chair. The trade engine never looks inside.
type Evaluator interface {
	Evaluate(p *Proposal, team league.TeamID) (*Decision, error)
}

// Outcome is the terminal state of a negotiation.
type Outcome uint8

const (
	OutcomeAccepted Outcome = iota
	OutcomeRejected
	OutcomeStalemate
	OutcomeMaxRounds
	OutcomeNoProposal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeStalemate:
		return "stalemate"
	case OutcomeMaxRounds:
		return "max_rounds"
	default:
		return "no_proposal"
	}
}

// NegotiationResult is the terminal record of a negotiation. History holds
// every proposal exchanged in order; it is the audit trail and the input to
// duplicate-offer detection.
type NegotiationResult struct {
	Success    bool          `json:"success"`
	Final      *Proposal     `json:"final,omitempty"` // nil if no proposal survived
	Rounds     int           `json:"rounds"`
	Reason     Outcome       `json:"reason"`
	RejectedBy league.TeamID `json:"rejected_by,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	History    []*Proposal   `json:"history"`
}
