package trade

import (
	"errors"
	"fmt"

	"github.com/talgya/dynasty-gm/internal/league"
)

// Usage errors: bad input from the caller, surfaced immediately.
var (
	ErrSameTeam        = errors.New("trade: teams on both sides are the same")
	ErrInvalidAsset    = errors.New("trade: invalid asset")
	ErrInvalidDecision = errors.New("trade: invalid decision")
	ErrInvalidProposal = errors.New("trade: invalid proposal")
	ErrNotParty        = errors.New("trade: evaluator is not a party to the proposal")
)

// ConflictError reports that an asset moved between proposal and execution.
// The transaction that hit it was rolled back; the store is untouched.
type ConflictError struct {
	AssetKey     string
	ExpectedTeam league.TeamID
	ActualTeam   league.TeamID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("trade: asset %s owned by %s, proposal expected %s",
		e.AssetKey, e.ActualTeam, e.ExpectedTeam)
}

// ImpasseReason says why a counter-offer could not be constructed.
type ImpasseReason uint8

const (
	ImpasseGapTooSmall ImpasseReason = iota
	ImpasseGapTooLarge
	ImpassePoolTooThin
	ImpasseNoViablePackage
	ImpasseCapOverrun
	ImpasseDuplicateOffer
)

func (r ImpasseReason) String() string {
	switch r {
	case ImpasseGapTooSmall:
		return "gap_too_small"
	case ImpasseGapTooLarge:
		return "gap_too_large"
	case ImpassePoolTooThin:
		return "pool_too_thin"
	case ImpasseNoViablePackage:
		return "no_viable_package"
	case ImpasseCapOverrun:
		return "cap_overrun"
	default:
		return "duplicate_offer"
	}
}

// Impasse is the recoverable "no viable counter" outcome. It is a result
// variant, not an error: negotiations fold it into a stalemate termination.
type Impasse struct {
	Reason ImpasseReason `json:"reason"`
	Detail string        `json:"detail"`
}

func (i *Impasse) String() string {
	return i.Reason.String() + ": " + i.Detail
}
