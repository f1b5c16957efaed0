// Package trade implements the trade engine: the asset/proposal model,
// fairness classification, counter-offer negotiation, and transactional
// trade execution against the league store.
package trade

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/dynasty-gm/internal/league"
)

// AssetKind discriminates the Asset union.
type AssetKind uint8

const (
	KindPlayer AssetKind = iota
	KindPick
)

// Asset is one movable piece of a trade: a player or a draft pick, with
// its computed trade value and the team that would acquire it.
type Asset struct {
	Kind AssetKind `json:"kind"`

	// Player fields (KindPlayer).
	PlayerID      uint64          `json:"player_id,omitempty"`
	Name          string          `json:"name,omitempty"`
	Position      league.Position `json:"position,omitempty"`
	Overall       int             `json:"overall,omitempty"`
	Age           int             `json:"age,omitempty"`
	ContractYears int             `json:"contract_years,omitempty"`
	CapHit        float64         `json:"cap_hit,omitempty"`

	// Pick fields (KindPick).
	Pick *league.DraftPick `json:"pick,omitempty"`

	Value  float64       `json:"value"` // Computed trade value, >= 0
	ToTeam league.TeamID `json:"to_team"`
}

// PlayerAsset builds a player-variant asset headed to the given team.
func PlayerAsset(p *league.Player, to league.TeamID, value float64) Asset {
	return Asset{
		Kind:          KindPlayer,
		PlayerID:      p.ID,
		Name:          p.Name,
		Position:      p.Position,
		Overall:       p.Overall,
		Age:           p.Age,
		ContractYears: p.ContractYears,
		CapHit:        p.CapHit,
		Value:         value,
		ToTeam:        to,
	}
}

// PickAsset builds a pick-variant asset headed to the given team.
func PickAsset(pick *league.DraftPick, to league.TeamID, value float64) Asset {
	return Asset{
		Kind:   KindPick,
		Pick:   pick,
		Value:  value,
		ToTeam: to,
	}
}

// Key returns the asset's normalized identity, used for duplicate-proposal
// detection and ownership checks: "p:<id>" for players,
// "k:<year>-<round>-<originalTeam>" for picks. A provided-value pick has no
// coordinates; its value is the only identity it carries.
func (a *Asset) Key() string {
	if a.Kind == KindPick {
		if a.Pick == nil {
			return fmt.Sprintf("k:anon-%.1f", a.Value)
		}
		return fmt.Sprintf("k:%d-%d-%s", a.Pick.Year, a.Pick.Round, a.Pick.OriginalTeam)
	}
	return fmt.Sprintf("p:%d", a.PlayerID)
}

// Validate checks the asset invariants: a player asset carries an identity
// or a name; a pick asset carries a DraftPick or a provided value.
func (a *Asset) Validate() error {
	switch a.Kind {
	case KindPlayer:
		if a.PlayerID == 0 && a.Name == "" {
			return fmt.Errorf("%w: player asset without id or name", ErrInvalidAsset)
		}
	case KindPick:
		if a.Pick == nil && a.Value == 0 {
			return fmt.Errorf("%w: pick asset without pick or value", ErrInvalidAsset)
		}
	default:
		return fmt.Errorf("%w: unknown asset kind %d", ErrInvalidAsset, a.Kind)
	}
	if a.Value < 0 {
		return fmt.Errorf("%w: negative value %.1f", ErrInvalidAsset, a.Value)
	}
	return nil
}

// String renders the asset for logs and rationale text.
func (a *Asset) String() string {
	if a.Kind == KindPick && a.Pick != nil {
		return fmt.Sprintf("%d round %d pick (%s), %s pts",
			a.Pick.Year, a.Pick.Round, a.Pick.OriginalTeam,
			humanize.CommafWithDigits(a.Value, 0))
	}
	return fmt.Sprintf("%s (%s, %d OVR, age %d), %s pts",
		a.Name, a.Position, a.Overall, a.Age,
		humanize.CommafWithDigits(a.Value, 0))
}

// TotalValue sums the computed values of a bundle.
func TotalValue(assets []Asset) float64 {
	var total float64
	for i := range assets {
		total += assets[i].Value
	}
	return total
}

// keySet returns the sorted identity keys of a bundle.
func keySet(assets []Asset) []string {
	keys := make([]string, len(assets))
	for i := range assets {
		keys[i] = assets[i].Key()
	}
	sort.Strings(keys)
	return keys
}
