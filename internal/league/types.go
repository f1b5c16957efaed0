// Package league provides the league data model: teams, players, draft
// picks, and the situational context GM logic reads from.
package league

// TeamID is a team's short abbreviation, e.g. "DAL".
type TeamID string

// Team is a franchise in the league.
type Team struct {
	ID         TeamID  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	Wins       int     `json:"wins" db:"wins"`
	Losses     int     `json:"losses" db:"losses"`
	Ties       int     `json:"ties" db:"ties"`
	CapSpace   float64 `json:"cap_space" db:"cap_space"` // Millions under the cap
	Rebuilding bool    `json:"rebuilding" db:"rebuilding"`
}

// WinPct returns the team's winning percentage, counting ties as half a win.
// A team with no games played sits at .500.
func (t *Team) WinPct() float64 {
	games := t.Wins + t.Losses + t.Ties
	if games == 0 {
		return 0.5
	}
	return (float64(t.Wins) + 0.5*float64(t.Ties)) / float64(games)
}

// Position is a player's primary position.
type Position string

const (
	QB   Position = "QB"
	RB   Position = "RB"
	WR   Position = "WR"
	TE   Position = "TE"
	OT   Position = "OT"
	OG   Position = "OG"
	C    Position = "C"
	EDGE Position = "EDGE"
	DT   Position = "DT"
	LB   Position = "LB"
	CB   Position = "CB"
	S    Position = "S"
	K    Position = "K"
	P    Position = "P"
)

// Positions lists every position in roster order.
var Positions = []Position{QB, RB, WR, TE, OT, OG, C, EDGE, DT, LB, CB, S, K, P}

// premiumPositions are the spots the market pays up for.
var premiumPositions = map[Position]bool{
	QB:   true,
	EDGE: true,
	OT:   true,
}

// IsPremium reports whether p is a premium position.
func IsPremium(p Position) bool {
	return premiumPositions[p]
}

// Player is a rostered player.
type Player struct {
	ID            uint64   `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Team          TeamID   `json:"team" db:"team"`
	Position      Position `json:"position" db:"position"`
	Overall       int      `json:"overall" db:"overall"` // 0–100 skill rating
	Age           int      `json:"age" db:"age"`
	ContractYears int      `json:"contract_years" db:"contract_years"` // Years remaining; 0 = unknown
	CapHit        float64  `json:"cap_hit" db:"cap_hit"`               // Annual, millions; 0 = unknown
	Popularity    float64  `json:"popularity" db:"popularity"`         // Fan interest, market side effect
}

// DraftPick is a team's selection slot in a future or current draft.
// One pick exists per team/round/year from dynasty start; only trade
// execution changes CurrentTeam.
type DraftPick struct {
	Round            int    `json:"round" db:"round"` // 1–7
	Year             int    `json:"year" db:"year"`
	OriginalTeam     TeamID `json:"original_team" db:"original_team"`
	CurrentTeam      TeamID `json:"current_team" db:"current_team"`
	ProjectedOverall int    `json:"projected_overall" db:"projected_overall"` // 0 = not projected
	RangeLow         int    `json:"range_low" db:"range_low"`
	RangeHigh        int    `json:"range_high" db:"range_high"`
	Completed        bool   `json:"completed" db:"completed"`
	TradeID          string `json:"trade_id,omitempty" db:"trade_id"` // Trade that moved it, for audit
}

// Range returns the width of the pick's projection uncertainty window.
func (p *DraftPick) Range() int {
	if p.RangeHigh <= p.RangeLow {
		return 0
	}
	return p.RangeHigh - p.RangeLow
}

// NeedLevel grades how urgently a team needs help at a position.
type NeedLevel uint8

const (
	NeedNone NeedLevel = iota
	NeedDepth
	NeedStarter
	NeedCritical
)

// TeamContext is the situational snapshot GM logic evaluates against.
// Read-only input; the trade engine never mutates it.
type TeamContext struct {
	Team       TeamID                 `json:"team"`
	Wins       int                    `json:"wins"`
	Losses     int                    `json:"losses"`
	Ties       int                    `json:"ties"`
	CapSpace   float64                `json:"cap_space"`
	Needs      map[Position]NeedLevel `json:"needs"`
	Rebuilding bool                   `json:"rebuilding"`
	Deadline   bool                   `json:"deadline"`  // Trade deadline week
	Offseason  bool                   `json:"offseason"`
}

// Need returns the team's need level at a position, NeedNone when unknown.
func (c *TeamContext) Need(pos Position) NeedLevel {
	if c == nil || c.Needs == nil {
		return NeedNone
	}
	return c.Needs[pos]
}

// Standings supplies win percentages for pick-value projection.
type Standings interface {
	WinPct(team TeamID) (float64, error)
}

// Archetype is a GM's personality: seven traits, each on a 0–1 scale.
// Read-only input to evaluation and negotiation.
type Archetype struct {
	Name                 string  `json:"name" db:"name"`
	CapDiscipline        float64 `json:"cap_discipline" db:"cap_discipline"`
	WinNowUrgency        float64 `json:"win_now_urgency" db:"win_now_urgency"`
	RiskTolerance        float64 `json:"risk_tolerance" db:"risk_tolerance"`
	DraftPickAffinity    float64 `json:"draft_pick_affinity" db:"draft_pick_affinity"`
	StarChasing          float64 `json:"star_chasing" db:"star_chasing"`
	VeteranPreference    float64 `json:"veteran_preference" db:"veteran_preference"`
	PremiumPositionFocus float64 `json:"premium_position_focus" db:"premium_position_focus"`
}

// AcceptBand derives the GM's acceptance band on a perceived value ratio.
// Risk tolerance widens it symmetrically; win-now urgency lets the GM
// stomach slightly losing a trade that brings talent in; cap discipline
// tightens the low side.
func (a Archetype) AcceptBand() (min, max float64) {
	half := 0.08 + 0.12*a.RiskTolerance
	min = 1.0 - half
	max = 1.0 + half
	if a.WinNowUrgency > 0.7 {
		min -= 0.04
	}
	if a.CapDiscipline > 0.7 {
		min += 0.03
	}
	if min >= 1.0 {
		min = 0.97
	}
	return min, max
}

// ArchetypeProvider supplies the personality running each team's front
// office. Pluggable so profiles can come from a store rather than presets.
type ArchetypeProvider interface {
	ArchetypeFor(team TeamID) (Archetype, error)
}
