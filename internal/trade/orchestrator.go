package trade

import (
	"fmt"
	"log/slog"

	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/trade/value"
)

// Store is the persistence boundary the orchestrator drives. ExecuteTrade
// is the single mutator of roster and pick ownership; everything else is a
// read.
type Store interface {
	Player(id uint64) (*league.Player, error)
	Pick(year, round int, originalTeam league.TeamID) (*league.DraftPick, error)
	TeamPlayers(team league.TeamID) ([]*league.Player, error)
	TeamPicks(team league.TeamID) ([]*league.DraftPick, error)
	TeamContext(team league.TeamID) (*league.TeamContext, error)
	Season() int

	// ExecuteTrade transfers every asset in both directions inside one
	// immediate write transaction, re-validating ownership first. A stale
	// asset aborts the whole transaction with a *ConflictError.
	ExecuteTrade(p *Proposal) (tradeID string, err error)
}

// AuditLogger records transferred assets after a successful commit.
// Best-effort: failures are logged by the orchestrator and dropped.
type AuditLogger interface {
	LogTransfer(tradeID string, a *Asset, from, to league.TeamID) error
}

// PopularityAdjuster applies the market-reaction bump traded players get.
// Best-effort, like AuditLogger.
type PopularityAdjuster interface {
	AdjustForTrade(playerID uint64, delta float64) error
}

// PickRef identifies a pick by its immutable coordinates.
type PickRef struct {
	Year  int           `json:"year"`
	Round int           `json:"round"`
	Team  league.TeamID `json:"team"` // Original owning team
}

// AssetRefs names the assets one side sends, by identifier.
type AssetRefs struct {
	PlayerIDs []uint64  `json:"player_ids"`
	Picks     []PickRef `json:"picks"`
}

// ExecutionResult reports a committed trade.
type ExecutionResult struct {
	TradeID     string  `json:"trade_id"`
	Status      string  `json:"status"`
	Transferred []Asset `json:"transferred"`
}

// Orchestrator builds proposals from identifiers, runs negotiations, and
// commits accepted trades. Evaluator and Archetypes come from the
// GM-personality subsystem; Audit and Popularity are optional best-effort
// collaborators.
type Orchestrator struct {
	Calc       *value.Calculator
	Store      Store
	Evaluator  Evaluator
	Archetypes league.ArchetypeProvider
	Audit      AuditLogger
	Popularity PopularityAdjuster
	MaxRounds  int

	popularityBump float64
}

// TradeBump is the default popularity delta a traded player receives.
const TradeBump = 0.05

// ProposeTrade resolves identifiers into valued assets and builds the
// two-sided proposal. No state is written.
func (o *Orchestrator) ProposeTrade(teamA league.TeamID, fromA AssetRefs, teamB league.TeamID, fromB AssetRefs) (*Proposal, error) {
	if teamA == teamB {
		return nil, fmt.Errorf("%w: %s", ErrSameTeam, teamA)
	}

	assetsA, err := o.resolveAssets(fromA, teamB)
	if err != nil {
		return nil, fmt.Errorf("resolve %s side: %w", teamA, err)
	}
	assetsB, err := o.resolveAssets(fromB, teamA)
	if err != nil {
		return nil, fmt.Errorf("resolve %s side: %w", teamB, err)
	}

	return NewProposal(teamA, teamB, assetsA, assetsB), nil
}

// EvaluateTrade values a hypothetical exchange without persisting anything.
// Identical construction to ProposeTrade; the name marks intent at call
// sites that will never execute the result.
func (o *Orchestrator) EvaluateTrade(teamA league.TeamID, fromA AssetRefs, teamB league.TeamID, fromB AssetRefs) (*Proposal, error) {
	return o.ProposeTrade(teamA, fromA, teamB, fromB)
}

// EvaluateAITrade asks the team's GM to judge the proposal.
func (o *Orchestrator) EvaluateAITrade(p *Proposal, team league.TeamID) (*Decision, error) {
	if !p.Involves(team) {
		return nil, fmt.Errorf("%w: %s", ErrNotParty, team)
	}
	return o.Evaluator.Evaluate(p, team)
}

// NegotiateTrade drives the proposal to a terminal outcome using the
// store's asset pools and the personality provider. maxRounds <= 0 uses
// the default bound.
func (o *Orchestrator) NegotiateTrade(initial *Proposal, maxRounds int) (*NegotiationResult, error) {
	if maxRounds <= 0 {
		maxRounds = o.MaxRounds
	}
	n := &Negotiator{
		MaxRounds: maxRounds,
		Evaluator: o.Evaluator,
		BandFor: func(team league.TeamID) (float64, float64) {
			arch, err := o.Archetypes.ArchetypeFor(team)
			if err != nil {
				slog.Warn("archetype lookup failed, using balanced band", "team", team, "error", err)
				return league.Archetype{RiskTolerance: 0.5}.AcceptBand()
			}
			return arch.AcceptBand()
		},
		PoolFor:      o.tradePool,
		ArchetypeFor: o.archetypeOrBalanced,
		ContextFor:   o.contextOrNil,
	}
	return n.Negotiate(initial)
}

// ExecuteTrade commits an accepted proposal: one immediate transaction
// that re-validates ownership, records the trade, and moves every asset, or
// nothing at all. Audit and popularity run after commit and never affect
// the result.
func (o *Orchestrator) ExecuteTrade(p *Proposal) (*ExecutionResult, error) {
	if p == nil || p.TeamA == p.TeamB {
		return nil, fmt.Errorf("%w: malformed proposal", ErrInvalidProposal)
	}
	for i := range p.AssetsFromA {
		if err := p.AssetsFromA[i].Validate(); err != nil {
			return nil, err
		}
	}
	for i := range p.AssetsFromB {
		if err := p.AssetsFromB[i].Validate(); err != nil {
			return nil, err
		}
	}

	tradeID, err := o.Store.ExecuteTrade(p)
	if err != nil {
		return nil, err
	}

	transferred := make([]Asset, 0, len(p.AssetsFromA)+len(p.AssetsFromB))
	transferred = append(transferred, p.AssetsFromA...)
	transferred = append(transferred, p.AssetsFromB...)

	o.postCommit(tradeID, p)

	return &ExecutionResult{
		TradeID:     tradeID,
		Status:      "accepted",
		Transferred: transferred,
	}, nil
}

// postCommit runs the fire-and-forget side effects. Failures are logged
// and swallowed; the trade is already committed.
func (o *Orchestrator) postCommit(tradeID string, p *Proposal) {
	bump := o.popularityBump
	if bump == 0 {
		bump = TradeBump
	}

	audit := func(assets []Asset, from, to league.TeamID) {
		for i := range assets {
			a := &assets[i]
			if o.Audit != nil {
				if err := o.Audit.LogTransfer(tradeID, a, from, to); err != nil {
					slog.Warn("trade audit failed", "trade", tradeID, "asset", a.Key(), "error", err)
				}
			}
			if o.Popularity != nil && a.Kind == KindPlayer {
				if err := o.Popularity.AdjustForTrade(a.PlayerID, bump); err != nil {
					slog.Warn("popularity adjust failed", "trade", tradeID, "player", a.PlayerID, "error", err)
				}
			}
		}
	}
	audit(p.AssetsFromA, p.TeamA, p.TeamB)
	audit(p.AssetsFromB, p.TeamB, p.TeamA)
}

// resolveAssets turns identifiers into valued assets headed to acquirer.
func (o *Orchestrator) resolveAssets(refs AssetRefs, acquirer league.TeamID) ([]Asset, error) {
	var needs map[league.Position]league.NeedLevel
	if ctx := o.contextOrNil(acquirer); ctx != nil {
		needs = ctx.Needs
	}
	season := o.Store.Season()

	assets := make([]Asset, 0, len(refs.PlayerIDs)+len(refs.Picks))
	for _, id := range refs.PlayerIDs {
		pl, err := o.Store.Player(id)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", id, err)
		}
		assets = append(assets, PlayerAsset(pl, acquirer, o.Calc.PlayerValue(pl, needs)))
	}
	for _, ref := range refs.Picks {
		pick, err := o.Store.Pick(ref.Year, ref.Round, ref.Team)
		if err != nil {
			return nil, fmt.Errorf("pick %d/%d/%s: %w", ref.Year, ref.Round, ref.Team, err)
		}
		assets = append(assets, PickAsset(pick, acquirer, o.Calc.PickValue(pick, season)))
	}
	return assets, nil
}

// tradePool lists owner's movable assets, valued from acquirer's chair.
func (o *Orchestrator) tradePool(owner, acquirer league.TeamID) []Asset {
	var needs map[league.Position]league.NeedLevel
	if ctx := o.contextOrNil(acquirer); ctx != nil {
		needs = ctx.Needs
	}
	season := o.Store.Season()

	var pool []Asset
	players, err := o.Store.TeamPlayers(owner)
	if err != nil {
		slog.Warn("pool players lookup failed", "team", owner, "error", err)
	}
	for _, pl := range players {
		pool = append(pool, PlayerAsset(pl, acquirer, o.Calc.PlayerValue(pl, needs)))
	}

	picks, err := o.Store.TeamPicks(owner)
	if err != nil {
		slog.Warn("pool picks lookup failed", "team", owner, "error", err)
	}
	for _, pick := range picks {
		if pick.Completed {
			continue
		}
		pool = append(pool, PickAsset(pick, acquirer, o.Calc.PickValue(pick, season)))
	}
	return pool
}

func (o *Orchestrator) archetypeOrBalanced(team league.TeamID) league.Archetype {
	arch, err := o.Archetypes.ArchetypeFor(team)
	if err != nil {
		slog.Warn("archetype lookup failed", "team", team, "error", err)
		return league.Archetype{
			Name: "Balanced", CapDiscipline: 0.5, WinNowUrgency: 0.5, RiskTolerance: 0.5,
			DraftPickAffinity: 0.5, StarChasing: 0.5, VeteranPreference: 0.5, PremiumPositionFocus: 0.5,
		}
	}
	return arch
}

func (o *Orchestrator) contextOrNil(team league.TeamID) *league.TeamContext {
	ctx, err := o.Store.TeamContext(team)
	if err != nil {
		return nil
	}
	return ctx
}
