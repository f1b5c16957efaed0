package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/trade"
)

// TradeRecord is a persisted trade.
type TradeRecord struct {
	ID         string        `json:"id"`
	TeamA      league.TeamID `json:"team_a"`
	TeamB      league.TeamID `json:"team_b"`
	AssetsA    []trade.Asset `json:"assets_a"`
	AssetsB    []trade.Asset `json:"assets_b"`
	TotalA     float64       `json:"total_a"`
	TotalB     float64       `json:"total_b"`
	Ratio      float64       `json:"ratio"`
	Fairness   string        `json:"fairness"`
	Status     string        `json:"status"`
	CreatedAt  string        `json:"created_at"`
	ExecutedAt string        `json:"executed_at,omitempty"`
}

// ExecuteTrade implements trade.Store: one immediate write transaction that
// re-validates ownership of every asset, records the trade, and transfers
// both sides. Any stale asset aborts with *trade.ConflictError and the
// database is left exactly as it was.
func (db *DB) ExecuteTrade(p *trade.Proposal) (string, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin trade tx: %w", err)
	}
	defer tx.Rollback()

	// Optimistic-concurrency check: the proposal may be stale.
	if err := verifyOwnership(tx, p.AssetsFromA, p.TeamA); err != nil {
		return "", err
	}
	if err := verifyOwnership(tx, p.AssetsFromB, p.TeamB); err != nil {
		return "", err
	}

	tradeID := uuid.NewString()
	assetsA, err := json.Marshal(p.AssetsFromA)
	if err != nil {
		return "", fmt.Errorf("marshal assets: %w", err)
	}
	assetsB, err := json.Marshal(p.AssetsFromB)
	if err != nil {
		return "", fmt.Errorf("marshal assets: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO trades
		(id, team_a, team_b, assets_a, assets_b, total_a, total_b, ratio, fairness, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?)`,
		tradeID, p.TeamA, p.TeamB, string(assetsA), string(assetsB),
		p.TotalA, p.TotalB, p.Ratio, p.Fairness.String(), now)
	if err != nil {
		return "", fmt.Errorf("record trade: %w", err)
	}

	if err := transferAssets(tx, tradeID, p.AssetsFromA, p.TeamB); err != nil {
		return "", err
	}
	if err := transferAssets(tx, tradeID, p.AssetsFromB, p.TeamA); err != nil {
		return "", err
	}

	_, err = tx.Exec("UPDATE trades SET status = 'accepted', executed_at = ? WHERE id = ?", now, tradeID)
	if err != nil {
		return "", fmt.Errorf("accept trade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit trade: %w", err)
	}
	return tradeID, nil
}

// verifyOwnership confirms every asset still belongs to the side giving it.
func verifyOwnership(tx *sqlx.Tx, assets []trade.Asset, giver league.TeamID) error {
	for i := range assets {
		a := &assets[i]
		var owner string
		switch a.Kind {
		case trade.KindPlayer:
			if err := tx.Get(&owner, "SELECT team FROM players WHERE id = ?", a.PlayerID); err != nil {
				return fmt.Errorf("verify player %d: %w", a.PlayerID, err)
			}
		case trade.KindPick:
			if a.Pick == nil {
				continue // Provided-value pick, nothing persisted to move
			}
			err := tx.Get(&owner,
				"SELECT current_team FROM draft_picks WHERE year = ? AND round = ? AND original_team = ?",
				a.Pick.Year, a.Pick.Round, a.Pick.OriginalTeam)
			if err != nil {
				return fmt.Errorf("verify pick %s: %w", a.Key(), err)
			}
		}
		if league.TeamID(owner) != giver {
			return &trade.ConflictError{
				AssetKey:     a.Key(),
				ExpectedTeam: giver,
				ActualTeam:   league.TeamID(owner),
			}
		}
	}
	return nil
}

// transferAssets moves one side's assets to the acquiring team. Player
// ownership is updated on the players table and every duplicated roster
// row; picks are stamped with the trade that moved them.
func transferAssets(tx *sqlx.Tx, tradeID string, assets []trade.Asset, to league.TeamID) error {
	for i := range assets {
		a := &assets[i]
		switch a.Kind {
		case trade.KindPlayer:
			if _, err := tx.Exec("UPDATE players SET team = ? WHERE id = ?", to, a.PlayerID); err != nil {
				return fmt.Errorf("transfer player %d: %w", a.PlayerID, err)
			}
			if _, err := tx.Exec("UPDATE roster_entries SET team = ? WHERE player_id = ?", to, a.PlayerID); err != nil {
				return fmt.Errorf("transfer roster rows %d: %w", a.PlayerID, err)
			}
		case trade.KindPick:
			if a.Pick == nil {
				continue
			}
			_, err := tx.Exec(
				"UPDATE draft_picks SET current_team = ?, trade_id = ? WHERE year = ? AND round = ? AND original_team = ?",
				to, tradeID, a.Pick.Year, a.Pick.Round, a.Pick.OriginalTeam)
			if err != nil {
				return fmt.Errorf("transfer pick %s: %w", a.Key(), err)
			}
		}
	}
	return nil
}

// Trade loads a persisted trade record.
func (db *DB) Trade(id string) (*TradeRecord, error) {
	var row struct {
		ID         string         `db:"id"`
		TeamA      string         `db:"team_a"`
		TeamB      string         `db:"team_b"`
		AssetsA    string         `db:"assets_a"`
		AssetsB    string         `db:"assets_b"`
		TotalA     float64        `db:"total_a"`
		TotalB     float64        `db:"total_b"`
		Ratio      float64        `db:"ratio"`
		Fairness   string         `db:"fairness"`
		Status     string         `db:"status"`
		CreatedAt  string         `db:"created_at"`
		ExecutedAt sql.NullString `db:"executed_at"`
	}
	if err := db.conn.Get(&row, "SELECT * FROM trades WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("trade %s: %w", id, err)
	}

	rec := &TradeRecord{
		ID:        row.ID,
		TeamA:     league.TeamID(row.TeamA),
		TeamB:     league.TeamID(row.TeamB),
		TotalA:    row.TotalA,
		TotalB:    row.TotalB,
		Ratio:     row.Ratio,
		Fairness:  row.Fairness,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
	if row.ExecutedAt.Valid {
		rec.ExecutedAt = row.ExecutedAt.String
	}
	if err := json.Unmarshal([]byte(row.AssetsA), &rec.AssetsA); err != nil {
		return nil, fmt.Errorf("trade %s assets: %w", id, err)
	}
	if err := json.Unmarshal([]byte(row.AssetsB), &rec.AssetsB); err != nil {
		return nil, fmt.Errorf("trade %s assets: %w", id, err)
	}
	return rec, nil
}

// AddTeam inserts or replaces a franchise.
func (db *DB) AddTeam(t *league.Team) error {
	rebuilding := 0
	if t.Rebuilding {
		rebuilding = 1
	}
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO teams
		(id, name, wins, losses, ties, cap_space, rebuilding)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Wins, t.Losses, t.Ties, t.CapSpace, rebuilding)
	return err
}

// AddPlayer inserts or replaces a player and its depth-chart row.
func (db *DB) AddPlayer(p *league.Player) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO players
		(id, name, team, position, overall, age, contract_years, cap_hit, popularity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Team, p.Position, p.Overall, p.Age, p.ContractYears, p.CapHit, p.Popularity)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		"INSERT INTO roster_entries (player_id, team, slot) VALUES (?, ?, 'bench')",
		p.ID, p.Team)
	return err
}

// AddPick inserts or replaces a draft pick.
func (db *DB) AddPick(p *league.DraftPick) error {
	completed := 0
	if p.Completed {
		completed = 1
	}
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO draft_picks
		(year, round, original_team, current_team, projected_overall, range_low, range_high, completed, trade_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Year, p.Round, p.OriginalTeam, p.CurrentTeam, p.ProjectedOverall,
		p.RangeLow, p.RangeHigh, completed, p.TradeID)
	return err
}
