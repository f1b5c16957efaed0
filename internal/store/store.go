// Package store provides SQLite-backed persistence for rosters, pick
// ownership, GM profiles, and trade records.
package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/dynasty-gm/internal/league"
)

// DB wraps a SQLite connection for league state persistence. Transactions
// opened through it take an immediate write lock, so concurrent trade
// executions serialize at the database.
type DB struct {
	conn   *sqlx.DB
	season int
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := db.loadSeason(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("load season: %w", err)
	}

	return db, nil
}

// OpenMemory opens a throwaway in-memory database, for tests.
func OpenMemory() (*DB, error) {
	return Open(":memory:")
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		ties INTEGER NOT NULL DEFAULT 0,
		cap_space REAL NOT NULL DEFAULT 0,
		rebuilding INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		team TEXT NOT NULL,
		position TEXT NOT NULL,
		overall INTEGER NOT NULL,
		age INTEGER NOT NULL,
		contract_years INTEGER NOT NULL DEFAULT 0,
		cap_hit REAL NOT NULL DEFAULT 0,
		popularity REAL NOT NULL DEFAULT 0
	);

	-- Depth-chart rows duplicate player ownership; trade execution keeps
	-- them consistent with players.team.
	CREATE TABLE IF NOT EXISTS roster_entries (
		player_id INTEGER NOT NULL,
		team TEXT NOT NULL,
		slot TEXT NOT NULL DEFAULT 'bench'
	);

	CREATE TABLE IF NOT EXISTS draft_picks (
		year INTEGER NOT NULL,
		round INTEGER NOT NULL,
		original_team TEXT NOT NULL,
		current_team TEXT NOT NULL,
		projected_overall INTEGER NOT NULL DEFAULT 0,
		range_low INTEGER NOT NULL DEFAULT 0,
		range_high INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		trade_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (year, round, original_team)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		team_a TEXT NOT NULL,
		team_b TEXT NOT NULL,
		assets_a TEXT NOT NULL,
		assets_b TEXT NOT NULL,
		total_a REAL NOT NULL,
		total_b REAL NOT NULL,
		ratio REAL NOT NULL,
		fairness TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		executed_at TEXT
	);

	CREATE TABLE IF NOT EXISTS gm_profiles (
		team TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cap_discipline REAL NOT NULL,
		win_now_urgency REAL NOT NULL,
		risk_tolerance REAL NOT NULL,
		draft_pick_affinity REAL NOT NULL,
		star_chasing REAL NOT NULL,
		veteran_preference REAL NOT NULL,
		premium_position_focus REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS team_needs (
		team TEXT NOT NULL,
		position TEXT NOT NULL,
		level INTEGER NOT NULL,
		PRIMARY KEY (team, position)
	);

	CREATE TABLE IF NOT EXISTS league_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_players_team ON players(team);
	CREATE INDEX IF NOT EXISTS idx_roster_player ON roster_entries(player_id);
	CREATE INDEX IF NOT EXISTS idx_picks_current ON draft_picks(current_team);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) loadSeason() error {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM league_meta WHERE key = 'season'")
	if err == nil {
		_, scanErr := fmt.Sscanf(value, "%d", &db.season)
		return scanErr
	}

	db.season = time.Now().Year()
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO league_meta (key, value) VALUES ('season', ?)",
		fmt.Sprintf("%d", db.season),
	)
	return err
}

// Season returns the current league year.
func (db *DB) Season() int {
	return db.season
}

// SetSeason advances the league year.
func (db *DB) SetSeason(year int) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO league_meta (key, value) VALUES ('season', ?)",
		fmt.Sprintf("%d", year),
	)
	if err == nil {
		db.season = year
	}
	return err
}

// teamRow mirrors the teams table; SQLite stores booleans as integers.
type teamRow struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Wins       int     `db:"wins"`
	Losses     int     `db:"losses"`
	Ties       int     `db:"ties"`
	CapSpace   float64 `db:"cap_space"`
	Rebuilding int     `db:"rebuilding"`
}

func (r *teamRow) team() *league.Team {
	return &league.Team{
		ID:         league.TeamID(r.ID),
		Name:       r.Name,
		Wins:       r.Wins,
		Losses:     r.Losses,
		Ties:       r.Ties,
		CapSpace:   r.CapSpace,
		Rebuilding: r.Rebuilding != 0,
	}
}

// Team loads one franchise.
func (db *DB) Team(id league.TeamID) (*league.Team, error) {
	var r teamRow
	if err := db.conn.Get(&r, "SELECT * FROM teams WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("team %s: %w", id, err)
	}
	return r.team(), nil
}

// Teams loads every franchise.
func (db *DB) Teams() ([]*league.Team, error) {
	var rows []teamRow
	if err := db.conn.Select(&rows, "SELECT * FROM teams ORDER BY id"); err != nil {
		return nil, err
	}
	teams := make([]*league.Team, len(rows))
	for i := range rows {
		teams[i] = rows[i].team()
	}
	return teams, nil
}

// Player loads one player.
func (db *DB) Player(id uint64) (*league.Player, error) {
	var p league.Player
	if err := db.conn.Get(&p, "SELECT * FROM players WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("player %d: %w", id, err)
	}
	return &p, nil
}

// TeamPlayers lists a team's roster.
func (db *DB) TeamPlayers(team league.TeamID) ([]*league.Player, error) {
	var players []*league.Player
	err := db.conn.Select(&players,
		"SELECT * FROM players WHERE team = ? ORDER BY overall DESC", team)
	if err != nil {
		return nil, err
	}
	return players, nil
}

// pickRow mirrors the draft_picks table.
type pickRow struct {
	Year             int    `db:"year"`
	Round            int    `db:"round"`
	OriginalTeam     string `db:"original_team"`
	CurrentTeam      string `db:"current_team"`
	ProjectedOverall int    `db:"projected_overall"`
	RangeLow         int    `db:"range_low"`
	RangeHigh        int    `db:"range_high"`
	Completed        int    `db:"completed"`
	TradeID          string `db:"trade_id"`
}

func (r *pickRow) pick() *league.DraftPick {
	return &league.DraftPick{
		Year:             r.Year,
		Round:            r.Round,
		OriginalTeam:     league.TeamID(r.OriginalTeam),
		CurrentTeam:      league.TeamID(r.CurrentTeam),
		ProjectedOverall: r.ProjectedOverall,
		RangeLow:         r.RangeLow,
		RangeHigh:        r.RangeHigh,
		Completed:        r.Completed != 0,
		TradeID:          r.TradeID,
	}
}

func pickRowsToPicks(rows []pickRow) []*league.DraftPick {
	picks := make([]*league.DraftPick, len(rows))
	for i := range rows {
		picks[i] = rows[i].pick()
	}
	return picks
}

// Pick loads one draft pick by its immutable coordinates.
func (db *DB) Pick(year, round int, originalTeam league.TeamID) (*league.DraftPick, error) {
	var r pickRow
	err := db.conn.Get(&r,
		"SELECT * FROM draft_picks WHERE year = ? AND round = ? AND original_team = ?",
		year, round, originalTeam)
	if err != nil {
		return nil, fmt.Errorf("pick %d/%d/%s: %w", year, round, originalTeam, err)
	}
	return r.pick(), nil
}

// TeamPicks lists the picks a team currently owns.
func (db *DB) TeamPicks(team league.TeamID) ([]*league.DraftPick, error) {
	var rows []pickRow
	err := db.conn.Select(&rows,
		"SELECT * FROM draft_picks WHERE current_team = ? ORDER BY year, round", team)
	if err != nil {
		return nil, err
	}
	return pickRowsToPicks(rows), nil
}

// PicksInRound lists every pick of one draft round, earliest slot first.
func (db *DB) PicksInRound(year, round int) ([]*league.DraftPick, error) {
	var rows []pickRow
	err := db.conn.Select(&rows,
		"SELECT * FROM draft_picks WHERE year = ? AND round = ? ORDER BY projected_overall",
		year, round)
	if err != nil {
		return nil, err
	}
	return pickRowsToPicks(rows), nil
}

// MarkPickCompleted flags a pick as used on draft day.
func (db *DB) MarkPickCompleted(pick *league.DraftPick) error {
	_, err := db.conn.Exec(
		"UPDATE draft_picks SET completed = 1 WHERE year = ? AND round = ? AND original_team = ?",
		pick.Year, pick.Round, pick.OriginalTeam)
	return err
}

// WinPct implements league.Standings.
func (db *DB) WinPct(team league.TeamID) (float64, error) {
	t, err := db.Team(team)
	if err != nil {
		return 0, err
	}
	return t.WinPct(), nil
}

// TeamContext assembles the situational snapshot for one team.
func (db *DB) TeamContext(team league.TeamID) (*league.TeamContext, error) {
	t, err := db.Team(team)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Queryx("SELECT position, level FROM team_needs WHERE team = ?", team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	needs := make(map[league.Position]league.NeedLevel)
	for rows.Next() {
		var pos string
		var level int
		if err := rows.Scan(&pos, &level); err != nil {
			return nil, err
		}
		needs[league.Position(pos)] = league.NeedLevel(level)
	}

	return &league.TeamContext{
		Team:       team,
		Wins:       t.Wins,
		Losses:     t.Losses,
		Ties:       t.Ties,
		CapSpace:   t.CapSpace,
		Needs:      needs,
		Rebuilding: t.Rebuilding,
	}, nil
}

// SetNeed records a team's urgency at a position.
func (db *DB) SetNeed(team league.TeamID, pos league.Position, level league.NeedLevel) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO team_needs (team, position, level) VALUES (?, ?, ?)",
		team, pos, level)
	return err
}

// ArchetypeFor implements league.ArchetypeProvider from gm_profiles.
func (db *DB) ArchetypeFor(team league.TeamID) (league.Archetype, error) {
	var a league.Archetype
	err := db.conn.Get(&a, "SELECT name, cap_discipline, win_now_urgency, risk_tolerance, draft_pick_affinity, star_chasing, veteran_preference, premium_position_focus FROM gm_profiles WHERE team = ?", team)
	if err != nil {
		return league.Archetype{}, fmt.Errorf("gm profile %s: %w", team, err)
	}
	return a, nil
}

// SaveArchetype stores the personality running a team's front office.
func (db *DB) SaveArchetype(team league.TeamID, a league.Archetype) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO gm_profiles
		(team, name, cap_discipline, win_now_urgency, risk_tolerance,
		 draft_pick_affinity, star_chasing, veteran_preference, premium_position_focus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		team, a.Name, a.CapDiscipline, a.WinNowUrgency, a.RiskTolerance,
		a.DraftPickAffinity, a.StarChasing, a.VeteranPreference, a.PremiumPositionFocus)
	return err
}

// AdjustForTrade implements trade.PopularityAdjuster: traded players draw
// market attention.
func (db *DB) AdjustForTrade(playerID uint64, delta float64) error {
	_, err := db.conn.Exec(
		"UPDATE players SET popularity = popularity + ? WHERE id = ?", delta, playerID)
	return err
}
