package store

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/dynasty-gm/internal/league"
)

// seedTeam describes one generated franchise.
type seedTeam struct {
	id        league.TeamID
	name      string
	archetype string
	wins      int
	losses    int
	rebuild   bool
}

var seedTeams = []seedTeam{
	{"AUS", "Austin Armadillos", "AllInContender", 11, 6, false},
	{"BKN", "Brooklyn Barons", "CapSurgeon", 9, 8, false},
	{"CHI", "Chicago Cyclones", "PickHoarder", 4, 13, true},
	{"DEN", "Denver Drifters", "StarHunter", 10, 7, false},
	{"MEM", "Memphis Monarchs", "OldSchool", 8, 9, false},
	{"POR", "Portland Pilots", "YouthMovement", 3, 14, true},
	{"SAC", "Sacramento Stags", "TrenchBuilder", 7, 10, false},
	{"TBY", "Tampa Bay Tritons", "Balanced", 12, 5, false},
}

var firstNames = []string{
	"Marcus", "DeShawn", "Tyler", "Jalen", "Brock", "Amari", "Kelvin",
	"Dante", "Reggie", "Colt", "Xavier", "Troy", "Malik", "Jordan",
	"Caleb", "Darius", "Wes", "Isaiah", "Grant", "Terrell",
}

var lastNames = []string{
	"Watkins", "Freeman", "Delgado", "Okafor", "Briggs", "Hollis",
	"Trask", "Mercer", "Landry", "Quade", "Sutton", "Vance",
	"Whitfield", "Ames", "Corbin", "Dupree", "Ellison", "Farr",
	"Garnett", "Holloway",
}

// rosterTemplate: positions each generated roster carries, with counts.
var rosterTemplate = []struct {
	pos   league.Position
	count int
}{
	{league.QB, 2}, {league.RB, 2}, {league.WR, 3}, {league.TE, 1},
	{league.OT, 2}, {league.OG, 1}, {league.C, 1},
	{league.EDGE, 2}, {league.DT, 1}, {league.LB, 2},
	{league.CB, 2}, {league.S, 1}, {league.K, 1},
}

// ArchetypeSource supplies named personality presets during seeding.
type ArchetypeSource func(name string) (league.Archetype, error)

// Seeded reports whether the league has been generated.
func (db *DB) Seeded() (bool, error) {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM teams"); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Seed generates a full league: teams, rosters, three drafts of picks, GM
// profiles, and positional needs. Deterministic from the seed.
func (db *DB) Seed(seed int64, archetypes ArchetypeSource) error {
	rng := rand.New(rand.NewSource(seed))
	season := db.Season()

	playerID := uint64(1)
	for _, st := range seedTeams {
		if err := db.AddTeam(&league.Team{
			ID:         st.id,
			Name:       st.name,
			Wins:       st.wins,
			Losses:     st.losses,
			CapSpace:   10 + rng.Float64()*35,
			Rebuilding: st.rebuild,
		}); err != nil {
			return fmt.Errorf("seed team %s: %w", st.id, err)
		}

		arch, err := archetypes(st.archetype)
		if err != nil {
			return fmt.Errorf("seed team %s: %w", st.id, err)
		}
		if err := db.SaveArchetype(st.id, arch); err != nil {
			return fmt.Errorf("seed gm %s: %w", st.id, err)
		}

		for _, slot := range rosterTemplate {
			for i := 0; i < slot.count; i++ {
				p := &league.Player{
					ID:            playerID,
					Name:          firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
					Team:          st.id,
					Position:      slot.pos,
					Overall:       58 + rng.Intn(38),
					Age:           22 + rng.Intn(12),
					ContractYears: 1 + rng.Intn(4),
				}
				p.CapHit = 0.8 + float64(p.Overall-55)*rng.Float64()*0.6
				if err := db.AddPlayer(p); err != nil {
					return fmt.Errorf("seed player %d: %w", playerID, err)
				}
				playerID++
			}
		}

		// One pick per round for this season and the two after it.
		for year := season; year <= season+2; year++ {
			for round := 1; round <= 7; round++ {
				if err := db.AddPick(&league.DraftPick{
					Year:         year,
					Round:        round,
					OriginalTeam: st.id,
					CurrentTeam:  st.id,
				}); err != nil {
					return fmt.Errorf("seed pick %s r%d %d: %w", st.id, round, year, err)
				}
			}
		}

		// Two random needs per team.
		for i := 0; i < 2; i++ {
			pos := league.Positions[rng.Intn(len(league.Positions))]
			level := league.NeedLevel(1 + rng.Intn(3))
			if err := db.SetNeed(st.id, pos, level); err != nil {
				return fmt.Errorf("seed need %s: %w", st.id, err)
			}
		}
	}

	slog.Info("league seeded", "teams", len(seedTeams), "players", playerID-1, "season", season)
	return nil
}
