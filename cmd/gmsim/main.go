// Command gmsim runs the dynasty trade engine: it seeds a league on first
// start, serves the trade API, and can demo an AI-to-AI negotiation.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/dynasty-gm/internal/api"
	"github.com/talgya/dynasty-gm/internal/config"
	"github.com/talgya/dynasty-gm/internal/draft"
	"github.com/talgya/dynasty-gm/internal/gm"
	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/store"
	"github.com/talgya/dynasty-gm/internal/trade"
	"github.com/talgya/dynasty-gm/internal/trade/value"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "gmsim.toml", "path to TOML config")
	demo := flag.Bool("demo", false, "run one AI-to-AI negotiation and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Store.Path, "season", db.Season())

	seeded, err := db.Seeded()
	if err != nil {
		slog.Error("failed to check seed state", "error", err)
		os.Exit(1)
	}
	if !seeded {
		slog.Info("empty league, seeding...", "seed", cfg.League.Seed)
		if err := db.Seed(cfg.League.Seed, gm.Preset); err != nil {
			slog.Error("failed to seed league", "error", err)
			os.Exit(1)
		}
	}

	// ── Engine wiring ─────────────────────────────────────────────────
	calc := value.New(db)
	evaluator := &gm.ArchetypeEvaluator{
		Archetypes: db,
		ContextFor: func(team league.TeamID) *league.TeamContext {
			ctx, err := db.TeamContext(team)
			if err != nil {
				return nil
			}
			return ctx
		},
	}
	orch := &trade.Orchestrator{
		Calc:       calc,
		Store:      db,
		Evaluator:  evaluator,
		Archetypes: db,
		Audit:      trade.SlogAuditLogger{},
		Popularity: db,
		MaxRounds:  cfg.Trade.MaxRounds,
	}
	advisor := &draft.Advisor{Calc: calc, Picks: db, Season: db.Season()}

	if *demo {
		runDemo(db, orch)
		return
	}

	// ── API ───────────────────────────────────────────────────────────
	server := &api.Server{
		Orch:     orch,
		Advisor:  advisor,
		DB:       db,
		Port:     cfg.Server.Port,
		AdminKey: cfg.Server.AdminKey,
	}
	server.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")
}

// demoTarget picks the player to ask for from a non-empty roster: the
// second-best when one exists, so the opening offer has a gap for the
// negotiator to bridge. Rosters come back best player first.
func demoTarget(roster []*league.Player) *league.Player {
	if len(roster) > 1 {
		return roster[1]
	}
	return roster[0]
}

// runDemo negotiates one player-for-player trade between the first two
// teams and prints the terminal outcome.
func runDemo(db *store.DB, orch *trade.Orchestrator) {
	teams, err := db.Teams()
	if err != nil || len(teams) < 2 {
		slog.Error("demo needs a seeded league", "error", err)
		os.Exit(1)
	}
	a, b := teams[0], teams[1]

	rosterA, _ := db.TeamPlayers(a.ID)
	rosterB, _ := db.TeamPlayers(b.ID)
	if len(rosterA) == 0 || len(rosterB) == 0 {
		slog.Error("demo rosters are empty")
		os.Exit(1)
	}

	initial, err := orch.ProposeTrade(
		a.ID, trade.AssetRefs{PlayerIDs: []uint64{rosterA[0].ID}},
		b.ID, trade.AssetRefs{PlayerIDs: []uint64{demoTarget(rosterB).ID}},
	)
	if err != nil {
		slog.Error("demo propose failed", "error", err)
		os.Exit(1)
	}
	slog.Info("opening offer",
		"teams", string(a.ID)+" / "+string(b.ID),
		"ratio", initial.Ratio,
		"fairness", initial.Fairness.String(),
	)

	result, err := orch.NegotiateTrade(initial, 0)
	if err != nil {
		slog.Error("demo negotiation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("negotiation finished",
		"success", result.Success,
		"reason", result.Reason.String(),
		"rounds", result.Rounds,
		"proposals", len(result.History),
	)

	if result.Success && result.Final != nil {
		exec, err := orch.ExecuteTrade(result.Final)
		if err != nil {
			slog.Error("demo execution failed", "error", err)
			os.Exit(1)
		}
		slog.Info("trade executed", "trade", exec.TradeID, "assets", len(exec.Transferred))
	}
}
