// Package api serves the trade engine over HTTP. GET endpoints are public
// read-only queries; POST endpoints act on league state and require a
// bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/talgya/dynasty-gm/internal/draft"
	"github.com/talgya/dynasty-gm/internal/league"
	"github.com/talgya/dynasty-gm/internal/store"
	"github.com/talgya/dynasty-gm/internal/trade"
)

// Server exposes the trade engine.
type Server struct {
	Orch     *trade.Orchestrator
	Advisor  *draft.Advisor
	DB       *store.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /teams", s.handleTeams)
	mux.HandleFunc("GET /teams/{id}/picks", s.handleTeamPicks)
	mux.HandleFunc("GET /teams/{id}/roster", s.handleTeamRoster)
	mux.HandleFunc("GET /trades/{id}", s.handleTrade)

	mux.HandleFunc("POST /trades/propose", s.admin(s.handlePropose))
	mux.HandleFunc("POST /trades/evaluate", s.admin(s.handleEvaluate))
	mux.HandleFunc("POST /trades/decide", s.admin(s.handleDecide))
	mux.HandleFunc("POST /trades/negotiate", s.admin(s.handleNegotiate))
	mux.HandleFunc("POST /trades/execute", s.admin(s.handleExecute))
	mux.HandleFunc("POST /draft/advise", s.admin(s.handleAdvise))

	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      logRequests(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server failed", "error", err)
		}
	}()
}

// admin guards a POST handler with the bearer token.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			writeError(w, http.StatusForbidden, "write endpoints disabled")
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.AdminKey {
			writeError(w, http.StatusUnauthorized, "bad token")
			return
		}
		next(w, r)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "season": s.DB.Season()})
}

func (s *Server) handleTeams(w http.ResponseWriter, _ *http.Request) {
	teams, err := s.DB.Teams()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, teams)
}

func (s *Server) handleTeamPicks(w http.ResponseWriter, r *http.Request) {
	picks, err := s.DB.TeamPicks(league.TeamID(r.PathValue("id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, picks)
}

func (s *Server) handleTeamRoster(w http.ResponseWriter, r *http.Request) {
	players, err := s.DB.TeamPlayers(league.TeamID(r.PathValue("id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, players)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	rec, err := s.DB.Trade(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, rec)
}

// tradeRequest names both sides of an exchange by identifier.
type tradeRequest struct {
	TeamA   league.TeamID   `json:"team_a"`
	AssetsA trade.AssetRefs `json:"assets_a"`
	TeamB   league.TeamID   `json:"team_b"`
	AssetsB trade.AssetRefs `json:"assets_b"`

	// Extras for decide/negotiate.
	Team      league.TeamID `json:"team,omitempty"`
	MaxRounds int           `json:"max_rounds,omitempty"`
}

func (s *Server) buildProposal(w http.ResponseWriter, r *http.Request) (*trade.Proposal, *tradeRequest, bool) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return nil, nil, false
	}
	p, err := s.Orch.ProposeTrade(req.TeamA, req.AssetsA, req.TeamB, req.AssetsB)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return p, &req, true
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	p, _, ok := s.buildProposal(w, r)
	if !ok {
		return
	}
	writeJSON(w, p)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	p, _, ok := s.buildProposal(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"proposal":   p,
		"acceptable": p.Fairness.Acceptable(),
	})
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	p, req, ok := s.buildProposal(w, r)
	if !ok {
		return
	}
	dec, err := s.Orch.EvaluateAITrade(p, req.Team)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, dec)
}

func (s *Server) handleNegotiate(w http.ResponseWriter, r *http.Request) {
	p, req, ok := s.buildProposal(w, r)
	if !ok {
		return
	}
	result, err := s.Orch.NegotiateTrade(p, req.MaxRounds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	p, _, ok := s.buildProposal(w, r)
	if !ok {
		return
	}
	result, err := s.Orch.ExecuteTrade(p)
	if err != nil {
		var conflict *trade.ConflictError
		if errors.As(err, &conflict) {
			writeError(w, http.StatusConflict, conflict.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, result)
}

// adviseRequest identifies the human team's on-the-clock pick.
type adviseRequest struct {
	Team         league.TeamID `json:"team"`
	Year         int           `json:"year"`
	Round        int           `json:"round"`
	OriginalTeam league.TeamID `json:"original_team"`
	Rebuilding   bool          `json:"rebuilding"`
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req adviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	pick, err := s.DB.Pick(req.Year, req.Round, req.OriginalTeam)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	offers, err := s.Advisor.TradeUpOffers(req.Team, pick, req.Rebuilding)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, offers)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
