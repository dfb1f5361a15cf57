package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/config"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/db"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/engine"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/format"
	"golang.org/x/sync/singleflight"
)

// Server is the HTTP API server that connects the optimizer and the solve
// history database.
type Server struct {
	cfg       *config.Config
	optimizer *engine.Optimizer
	db        *db.DB // nil disables history persistence

	// identical concurrent solve requests collapse into one computation
	solveGroup singleflight.Group

	started time.Time
}

// NewServer wires the API server. database may be nil, which disables the
// history endpoints' persistence but keeps solving available.
func NewServer(cfg *config.Config, optimizer *engine.Optimizer, database *db.DB) *Server {
	return &Server{
		cfg:       cfg,
		optimizer: optimizer,
		db:        database,
		started:   time.Now(),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/solve", s.handleSolve)
	mux.HandleFunc("GET /api/solve/history", s.handleHistory)
	mux.HandleFunc("GET /api/solve/history/{id}", s.handleHistoryDetail)
	return corsMiddleware(mux)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"ready":          true,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"max_iterations": s.cfg.MaxIterations,
		"history":        s.db != nil,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if err := engine.Validate(req); err != nil {
		writeError(w, 400, err.Error())
		return
	}

	key, err := json.Marshal(req)
	if err != nil {
		writeError(w, 400, "invalid request")
		return
	}

	start := time.Now()
	v, err, shared := s.solveGroup.Do(string(key), func() (interface{}, error) {
		res, err := s.optimizer.Solve(req)
		if err != nil {
			return nil, err
		}
		resp := format.BuildResponse(req, res)
		if s.db != nil {
			s.db.InsertSolve(req, resp)
			s.db.TrimHistory(s.cfg.HistoryLimit)
		}
		return resp, nil
	})
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			writeError(w, 400, verr.Reason)
			return
		}
		log.Printf("[API] Solve error: %v", err)
		writeError(w, 500, err.Error())
		return
	}

	resp := v.(format.Response)
	log.Printf("[API] Solve complete: L=%d, types=%d, rolls=%d, %s in %dms (shared=%v)",
		req.MasterRollLength, len(req.BeamRequirements), resp.TotalRolls,
		resp.Performance.Convergence, time.Since(start).Milliseconds(), shared)
	writeJSON(w, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, []db.SolveRecord{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	records := s.db.RecentSolves(limit)
	if records == nil {
		records = []db.SolveRecord{}
	}
	writeJSON(w, records)
}

func (s *Server) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, 404, "history disabled")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	resp := s.db.GetSolveResponse(id)
	if resp == nil {
		writeError(w, 404, "solve not found")
		return
	}
	writeJSON(w, resp)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
