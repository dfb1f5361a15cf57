package db

import (
	"encoding/json"
	"log"
	"time"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/engine"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/format"
)

// SolveRecord is one archived solve from server mode.
type SolveRecord struct {
	ID               int64   `json:"id"`
	Timestamp        string  `json:"timestamp"`
	MasterRollLength int     `json:"master_roll_length"`
	BeamTypes        int     `json:"beam_types"`
	TotalRolls       int     `json:"total_rolls"`
	Efficiency       float64 `json:"efficiency"`
	TotalWaste       int     `json:"total_waste"`
	Iterations       int     `json:"iterations"`
	Convergence      string  `json:"convergence"`
}

// InsertSolve archives a completed solve together with its full request and
// response documents. Returns the new row id, or 0 on failure.
func (d *DB) InsertSolve(req engine.Request, resp format.Response) int64 {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		log.Printf("[DB] InsertSolve marshal request: %v", err)
		return 0
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[DB] InsertSolve marshal response: %v", err)
		return 0
	}

	res, err := d.sql.Exec(`INSERT INTO solve_history (
		timestamp, master_roll_length, beam_types,
		total_rolls, efficiency, total_waste,
		iterations, convergence, request_json, response_json
	) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().UTC().Format(time.RFC3339),
		req.MasterRollLength, len(req.BeamRequirements),
		resp.TotalRolls, resp.Efficiency, resp.TotalWaste,
		resp.Performance.Iterations, resp.Performance.Convergence,
		string(reqJSON), string(respJSON),
	)
	if err != nil {
		log.Printf("[DB] InsertSolve exec: %v", err)
		return 0
	}
	id, _ := res.LastInsertId()
	return id
}

// RecentSolves returns the newest archived solves, most recent first.
func (d *DB) RecentSolves(limit int) []SolveRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(`
		SELECT id, timestamp, master_roll_length, beam_types,
			total_rolls, efficiency, total_waste, iterations, convergence
		FROM solve_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		log.Printf("[DB] RecentSolves query: %v", err)
		return nil
	}
	defer rows.Close()

	var out []SolveRecord
	for rows.Next() {
		var r SolveRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.MasterRollLength, &r.BeamTypes,
			&r.TotalRolls, &r.Efficiency, &r.TotalWaste, &r.Iterations, &r.Convergence); err != nil {
			log.Printf("[DB] RecentSolves scan: %v", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// GetSolveResponse returns the archived response document for a solve, or
// nil when the row does not exist.
func (d *DB) GetSolveResponse(id int64) *format.Response {
	var raw string
	err := d.sql.QueryRow("SELECT response_json FROM solve_history WHERE id = ?", id).Scan(&raw)
	if err != nil {
		return nil
	}
	var resp format.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.Printf("[DB] GetSolveResponse unmarshal id=%d: %v", id, err)
		return nil
	}
	return &resp
}

// TrimHistory deletes the oldest rows beyond keep, preventing unbounded DB
// growth. Returns how many rows were removed.
func (d *DB) TrimHistory(keep int) int64 {
	if keep <= 0 {
		return 0
	}
	res, err := d.sql.Exec(`
		DELETE FROM solve_history WHERE id NOT IN (
			SELECT id FROM solve_history ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		log.Printf("[DB] TrimHistory: %v", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}
