package db

import (
	"database/sql"
	"testing"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/engine"
	"github.com/kesavmanoj/BeamCut-Optimized/internal/format"

	_ "modernc.org/sqlite"
)

// openTestDB opens an in-memory SQLite DB and runs migrations (for testing only).
func openTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func sampleSolve() (engine.Request, format.Response) {
	req := engine.Request{
		MasterRollLength: 100,
		BeamRequirements: []engine.BeamRequirement{{Length: 40, Quantity: 3}, {Length: 60, Quantity: 2}},
	}
	resp := format.Response{
		TotalRolls:      3,
		Efficiency:      80,
		WastePercentage: 20,
		TotalWaste:      60,
		Performance: format.Performance{
			Iterations:  2,
			Convergence: engine.ConvergenceOptimal,
		},
	}
	return req, resp
}

func TestDB_MigrateAndSolveRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	req, resp := sampleSolve()
	id := d.InsertSolve(req, resp)
	if id <= 0 {
		t.Fatal("InsertSolve returned 0")
	}

	records := d.RecentSolves(5)
	if len(records) != 1 {
		t.Fatalf("RecentSolves(5) len = %d, want 1", len(records))
	}
	r := records[0]
	if r.ID != id {
		t.Errorf("ID = %d, want %d", r.ID, id)
	}
	if r.MasterRollLength != 100 || r.BeamTypes != 2 {
		t.Errorf("instance = %d/%d, want 100/2", r.MasterRollLength, r.BeamTypes)
	}
	if r.TotalRolls != 3 || r.TotalWaste != 60 {
		t.Errorf("totals = %d rolls / %d waste, want 3 / 60", r.TotalRolls, r.TotalWaste)
	}
	if r.Convergence != engine.ConvergenceOptimal {
		t.Errorf("Convergence = %q", r.Convergence)
	}
	if r.Timestamp == "" {
		t.Error("Timestamp is empty")
	}
}

func TestDB_GetSolveResponse(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	req, resp := sampleSolve()
	id := d.InsertSolve(req, resp)

	got := d.GetSolveResponse(id)
	if got == nil {
		t.Fatal("GetSolveResponse returned nil")
	}
	if got.TotalRolls != resp.TotalRolls || got.Efficiency != resp.Efficiency {
		t.Errorf("round-tripped response = %+v", got)
	}

	if d.GetSolveResponse(id+999) != nil {
		t.Error("GetSolveResponse for missing id should be nil")
	}
}

func TestDB_RecentSolvesOrderAndTrim(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	req, resp := sampleSolve()
	var last int64
	for i := 0; i < 5; i++ {
		last = d.InsertSolve(req, resp)
	}

	records := d.RecentSolves(3)
	if len(records) != 3 {
		t.Fatalf("RecentSolves(3) len = %d, want 3", len(records))
	}
	if records[0].ID != last {
		t.Errorf("newest first: got id %d, want %d", records[0].ID, last)
	}

	removed := d.TrimHistory(2)
	if removed != 3 {
		t.Errorf("TrimHistory removed %d, want 3", removed)
	}
	if n := len(d.RecentSolves(10)); n != 2 {
		t.Errorf("after trim len = %d, want 2", n)
	}
}
