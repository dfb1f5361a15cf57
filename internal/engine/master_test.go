package engine

import (
	"math"
	"testing"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/milp"
)

func newTestMaster(t *testing.T, req Request) *masterProblem {
	t.Helper()
	return newMasterProblem(milp.NewEngine(0), req)
}

func TestMaster_SeedTrivialPatterns(t *testing.T) {
	req := Request{MasterRollLength: 100, BeamRequirements: []BeamRequirement{{40, 3}, {60, 2}}}
	m := newTestMaster(t, req)
	m.seed()

	if m.poolSize() != 2 {
		t.Fatalf("poolSize = %d, want 2", m.poolSize())
	}
	want := [][]int{{2, 0}, {0, 1}}
	for j, p := range m.pool {
		for i := range p {
			if p[i] != want[j][i] {
				t.Errorf("pool[%d] = %v, want %v", j, p, want[j])
			}
		}
	}
}

func TestMaster_AddPatternRejectsOverfull(t *testing.T) {
	req := Request{MasterRollLength: 100, BeamRequirements: []BeamRequirement{{40, 3}, {60, 2}}}
	m := newTestMaster(t, req)

	if err := m.addPattern([]int{1, 1}); err != nil {
		t.Errorf("addPattern([1,1]) error = %v, want nil (uses exactly 100)", err)
	}
	if err := m.addPattern([]int{2, 1}); err == nil {
		t.Error("addPattern([2,1]) expected error: uses 140 of a 100 roll")
	}
	if err := m.addPattern([]int{1}); err == nil {
		t.Error("addPattern([1]) expected error: wrong arity")
	}
	if err := m.addPattern([]int{-1, 0}); err == nil {
		t.Error("addPattern([-1,0]) expected error: negative count")
	}
}

func TestMaster_Contains(t *testing.T) {
	req := Request{MasterRollLength: 100, BeamRequirements: []BeamRequirement{{40, 3}, {60, 2}}}
	m := newTestMaster(t, req)
	m.seed()

	if !m.contains([]int{2, 0}) {
		t.Error("contains([2,0]) = false, want true")
	}
	if m.contains([]int{1, 1}) {
		t.Error("contains([1,1]) = true, want false")
	}
}

func TestMaster_SolveRelaxationDuals(t *testing.T) {
	// over the trivial patterns the relaxation is x0 = 1.5, x1 = 2 with
	// duals 0.5 (a 40 piece costs half a roll) and 1.0 (a 60 piece costs a
	// whole roll, only one fits)
	req := Request{MasterRollLength: 100, BeamRequirements: []BeamRequirement{{40, 3}, {60, 2}}}
	m := newTestMaster(t, req)
	m.seed()

	x, duals, obj, err := m.solveRelaxation()
	if err != nil {
		t.Fatalf("solveRelaxation() error = %v", err)
	}
	if math.Abs(obj-3.5) > 1e-6 {
		t.Errorf("objective = %v, want 3.5", obj)
	}
	if math.Abs(x[0]-1.5) > 1e-6 || math.Abs(x[1]-2) > 1e-6 {
		t.Errorf("x = %v, want [1.5 2]", x)
	}
	if math.Abs(duals[0]-0.5) > 1e-6 || math.Abs(duals[1]-1) > 1e-6 {
		t.Errorf("duals = %v, want [0.5 1]", duals)
	}
	for i, d := range duals {
		if d < -1e-6 {
			t.Errorf("dual %d = %v, want non-negative", i, d)
		}
	}
}

func TestMaster_SolveIntegerCoversDemand(t *testing.T) {
	req := Request{MasterRollLength: 100, BeamRequirements: []BeamRequirement{{40, 3}, {60, 2}}}
	m := newTestMaster(t, req)
	m.seed()
	if err := m.addPattern([]int{1, 1}); err != nil {
		t.Fatalf("addPattern: %v", err)
	}

	counts, total, err := m.solveInteger()
	if err != nil {
		t.Fatalf("solveInteger() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total rolls = %d, want 3", total)
	}
	for i := range m.lengths {
		covered := 0
		for j, p := range m.pool {
			covered += p[i] * counts[j]
		}
		if covered < m.quantities[i] {
			t.Errorf("type %d covered %d, want >= %d", i, covered, m.quantities[i])
		}
	}
}
