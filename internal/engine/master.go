package engine

import (
	"fmt"
	"math"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/milp"
)

// masterProblem owns the append-only pattern pool and formulates the
// demand-covering master program over it. Demand constraint i is built from
// beam type i in request order, so the i-th dual value is always the shadow
// price of type i.
type masterProblem struct {
	rollLength int
	lengths    []int
	quantities []int
	pool       [][]int
	solver     Solver
}

func newMasterProblem(solver Solver, req Request) *masterProblem {
	n := len(req.BeamRequirements)
	m := &masterProblem{
		rollLength: req.MasterRollLength,
		lengths:    make([]int, n),
		quantities: make([]int, n),
		solver:     solver,
	}
	for i, r := range req.BeamRequirements {
		m.lengths[i] = r.Length
		m.quantities[i] = r.Quantity
	}
	return m
}

// seed populates the pool with one trivial pattern per beam type: all rolls
// cut into as many pieces of that single type as fit. This makes the master
// program feasible from the first iteration.
func (m *masterProblem) seed() {
	for i, l := range m.lengths {
		p := make([]int, len(m.lengths))
		p[i] = m.rollLength / l
		if err := m.addPattern(p); err != nil {
			// trivial patterns are feasible by construction (length <= roll)
			panic(err)
		}
	}
}

// addPattern appends a pattern after verifying it fits on one roll.
func (m *masterProblem) addPattern(p []int) error {
	if len(p) != len(m.lengths) {
		return fmt.Errorf("pattern has %d entries for %d beam types", len(p), len(m.lengths))
	}
	used := 0
	for i, count := range p {
		if count < 0 {
			return fmt.Errorf("pattern count for beam %d is negative", i)
		}
		used += m.lengths[i] * count
	}
	if used > m.rollLength {
		return fmt.Errorf("pattern uses %d of a %d roll", used, m.rollLength)
	}
	m.pool = append(m.pool, p)
	return nil
}

// contains reports whether an identical pattern is already pooled.
func (m *masterProblem) contains(p []int) bool {
	for _, q := range m.pool {
		same := true
		for i := range q {
			if q[i] != p[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func (m *masterProblem) poolSize() int {
	return len(m.pool)
}

// problem builds the master program over the current pool: one variable per
// pattern, minimize the roll count, cover every demand.
func (m *masterProblem) problem(integer bool) milp.Problem {
	nPat := len(m.pool)
	obj := make([]float64, nPat)
	for j := range obj {
		obj[j] = 1
	}

	cons := make([]milp.Constraint, len(m.lengths))
	for i := range m.lengths {
		row := make([]float64, nPat)
		for j, p := range m.pool {
			row[j] = float64(p[i])
		}
		cons[i] = milp.Constraint{Coeffs: row, Sense: milp.GreaterEq, RHS: float64(m.quantities[i])}
	}

	p := milp.Problem{Objective: obj, Constraints: cons}
	if integer {
		mask := make([]bool, nPat)
		for j := range mask {
			mask[j] = true
		}
		p.Integer = mask
	}
	return p
}

// solveRelaxation solves the continuous master program and returns the
// pattern usage, the dual value per beam type, and the objective.
func (m *masterProblem) solveRelaxation() (x []float64, duals []float64, obj float64, err error) {
	sol, err := m.solver.Solve(m.problem(false))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("master relaxation: %w", err)
	}
	return sol.X, sol.Duals, sol.Objective, nil
}

// solveInteger solves the integer master program and returns the per-pattern
// roll counts and the total roll count.
func (m *masterProblem) solveInteger() ([]int, int, error) {
	sol, err := m.solver.SolveInteger(m.problem(true))
	if err != nil {
		return nil, 0, fmt.Errorf("master integer solve: %w", err)
	}
	counts := make([]int, len(sol.X))
	total := 0
	for j, v := range sol.X {
		counts[j] = int(math.Round(v))
		total += counts[j]
	}
	return counts, total, nil
}
