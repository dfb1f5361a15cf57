// Package milp solves small linear and mixed-integer linear programs over
// non-negative decision variables. Linear relaxations go through gonum's
// simplex implementation; integer programs are solved by branch and bound
// on top of it. Shadow prices for LP constraints are recovered by solving
// the explicit dual program, so callers never depend on the internal row
// ordering of the simplex backend.
package milp

import (
	"errors"
	"fmt"
	"math"
)

// Sense is the direction of a linear constraint.
type Sense int

const (
	// LessEq is a "sum <= rhs" constraint.
	LessEq Sense = iota
	// GreaterEq is a "sum >= rhs" constraint.
	GreaterEq
)

// Constraint is a single linear constraint over the problem's variables.
// Coeffs must have one entry per variable, in variable order.
type Constraint struct {
	Coeffs []float64
	Sense  Sense
	RHS    float64
}

// Problem is a linear program (optionally mixed-integer) over non-negative
// variables. Constraint order is significant: Solution.Duals is indexed the
// same way as Constraints.
type Problem struct {
	// Maximize flips the objective direction; minimization is the default.
	Maximize bool

	// Objective holds one coefficient per decision variable.
	Objective []float64

	Constraints []Constraint

	// Integer marks which variables carry an integrality constraint.
	// May be nil for a pure LP. Ignored by Solve, honored by SolveInteger.
	Integer []bool
}

// Solution holds the optimum of a solved Problem.
type Solution struct {
	// X holds the optimal value of each decision variable.
	X []float64

	// Objective is the optimal objective value in the problem's original
	// direction (not the internal minimization form).
	Objective float64

	// Duals holds one shadow price per constraint, in constraint order.
	// Populated by Solve only; integer programs have no meaningful duals.
	Duals []float64
}

var (
	// ErrInfeasible is returned when no feasible point exists.
	ErrInfeasible = errors.New("milp: problem is infeasible")

	// ErrNoIntegerSolution is returned when branch and bound exhausts the
	// tree without finding an integer-feasible point.
	ErrNoIntegerSolution = errors.New("milp: no integer feasible solution")

	// ErrNodeLimit is returned when branch and bound hits its node budget
	// before finding any integer-feasible point.
	ErrNodeLimit = errors.New("milp: branch and bound node limit reached")
)

// intTol is the tolerance for treating a relaxation value as integral,
// and the margin by which a node must beat the incumbent to be explored.
const intTol = 1e-6

// Engine runs the simplex and branch-and-bound machinery. The zero value
// is usable; NodeLimit <= 0 falls back to a default budget.
type Engine struct {
	// NodeLimit bounds the number of branch-and-bound nodes explored per
	// integer solve.
	NodeLimit int
}

const defaultNodeLimit = 20000

// NewEngine returns an Engine with the given branch-and-bound node budget.
func NewEngine(nodeLimit int) *Engine {
	return &Engine{NodeLimit: nodeLimit}
}

func (e *Engine) nodeBudget() int {
	if e.NodeLimit > 0 {
		return e.NodeLimit
	}
	return defaultNodeLimit
}

// validate sanity-checks the problem dimensions before any solving starts.
func validate(p Problem) error {
	n := len(p.Objective)
	if n == 0 {
		return errors.New("milp: problem has no variables")
	}
	if p.Integer != nil && len(p.Integer) != n {
		return fmt.Errorf("milp: integrality mask has %d entries for %d variables", len(p.Integer), n)
	}
	for i, c := range p.Constraints {
		if len(c.Coeffs) != n {
			return fmt.Errorf("milp: constraint %d has %d coefficients for %d variables", i, len(c.Coeffs), n)
		}
	}
	return nil
}

// isIntegral reports whether v is within intTol of an integer.
func isIntegral(v float64) bool {
	return math.Abs(v-math.Round(v)) <= intTol
}
