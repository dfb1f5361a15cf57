package engine

import (
	"fmt"
	"math"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/milp"
	"gonum.org/v1/gonum/floats"
)

// pricingOracle searches for the single most profitable new pattern at the
// current dual prices by solving a bounded integer knapsack: maximize the
// dual value packed onto one roll.
type pricingOracle struct {
	rollLength int
	lengths    []int
	solver     Solver
}

// bestPattern returns the optimal pattern for the given duals and its
// reduced cost 1 - pi*y. The knapsack is always feasible (the empty pattern
// has value 0), so an error here is a backend failure, not convergence.
func (o *pricingOracle) bestPattern(duals []float64) ([]int, float64, error) {
	n := len(o.lengths)

	row := make([]float64, n)
	for i, l := range o.lengths {
		row[i] = float64(l)
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}

	p := milp.Problem{
		Maximize:  true,
		Objective: append([]float64(nil), duals...),
		Constraints: []milp.Constraint{
			{Coeffs: row, Sense: milp.LessEq, RHS: float64(o.rollLength)},
		},
		Integer: mask,
	}

	sol, err := o.solver.SolveInteger(p)
	if err != nil {
		return nil, 0, fmt.Errorf("pricing knapsack: %w", err)
	}

	pattern := make([]int, n)
	yf := make([]float64, n)
	for i, v := range sol.X {
		pattern[i] = int(math.Round(v))
		yf[i] = float64(pattern[i])
	}
	reduced := 1 - floats.Dot(duals, yf)
	return pattern, reduced, nil
}
