package milp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize/convex/lp"
)

// branch-and-bound over simplex relaxations. Each node carries the extra
// variable bounds accumulated on its path from the root; everything else is
// shared with the root problem.

// nodeBound is a single branching cut: factor*x[varIdx] <= rhs. factor is
// +1 for "x <= floor(v)" branches and -1 for "x >= floor(v)+1" branches.
type nodeBound struct {
	varIdx int
	factor float64
	rhs    float64
}

type bnbNode struct {
	bounds []nodeBound
}

func (n bnbNode) child(varIdx int, factor, rhs float64) bnbNode {
	bounds := make([]nodeBound, len(n.bounds), len(n.bounds)+1)
	copy(bounds, n.bounds)
	return bnbNode{bounds: append(bounds, nodeBound{varIdx: varIdx, factor: factor, rhs: rhs})}
}

// relax solves the node's LP relaxation: the canonical constraints plus the
// node's branching cuts, all in <= orientation.
func (n bnbNode) relax(cf canonical) (float64, []float64, error) {
	nVar := len(cf.c)
	G := make([][]float64, 0, len(cf.rows)+len(n.bounds))
	h := make([]float64, 0, len(cf.rhs)+len(n.bounds))
	for i, row := range cf.rows {
		neg := make([]float64, nVar)
		for j, v := range row {
			neg[j] = -v
		}
		G = append(G, neg)
		h = append(h, -cf.rhs[i])
	}
	for _, b := range n.bounds {
		row := make([]float64, nVar)
		row[b.varIdx] = b.factor
		G = append(G, row)
		h = append(h, b.rhs)
	}
	return solveLE(cf.c, G, h)
}

// fractionalVar picks the integer-constrained variable whose relaxation
// value has the fractional part closest to 1/2. Returns -1 when the point
// is integer feasible.
func fractionalVar(x []float64, integer []bool) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range x {
		if !integer[i] || isIntegral(v) {
			continue
		}
		_, frac := math.Modf(v)
		dist := math.Abs(frac - 0.5)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// SolveInteger solves p with its integrality mask applied, using
// depth-first branch and bound with incumbent pruning. If the node budget
// runs out before the tree is exhausted, the search stops: with ErrNodeLimit
// when no integer-feasible point has been found yet, otherwise by returning
// the best incumbent so far, which is then not proven optimal.
func (e *Engine) SolveInteger(p Problem) (Solution, error) {
	if err := validate(p); err != nil {
		return Solution{}, err
	}

	integer := p.Integer
	if integer == nil {
		integer = make([]bool, len(p.Objective))
	}

	cf := canonicalize(p)

	var incumbent []float64
	incumbentZ := math.Inf(1)

	stack := []bnbNode{{}}
	nodes := 0
	budget := e.nodeBudget()

	for len(stack) > 0 {
		if nodes >= budget {
			if incumbent == nil {
				return Solution{}, ErrNodeLimit
			}
			// best effort: keep the incumbent found so far
			break
		}
		nodes++

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		z, x, err := node.relax(cf)
		if err != nil {
			// an infeasible or degenerate subproblem just prunes this branch
			if errors.Is(err, ErrInfeasible) || errors.Is(err, lp.ErrSingular) {
				continue
			}
			return Solution{}, err
		}

		// bound: the relaxation cannot beat the incumbent
		if z > incumbentZ-intTol {
			continue
		}

		branchOn := fractionalVar(x, integer)
		if branchOn < 0 {
			incumbent = x
			incumbentZ = z
			continue
		}

		floor := math.Floor(x[branchOn])
		stack = append(stack,
			node.child(branchOn, -1, -(floor + 1)), // x >= floor+1
			node.child(branchOn, 1, floor),         // x <= floor
		)
	}

	if incumbent == nil {
		return Solution{}, ErrNoIntegerSolution
	}

	// snap near-integral values so callers can cast safely, then
	// recompute the objective from the snapped point
	x := make([]float64, len(incumbent))
	z := 0.0
	for i, v := range incumbent {
		if integer[i] {
			x[i] = math.Round(v)
		} else {
			x[i] = v
		}
		z += cf.c[i] * x[i]
	}

	sol := Solution{X: x, Objective: z}
	if p.Maximize {
		sol.Objective = -z
	}
	return sol, nil
}
