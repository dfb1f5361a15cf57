package milp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// canonical is a problem rewritten as: minimize c'x subject to Ax >= b,
// x >= 0. sign maps each canonical row back to the caller's constraint: a
// "<=" row is negated on the way in, so its shadow price flips on the way
// out.
type canonical struct {
	c    []float64
	rows [][]float64
	rhs  []float64
	sign []float64
}

func canonicalize(p Problem) canonical {
	n := len(p.Objective)

	c := make([]float64, n)
	copy(c, p.Objective)
	if p.Maximize {
		for i := range c {
			c[i] = -c[i]
		}
	}

	cf := canonical{
		c:    c,
		rows: make([][]float64, len(p.Constraints)),
		rhs:  make([]float64, len(p.Constraints)),
		sign: make([]float64, len(p.Constraints)),
	}
	for i, con := range p.Constraints {
		row := make([]float64, n)
		copy(row, con.Coeffs)
		rhs := con.RHS
		sign := 1.0
		if con.Sense == LessEq {
			for j := range row {
				row[j] = -row[j]
			}
			rhs = -rhs
			sign = -1
		}
		cf.rows[i] = row
		cf.rhs[i] = rhs
		cf.sign[i] = sign
	}
	return cf
}

// solveLE minimizes c'x subject to Gx <= h, x >= 0 by introducing one slack
// variable per inequality and handing the resulting equality-form program
// to gonum's simplex. Returns the objective and the non-slack part of x.
func solveLE(c []float64, G [][]float64, h []float64) (float64, []float64, error) {
	nVar := len(c)
	nIneq := len(h)
	if nIneq == 0 {
		return 0, nil, errors.New("milp: no constraints")
	}

	cNew := make([]float64, nVar+nIneq)
	copy(cNew, c)

	A := mat.NewDense(nIneq, nVar+nIneq, nil)
	for i := 0; i < nIneq; i++ {
		for j := 0; j < nVar; j++ {
			A.Set(i, j, G[i][j])
		}
		// slack variable turns row i into an equality
		A.Set(i, nVar+i, 1)
	}

	b := make([]float64, nIneq)
	copy(b, h)

	z, x, err := lp.Simplex(cNew, A, b, 0, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, ErrInfeasible
		default:
			return 0, nil, fmt.Errorf("milp: simplex: %w", err)
		}
	}
	return z, x[:nVar], nil
}

// solveCanonical minimizes over the canonical (Ax >= b) form by flipping
// the rows into <= orientation for the simplex call.
func solveCanonical(cf canonical) (float64, []float64, error) {
	G := make([][]float64, len(cf.rows))
	h := make([]float64, len(cf.rhs))
	for i, row := range cf.rows {
		neg := make([]float64, len(row))
		for j, v := range row {
			neg[j] = -v
		}
		G[i] = neg
		h[i] = -cf.rhs[i]
	}
	return solveLE(cf.c, G, h)
}

// dualValues recovers the shadow prices of the canonical program by solving
// its dual: maximize b'y subject to A'y <= c, y >= 0. By strong duality the
// optimal y prices the canonical rows; row signs map them back to the
// caller's constraint orientation.
func dualValues(cf canonical) ([]float64, error) {
	m := len(cf.rows)
	n := len(cf.c)

	// transpose: one dual constraint per primal variable
	Gt := make([][]float64, n)
	for j := 0; j < n; j++ {
		col := make([]float64, m)
		for i := 0; i < m; i++ {
			col[i] = cf.rows[i][j]
		}
		Gt[j] = col
	}
	ht := make([]float64, n)
	copy(ht, cf.c)

	negB := make([]float64, m)
	for i, v := range cf.rhs {
		negB[i] = -v
	}

	_, y, err := solveLE(negB, Gt, ht)
	if err != nil {
		return nil, fmt.Errorf("milp: dual solve: %w", err)
	}

	duals := make([]float64, m)
	for i := range y {
		duals[i] = cf.sign[i] * y[i]
	}
	return duals, nil
}

// Solve solves the linear relaxation of p (integrality marks are ignored)
// and returns the primal optimum together with one shadow price per
// constraint.
func (e *Engine) Solve(p Problem) (Solution, error) {
	if err := validate(p); err != nil {
		return Solution{}, err
	}

	cf := canonicalize(p)
	z, x, err := solveCanonical(cf)
	if err != nil {
		return Solution{}, err
	}

	duals, err := dualValues(cf)
	if err != nil {
		return Solution{}, err
	}

	sol := Solution{X: x, Objective: z, Duals: duals}
	if p.Maximize {
		sol.Objective = -z
		for i := range sol.Duals {
			sol.Duals[i] = -sol.Duals[i]
		}
	}
	return sol, nil
}
