package engine

import (
	"fmt"
	"math"
	"time"
)

// reducedCostTol is the convergence threshold for the pricing loop: a new
// pattern only enters the pool when its reduced cost is below -reducedCostTol.
const reducedCostTol = 1e-5

// defaultMaxIterations caps the column-generation loop when no explicit cap
// is configured.
const defaultMaxIterations = 50

// Optimizer solves cutting stock instances by column generation: a master
// program over the known patterns alternates with a knapsack pricing
// subproblem until no pattern with negative reduced cost remains, then an
// integer solve turns the pool into realizable roll counts.
type Optimizer struct {
	solver        Solver
	maxIterations int
}

// NewOptimizer returns an Optimizer over the given backend. maxIterations
// <= 0 selects the default cap.
func NewOptimizer(solver Solver, maxIterations int) *Optimizer {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &Optimizer{solver: solver, maxIterations: maxIterations}
}

// Solve runs the full column-generation procedure for one instance. The
// request is validated first; a ValidationError or a backend failure aborts
// the solve, while hitting the iteration cap or stalling still yields a
// result labeled through its Convergence field.
func (o *Optimizer) Solve(req Request) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	n := len(req.BeamRequirements)

	master := newMasterProblem(o.solver, req)
	oracle := &pricingOracle{
		rollLength: master.rollLength,
		lengths:    master.lengths,
		solver:     o.solver,
	}

	var steps []Step
	record := func(name, description string, d time.Duration) {
		steps = append(steps, Step{
			Step:        len(steps) + 1,
			Name:        name,
			Description: description,
			Status:      "completed",
			Duration:    roundSeconds(d),
		})
	}

	master.seed()
	patternsEvaluated := master.poolSize()
	record("Initial Pattern Generation",
		fmt.Sprintf("Generated %d initial patterns based on beam types", n), 10*time.Millisecond)

	convergence := ConvergenceIterationCap
	iterations := 0
	var lastReduced float64

	for iterations < o.maxIterations {
		iterations++

		stepStart := time.Now()
		_, duals, _, err := master.solveRelaxation()
		if err != nil {
			return nil, err
		}
		if iterations == 1 {
			record("Master Problem LP Relaxation",
				fmt.Sprintf("Solved linear programming relaxation, obtained dual values: %v", rounded(duals, 3)),
				time.Since(stepStart))
		}

		stepStart = time.Now()
		pattern, reduced, err := oracle.bestPattern(duals)
		if err != nil {
			return nil, err
		}
		patternsEvaluated++
		lastReduced = reduced
		if iterations == 1 {
			record("Pricing Subproblem",
				fmt.Sprintf("Solved knapsack problem, found pattern %v with reduced cost %v", pattern, round(reduced, 6)),
				time.Since(stepStart))
		}

		if reduced >= -reducedCostTol {
			convergence = ConvergenceOptimal
			record("Convergence Check",
				fmt.Sprintf("Algorithm converged after %d iterations (reduced cost: %v)", iterations, round(reduced, 6)),
				10*time.Millisecond)
			break
		}

		// solver rounding can re-propose a pooled pattern despite a
		// negative reduced cost; adding it again would loop forever
		if master.contains(pattern) {
			convergence = ConvergenceStalled
			record("Convergence Check",
				fmt.Sprintf("Pricing stalled on a known pattern after %d iterations (reduced cost: %v)", iterations, round(reduced, 6)),
				10*time.Millisecond)
			break
		}

		if err := master.addPattern(pattern); err != nil {
			return nil, fmt.Errorf("pricing returned infeasible pattern: %w", err)
		}
	}

	if convergence == ConvergenceIterationCap {
		record("Convergence Check",
			fmt.Sprintf("Iteration cap reached after %d iterations (reduced cost: %v)", iterations, round(lastReduced, 6)),
			10*time.Millisecond)
	}

	stepStart := time.Now()
	counts, totalRolls, err := master.solveInteger()
	if err != nil {
		return nil, err
	}
	record("Integer Solution",
		fmt.Sprintf("Solved final integer programming problem, optimal solution uses %d rolls", totalRolls),
		time.Since(stepStart))

	res := o.compose(req, master, counts, totalRolls)
	res.Iterations = iterations
	res.PatternsEvaluated = patternsEvaluated
	res.Convergence = convergence
	res.Steps = steps
	res.ExecutionTime = roundSeconds(time.Since(start))
	res.PoolMemoryMB = round(float64(master.poolSize()*n*8)/1024/1024, 2)
	return res, nil
}

// compose turns the integer roll counts into the final cutting plan.
func (o *Optimizer) compose(req Request, master *masterProblem, counts []int, totalRolls int) *Result {
	L := master.rollLength

	lengthUsed := 0
	for i := range master.lengths {
		lengthUsed += master.lengths[i] * master.quantities[i]
	}
	lengthBought := totalRolls * L
	totalWaste := lengthBought - lengthUsed

	wastePct := 0.0
	if lengthBought > 0 {
		wastePct = 100 * float64(totalWaste) / float64(lengthBought)
	}

	var patterns []Pattern
	for j, p := range master.pool {
		if counts[j] <= 0 {
			continue
		}
		delivered := 0
		var cuts []Cut
		for i, count := range p {
			if count > 0 {
				cuts = append(cuts, Cut{Length: master.lengths[i], Quantity: count})
				delivered += master.lengths[i] * count
			}
		}
		patterns = append(patterns, Pattern{
			ID:          fmt.Sprintf("pattern_%d", j+1),
			Cuts:        cuts,
			TotalLength: delivered,
			Waste:       L - delivered,
			RollsUsed:   counts[j],
		})
	}

	return &Result{
		TotalRolls:      totalRolls,
		Efficiency:      round(100-wastePct, 2),
		WastePercentage: round(wastePct, 2),
		TotalWaste:      totalWaste,
		Patterns:        patterns,
	}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func roundSeconds(d time.Duration) float64 {
	return round(d.Seconds(), 3)
}

func rounded(vs []float64, decimals int) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round(v, decimals)
	}
	return out
}
