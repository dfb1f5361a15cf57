package engine

import "github.com/kesavmanoj/BeamCut-Optimized/internal/milp"

// BeamRequirement is one demanded piece type: a length and how many pieces
// of it are needed. Duplicate lengths are allowed and stay distinct types;
// the position in the request is the type's identity for the whole solve.
type BeamRequirement struct {
	Length   int `json:"length"`
	Quantity int `json:"quantity"`
}

// Request is a cutting stock problem instance.
type Request struct {
	MasterRollLength int               `json:"masterRollLength"`
	BeamRequirements []BeamRequirement `json:"beamRequirements"`
}

// Cut is one piece type produced by a pattern, with the per-roll count.
type Cut struct {
	Length   int `json:"length"`
	Quantity int `json:"quantity"`
}

// Pattern describes how the rolls assigned to it are cut.
type Pattern struct {
	ID          string `json:"id"`
	Cuts        []Cut  `json:"cuts"`
	TotalLength int    `json:"totalLength"` // length delivered per roll
	Waste       int    `json:"waste"`       // leftover per roll
	RollsUsed   int    `json:"rollsUsed"`
}

// Step records one named phase of the algorithm for diagnostics. Steps are
// descriptive only and never feed back into the solve.
type Step struct {
	Step        int     `json:"step"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Duration    float64 `json:"duration"` // seconds
}

// Convergence outcomes of the column-generation loop. IterationCap and
// Stalled are algorithmic outcomes, not failures: the result is still valid
// for the pool built so far.
const (
	ConvergenceOptimal      = "optimal"
	ConvergenceIterationCap = "iteration_cap"
	ConvergenceStalled      = "stalled"
)

// Result is the complete cutting plan for one solved instance.
type Result struct {
	TotalRolls      int       `json:"totalRolls"`
	Efficiency      float64   `json:"efficiency"`
	WastePercentage float64   `json:"wastePercentage"`
	TotalWaste      int       `json:"totalWaste"`
	Patterns        []Pattern `json:"patterns"`

	Iterations        int    `json:"iterations"`
	PatternsEvaluated int    `json:"patternsEvaluated"`
	Convergence       string `json:"convergence"`

	Steps         []Step  `json:"steps"`
	ExecutionTime float64 `json:"executionTime"` // seconds
	PoolMemoryMB  float64 `json:"poolMemoryMB"`
}

// Solver abstracts the LP/IP backend. Solve returns the linear relaxation
// optimum with one shadow price per constraint; SolveInteger returns the
// integer optimum. *milp.Engine satisfies it.
type Solver interface {
	Solve(p milp.Problem) (milp.Solution, error)
	SolveInteger(p milp.Problem) (milp.Solution, error)
}

// ValidationError reports a problem instance rejected before solving.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
