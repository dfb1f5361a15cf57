// Package format turns a structured cutting plan into the wire response:
// human-readable cutting instructions, algorithm step narration, and the
// performance block. It is purely presentational; nothing here feeds back
// into the solve.
package format

import (
	"fmt"
	"strings"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/engine"
)

// Instruction is one numbered operator step of the cutting plan.
type Instruction struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
	RollsCount  int    `json:"rollsCount"`
}

// Performance summarizes the solve run for diagnostics.
type Performance struct {
	ExecutionTime     float64 `json:"executionTime"`
	MemoryUsage       float64 `json:"memoryUsage"` // approximate pattern pool size, MB
	PatternsEvaluated int     `json:"patternsEvaluated"`
	Iterations        int     `json:"iterations"`
	Convergence       string  `json:"convergence"`
}

// Response is the full solve document written to the client.
type Response struct {
	TotalRolls          int              `json:"totalRolls"`
	Efficiency          float64          `json:"efficiency"`
	WastePercentage     float64          `json:"wastePercentage"`
	TotalWaste          int              `json:"totalWaste"`
	Patterns            []engine.Pattern `json:"patterns"`
	CuttingInstructions []Instruction    `json:"cuttingInstructions"`
	AlgorithmSteps      []engine.Step    `json:"algorithmSteps"`
	Performance         Performance      `json:"performance"`
}

// ErrorResponse is the wire shape of a failed solve.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BuildResponse composes the wire response for a solved instance.
func BuildResponse(req engine.Request, res *engine.Result) Response {
	return Response{
		TotalRolls:          res.TotalRolls,
		Efficiency:          res.Efficiency,
		WastePercentage:     res.WastePercentage,
		TotalWaste:          res.TotalWaste,
		Patterns:            res.Patterns,
		CuttingInstructions: Instructions(req, res),
		AlgorithmSteps:      res.Steps,
		Performance: Performance{
			ExecutionTime:     res.ExecutionTime,
			MemoryUsage:       res.PoolMemoryMB,
			PatternsEvaluated: res.PatternsEvaluated,
			Iterations:        res.Iterations,
			Convergence:       res.Convergence,
		},
	}
}

// Instructions renders the operator steps: one per used pattern, plus the
// final inventory check.
func Instructions(req engine.Request, res *engine.Result) []Instruction {
	var out []Instruction
	step := 1

	for _, p := range res.Patterns {
		parts := make([]string, len(p.Cuts))
		for i, c := range p.Cuts {
			parts[i] = fmt.Sprintf("%d pieces of %dmm", c.Quantity, c.Length)
		}
		plural := ""
		if p.RollsUsed > 1 {
			plural = "s"
		}
		out = append(out, Instruction{
			Step:        step,
			Description: fmt.Sprintf("Take %d master roll%s of %dmm length", p.RollsUsed, plural, req.MasterRollLength),
			Pattern:     "Cut each roll: " + strings.Join(parts, ", "),
			RollsCount:  p.RollsUsed,
		})
		step++
	}

	out = append(out, Instruction{
		Step:        step,
		Description: "Final inventory check:",
		Pattern:     inventorySummary(req) + " - All requirements met!",
		RollsCount:  0,
	})
	return out
}

// inventorySummary aggregates demand by length in first-appearance order,
// so duplicate lengths in the request sum up instead of colliding.
func inventorySummary(req engine.Request) string {
	totals := make(map[int]int)
	var order []int
	for _, r := range req.BeamRequirements {
		if _, seen := totals[r.Length]; !seen {
			order = append(order, r.Length)
		}
		totals[r.Length] += r.Quantity
	}
	parts := make([]string, len(order))
	for i, length := range order {
		parts[i] = fmt.Sprintf("%d pieces of %dmm", totals[length], length)
	}
	return strings.Join(parts, ", ")
}
