package engine

import (
	"math"
	"testing"

	"github.com/kesavmanoj/BeamCut-Optimized/internal/milp"
)

func TestPricing_FindsImprovingPattern(t *testing.T) {
	// at duals (0.5, 1.0) the best packing of 40/60 pieces onto a 100 roll
	// is one of each: value 1.5, reduced cost -0.5
	o := &pricingOracle{
		rollLength: 100,
		lengths:    []int{40, 60},
		solver:     milp.NewEngine(0),
	}

	pattern, reduced, err := o.bestPattern([]float64{0.5, 1.0})
	if err != nil {
		t.Fatalf("bestPattern() error = %v", err)
	}
	if pattern[0] != 1 || pattern[1] != 1 {
		t.Errorf("pattern = %v, want [1 1]", pattern)
	}
	if math.Abs(reduced-(-0.5)) > 1e-6 {
		t.Errorf("reduced cost = %v, want -0.5", reduced)
	}
}

func TestPricing_ZeroDualsConverge(t *testing.T) {
	// with all duals at zero no packing has value, so the reduced cost is 1
	// and the oracle signals convergence rather than failing
	o := &pricingOracle{
		rollLength: 100,
		lengths:    []int{40, 60},
		solver:     milp.NewEngine(0),
	}

	_, reduced, err := o.bestPattern([]float64{0, 0})
	if err != nil {
		t.Fatalf("bestPattern() error = %v", err)
	}
	if math.Abs(reduced-1) > 1e-6 {
		t.Errorf("reduced cost = %v, want 1", reduced)
	}
}

func TestPricing_PatternFitsRoll(t *testing.T) {
	o := &pricingOracle{
		rollLength: 17,
		lengths:    []int{5, 3, 7},
		solver:     milp.NewEngine(0),
	}

	pattern, _, err := o.bestPattern([]float64{0.9, 0.4, 1.1})
	if err != nil {
		t.Fatalf("bestPattern() error = %v", err)
	}
	used := 0
	for i, c := range pattern {
		if c < 0 {
			t.Errorf("pattern[%d] = %d, want non-negative", i, c)
		}
		used += c * o.lengths[i]
	}
	if used > o.rollLength {
		t.Errorf("pattern %v uses %d of a %d roll", pattern, used, o.rollLength)
	}
}
