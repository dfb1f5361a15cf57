package engine

import "fmt"

// Validate checks the preconditions of a problem instance. A nil error
// means the instance is safe to hand to the optimizer.
func Validate(req Request) error {
	if len(req.BeamRequirements) == 0 {
		return &ValidationError{Reason: "beam requirements must not be empty"}
	}
	if req.MasterRollLength <= 0 {
		return &ValidationError{Reason: "master roll length must be positive"}
	}
	maxLen := 0
	for i, r := range req.BeamRequirements {
		if r.Length <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("beam %d: length must be positive", i+1)}
		}
		if r.Quantity < 1 {
			return &ValidationError{Reason: fmt.Sprintf("beam %d: quantity must be at least 1", i+1)}
		}
		if r.Length > maxLen {
			maxLen = r.Length
		}
	}
	if req.MasterRollLength < maxLen {
		return &ValidationError{Reason: "master roll length must be at least as long as the longest beam"}
	}
	return nil
}
