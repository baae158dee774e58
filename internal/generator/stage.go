package generator

import "fmt"

// Stage is the single active phase of the generation workflow
type Stage string

// Pipeline stages
const (
	StageInput      Stage = "input"
	StageAnalysis   Stage = "analysis"
	StageSelection  Stage = "selection"
	StageGeneration Stage = "generation"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)

// allowedTransitions lists every legal stage change
var allowedTransitions = map[Stage][]Stage{
	StageInput:      {StageAnalysis},
	StageAnalysis:   {StageSelection, StageError},
	StageSelection:  {StageGeneration, StageInput},
	StageGeneration: {StageComplete, StageError},
	StageError:      {StageInput, StageSelection},
	StageComplete:   {StageInput},
}

// CanTransition reports whether from -> to is a legal move
func CanTransition(from, to Stage) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transition validates a move. The caller applies it.
func transition(from, to Stage) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsBusy reports whether the stage waits on an external call
func (s Stage) IsBusy() bool {
	return s == StageAnalysis || s == StageGeneration
}
