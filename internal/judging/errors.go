package judging

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotAssigned          = errors.New("judge not assigned to this hackathon")
	ErrProjectNotFound      = errors.New("project not found")
	ErrHackathonNotFound    = errors.New("hackathon not found")
	ErrHackathonNotScorable = errors.New("hackathon not active")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrScoreNotFound        = errors.New("score not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
)

// MissingCriterionError names the required criterion a submission left out.
type MissingCriterionError struct {
	Name string
}

func (e *MissingCriterionError) Error() string {
	return fmt.Sprintf("missing required criterion %q", e.Name)
}

// UnknownCriterionError names a submitted key that matches no active criterion.
type UnknownCriterionError struct {
	Key string
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("unknown criterion %q", e.Key)
}

// OutOfRangeError names a value outside its criterion's bounds.
type OutOfRangeError struct {
	Name     string
	Value    float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("criterion %q: value %g out of range [%g, %g]", e.Name, e.Value, e.Min, e.Max)
}
