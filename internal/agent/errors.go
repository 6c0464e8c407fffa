package agent

import "fmt"

// Stage identifies where in the analysis an error occurred.
type Stage string

const (
	// StageScrape covers content retrieval failures
	StageScrape Stage = "scrape"
	// StageModel covers LLM call failures (timeout, quota, empty response)
	StageModel Stage = "model"
	// StageValidate covers structured-output validation failures
	StageValidate Stage = "validate"
)

// AnalysisError represents a failure to produce a brief for a target.
type AnalysisError struct {
	Target  string
	Stage   Stage
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed for %s at %s stage: %v", e.Target, e.Stage, e.Cause)
	}
	return fmt.Sprintf("analysis failed for %s at %s stage: %s", e.Target, e.Stage, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
