package scraper

import "fmt"

// ExtractError represents a failure to obtain page content for a target.
type ExtractError struct {
	Target  string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape error for %s: %s: %v", e.Target, e.Message, e.Cause)
	}
	return fmt.Sprintf("scrape error for %s: %s", e.Target, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
