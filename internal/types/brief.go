// Package types holds the data structures shared across the analysis and
// delivery pipeline.
package types

import "time"

// Brief is one competitive-intelligence summary for a single target.
// Headline, ValueProposition, and Findings are only populated by structured
// analysis; free-text analysis fills Summary alone.
type Brief struct {
	Target           string    `json:"target"`
	Headline         string    `json:"headline,omitempty"`
	Summary          string    `json:"summary"`
	ValueProposition string    `json:"value_proposition,omitempty"`
	Findings         []string  `json:"findings,omitempty"`
	SourceURL        string    `json:"source_url,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// TargetResult records the outcome for one target in a monitoring run.
// Exactly one of Brief and Err is set.
type TargetResult struct {
	Target  string `json:"target"`
	Brief   *Brief `json:"brief,omitempty"`
	Err     string `json:"error,omitempty"`
	Changed bool   `json:"changed"`
}

// Failed reports whether the target's analysis failed.
func (r TargetResult) Failed() bool {
	return r.Err != ""
}

// DailyBrief aggregates one monitoring run over the whole watchlist.
type DailyBrief struct {
	RunStarted time.Time      `json:"run_started"`
	Results    []TargetResult `json:"results"`
}

// Succeeded returns the results that produced a brief, in watchlist order.
func (d *DailyBrief) Succeeded() []TargetResult {
	var ok []TargetResult
	for _, r := range d.Results {
		if !r.Failed() {
			ok = append(ok, r)
		}
	}
	return ok
}

// AllFailed reports whether every target in a non-empty run failed.
func (d *DailyBrief) AllFailed() bool {
	return len(d.Results) > 0 && len(d.Succeeded()) == 0
}
