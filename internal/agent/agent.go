// Package agent turns scraped page content into competitive-intelligence briefs.
package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/marketing-intel/internal/llm"
	"github.com/jonathan/marketing-intel/internal/prompts"
	"github.com/jonathan/marketing-intel/internal/scraper"
	"github.com/jonathan/marketing-intel/internal/types"
)

// Analyzer produces a brief for a single target. A single request/response
// call per target: no retry or queueing semantics.
type Analyzer interface {
	Analyze(ctx context.Context, target string) (*types.Brief, error)
}

// Agent implements Analyzer on top of a content extractor and an LLM client.
type Agent struct {
	extractor scraper.Extractor
	client    llm.Client
	tier      llm.ModelTier
}

// New creates an agent.
func New(extractor scraper.Extractor, client llm.Client) *Agent {
	return &Agent{
		extractor: extractor,
		client:    client,
		tier:      llm.TierStandard,
	}
}

// WithTier overrides the model tier used for analysis.
func (a *Agent) WithTier(tier llm.ModelTier) *Agent {
	a.tier = tier
	return a
}

// Analyze fetches the target's page content and generates a free-text brief.
func (a *Agent) Analyze(ctx context.Context, target string) (*types.Brief, error) {
	page, err := a.extractor.Extract(ctx, target)
	if err != nil {
		return nil, &AnalysisError{Target: target, Stage: StageScrape, Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet("strategy.json", "daily_brief"), map[string]string{
		"Target":    target,
		"SourceURL": page.URL,
		"Content":   page.Content,
	})
	system := prompts.MustGet("strategy.json", "system_instruction")

	summary, err := a.client.GenerateContent(ctx, system, prompt, a.tier)
	if err != nil {
		return nil, &AnalysisError{Target: target, Stage: StageModel, Cause: err}
	}
	if strings.TrimSpace(summary) == "" {
		return nil, &AnalysisError{Target: target, Stage: StageModel, Message: "model returned empty summary"}
	}

	return &types.Brief{
		Target:      target,
		Summary:     summary,
		SourceURL:   page.URL,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Structured returns an Analyzer that produces structured briefs. Monitoring
// runs store briefs between passes and compare value propositions, a field
// only structured analysis fills.
func (a *Agent) Structured() Analyzer {
	return structuredAnalyzer{agent: a}
}

type structuredAnalyzer struct {
	agent *Agent
}

func (s structuredAnalyzer) Analyze(ctx context.Context, target string) (*types.Brief, error) {
	return s.agent.AnalyzeStructured(ctx, target)
}

// AnalyzeStructured fetches the target's page content and generates a brief
// with structured fields, validated against the embedded brief schema.
func (a *Agent) AnalyzeStructured(ctx context.Context, target string) (*types.Brief, error) {
	page, err := a.extractor.Extract(ctx, target)
	if err != nil {
		return nil, &AnalysisError{Target: target, Stage: StageScrape, Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet("strategy.json", "structured_brief"), map[string]string{
		"Target":    target,
		"SourceURL": page.URL,
		"Content":   page.Content,
	})
	system := prompts.MustGet("strategy.json", "system_instruction")

	raw, err := a.client.GenerateJSON(ctx, system, prompt, a.tier)
	if err != nil {
		return nil, &AnalysisError{Target: target, Stage: StageModel, Cause: err}
	}

	if err := ValidateBriefJSON(raw); err != nil {
		return nil, &AnalysisError{Target: target, Stage: StageValidate, Cause: err}
	}

	var brief types.Brief
	if err := json.Unmarshal([]byte(raw), &brief); err != nil {
		return nil, &AnalysisError{Target: target, Stage: StageValidate, Cause: err}
	}

	brief.Target = target
	brief.SourceURL = page.URL
	brief.GeneratedAt = time.Now().UTC()
	return &brief, nil
}
