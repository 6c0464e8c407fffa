package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/marketing-intel/internal/llm"
	"github.com/jonathan/marketing-intel/internal/scraper"
)

// fakeExtractor returns canned page content.
type fakeExtractor struct {
	page *scraper.Page
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (*scraper.Page, error) {
	return f.page, f.err
}

// fakeLLM returns canned model responses and records the prompt it saw.
type fakeLLM struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (f *fakeLLM) GenerateContent(_ context.Context, system, prompt string, _ llm.ModelTier) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, system, prompt string, _ llm.ModelTier) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

func TestAnalyze_ReturnsNonEmptyBrief(t *testing.T) {
	extractor := &fakeExtractor{page: &scraper.Page{
		URL:     "https://lob.com",
		Content: "Lob automates direct mail with an API. New: certified mail tracking.",
	}}
	model := &fakeLLM{response: "## Lob\n- Launched certified mail tracking."}

	a := New(extractor, model)
	brief, err := a.Analyze(context.Background(), "lob.com")
	require.NoError(t, err)

	assert.Equal(t, "lob.com", brief.Target)
	assert.NotEmpty(t, brief.Summary)
	assert.Equal(t, "https://lob.com", brief.SourceURL)
	assert.False(t, brief.GeneratedAt.IsZero())

	// The page content and the strategist instruction both reach the model.
	assert.Contains(t, model.lastPrompt, "certified mail tracking")
	assert.Contains(t, model.lastSystem, "Senior Marketing Strategist")
}

func TestAnalyze_ScrapeFailure(t *testing.T) {
	extractor := &fakeExtractor{err: fmt.Errorf("connection refused")}
	a := New(extractor, &fakeLLM{response: "unused"})

	_, err := a.Analyze(context.Background(), "lob.com")
	require.Error(t, err)

	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, StageScrape, analysisErr.Stage)
	assert.Equal(t, "lob.com", analysisErr.Target)
}

func TestAnalyze_ModelFailure(t *testing.T) {
	extractor := &fakeExtractor{page: &scraper.Page{URL: "https://lob.com", Content: "content"}}
	a := New(extractor, &fakeLLM{err: fmt.Errorf("quota exceeded")})

	_, err := a.Analyze(context.Background(), "lob.com")
	require.Error(t, err)

	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, StageModel, analysisErr.Stage)
}

func TestAnalyze_EmptySummaryIsError(t *testing.T) {
	extractor := &fakeExtractor{page: &scraper.Page{URL: "https://lob.com", Content: "content"}}
	a := New(extractor, &fakeLLM{response: "   \n  "})

	_, err := a.Analyze(context.Background(), "lob.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty summary")
}

func TestAnalyzeStructured_Success(t *testing.T) {
	extractor := &fakeExtractor{page: &scraper.Page{URL: "https://lob.com", Content: "content"}}
	model := &fakeLLM{response: `{
		"headline": "Lob ships certified mail tracking",
		"summary": "Lob expanded its product line.",
		"value_proposition": "Direct mail automation via API",
		"findings": ["certified mail tracking launched"]
	}`}

	a := New(extractor, model)
	brief, err := a.AnalyzeStructured(context.Background(), "lob.com")
	require.NoError(t, err)

	assert.Equal(t, "Lob ships certified mail tracking", brief.Headline)
	assert.Equal(t, "Direct mail automation via API", brief.ValueProposition)
	assert.Len(t, brief.Findings, 1)
	assert.Equal(t, "lob.com", brief.Target)
}

func TestAnalyzeStructured_SchemaViolation(t *testing.T) {
	extractor := &fakeExtractor{page: &scraper.Page{URL: "https://lob.com", Content: "content"}}
	// Missing required value_proposition
	model := &fakeLLM{response: `{"headline": "x", "summary": "y"}`}

	a := New(extractor, model)
	_, err := a.AnalyzeStructured(context.Background(), "lob.com")
	require.Error(t, err)

	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, StageValidate, analysisErr.Stage)
}

func TestValidateBriefJSON(t *testing.T) {
	valid := `{"headline": "h", "summary": "s", "value_proposition": "v"}`
	assert.NoError(t, ValidateBriefJSON(valid))

	invalid := `{"headline": ""}`
	assert.Error(t, ValidateBriefJSON(invalid))

	notJSON := `not json at all`
	assert.Error(t, ValidateBriefJSON(notJSON))
}
