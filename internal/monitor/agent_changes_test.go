package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/marketing-intel/internal/agent"
	"github.com/jonathan/marketing-intel/internal/llm"
	"github.com/jonathan/marketing-intel/internal/scraper"
	"github.com/jonathan/marketing-intel/internal/types"
)

// The fakes below stand in for the page source and the model so the run
// exercises the real agent, exactly as the monitor command wires it.

type pageExtractor struct {
	content string
}

func (p *pageExtractor) Extract(ctx context.Context, target string) (*scraper.Page, error) {
	return &scraper.Page{URL: scraper.TargetURL(target), Content: p.content}, nil
}

type scriptedLLM struct {
	json string
}

func (s *scriptedLLM) GenerateContent(ctx context.Context, systemInstruction, prompt string, tier llm.ModelTier) (string, error) {
	return s.json, nil
}

func (s *scriptedLLM) GenerateJSON(ctx context.Context, systemInstruction, prompt string, tier llm.ModelTier) (string, error) {
	return s.json, nil
}

func (s *scriptedLLM) GetModel(tier llm.ModelTier) string { return "test-model" }

func (s *scriptedLLM) Close() error { return nil }

// A positioning pivot between two monitoring runs must be flagged as changed,
// and an unchanged positioning must not. This drives Run through the real
// agent so the stored history carries the compared field.
func TestRun_RealAgentFlagsPositioningPivot(t *testing.T) {
	extractor := &pageExtractor{content: "We sell handcrafted leather shoes."}
	model := &scriptedLLM{json: `{
		"headline": "Shoe line refresh",
		"summary": "The homepage leads with a refreshed handcrafted shoe line.",
		"value_proposition": "Handcrafted leather shoes"
	}`}
	store := &fakeStore{targets: []string{"pivot.example.com"}, previous: map[string]*types.Brief{}}

	analyzer := agent.New(extractor, model).Structured()

	// Run 1: no history, first sighting counts as changed.
	m := New(analyzer, &fakeNotifier{}, WithStore(store))
	daily, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, daily.Results, 1)
	assert.True(t, daily.Results[0].Changed)

	require.Len(t, store.saved, 1)
	require.NotEmpty(t, store.saved[0].ValueProposition,
		"stored history must carry the field change detection compares")
	store.previous["pivot.example.com"] = store.saved[0]

	// Run 2: identical positioning, no change.
	daily, err = m.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, daily.Results, 1)
	assert.False(t, daily.Results[0].Changed)

	// Run 3: total pivot must be flagged.
	extractor.content = "We build enterprise rocket engines."
	model.json = `{
		"headline": "Pivot to aerospace",
		"summary": "The site now markets enterprise rocket engines.",
		"value_proposition": "Enterprise rocket engines"
	}`

	daily, err = m.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, daily.Results, 1)
	assert.True(t, daily.Results[0].Changed, "a positioning pivot must be flagged")
}
