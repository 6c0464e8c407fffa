package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/marketing-intel/internal/types"
)

type fakeAnalyzer struct {
	failFor map[string]bool
	calls   []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, target string) (*types.Brief, error) {
	f.calls = append(f.calls, target)
	if f.failFor[target] {
		return nil, fmt.Errorf("analysis failed for %s: connection refused", target)
	}
	return &types.Brief{
		Target:           target,
		Summary:          "summary for " + target,
		ValueProposition: "positioning for " + target,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

type fakeStore struct {
	targets  []string
	previous map[string]*types.Brief
	saved    []*types.Brief
	listErr  error
}

func (f *fakeStore) ListTargets(ctx context.Context) ([]string, error) {
	return f.targets, f.listErr
}

func (f *fakeStore) LatestBrief(ctx context.Context, target string) (*types.Brief, error) {
	return f.previous[target], nil
}

func (f *fakeStore) SaveBrief(ctx context.Context, brief *types.Brief) error {
	f.saved = append(f.saved, brief)
	return nil
}

type fakeNotifier struct {
	delivered []*types.DailyBrief
	err       error
}

func (f *fakeNotifier) Deliver(ctx context.Context, brief *types.DailyBrief) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, brief)
	return nil
}

func TestRun_AggregatesAllTargetsInOrder(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	notifier := &fakeNotifier{}
	targets := []string{"pebblepost.com", "lob.com", "postpilot.com"}

	m := New(analyzer, notifier, WithTargets(targets))
	daily, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, daily.Results, 3)
	for i, target := range targets {
		assert.Equal(t, target, daily.Results[i].Target)
		assert.False(t, daily.Results[i].Failed())
	}
	assert.Equal(t, targets, analyzer.calls)

	// Exactly one aggregate notification for the whole run.
	require.Len(t, notifier.delivered, 1)
	assert.Len(t, notifier.delivered[0].Results, 3)
}

func TestRun_FailedTargetDoesNotAbortRun(t *testing.T) {
	analyzer := &fakeAnalyzer{failFor: map[string]bool{"lob.com": true}}
	notifier := &fakeNotifier{}

	m := New(analyzer, notifier, WithTargets([]string{"pebblepost.com", "lob.com", "postpilot.com"}))
	daily, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, daily.Results, 3)
	assert.False(t, daily.Results[0].Failed())
	assert.True(t, daily.Results[1].Failed())
	assert.Contains(t, daily.Results[1].Err, "connection refused")
	assert.False(t, daily.Results[2].Failed())

	// The failed target still appears in the delivered aggregate.
	require.Len(t, notifier.delivered, 1)
	assert.Len(t, notifier.delivered[0].Results, 3)
}

func TestRun_AllTargetsFailed(t *testing.T) {
	analyzer := &fakeAnalyzer{failFor: map[string]bool{"a.com": true, "b.com": true}}
	notifier := &fakeNotifier{}

	m := New(analyzer, notifier, WithTargets([]string{"a.com", "b.com"}))
	daily, err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 targets failed")
	assert.True(t, daily.AllFailed())
	assert.Empty(t, notifier.delivered)
}

func TestRun_EmptyWatchlistIsNotAnError(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	notifier := &fakeNotifier{}
	store := &fakeStore{}

	m := New(analyzer, notifier, WithStore(store))
	daily, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, daily.Results)
	assert.Empty(t, notifier.delivered)
}

func TestRun_LoadsTargetsFromStore(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	store := &fakeStore{targets: []string{"heypoplar.com", "lsdirect.com"}}

	m := New(analyzer, &fakeNotifier{}, WithStore(store))
	daily, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"heypoplar.com", "lsdirect.com"}, analyzer.calls)
	assert.Len(t, store.saved, 2)
	require.Len(t, daily.Results, 2)
}

func TestRun_StoreListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection reset")}
	m := New(&fakeAnalyzer{}, &fakeNotifier{}, WithStore(store))

	_, err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load watchlist")
}

func TestRun_DeliveryFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp unreachable")}
	m := New(&fakeAnalyzer{}, notifier, WithTargets([]string{"lob.com"}))

	_, err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to deliver daily brief")
}

func TestRun_ChangeDetection(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	store := &fakeStore{
		targets: []string{"pebblepost.com", "lob.com"},
		previous: map[string]*types.Brief{
			// Same value proposition the fake analyzer will regenerate.
			"pebblepost.com": {Target: "pebblepost.com", ValueProposition: "positioning for pebblepost.com"},
		},
	}

	m := New(analyzer, &fakeNotifier{}, WithStore(store))
	daily, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, daily.Results, 2)
	assert.False(t, daily.Results[0].Changed, "unchanged positioning should not flag")
	assert.True(t, daily.Results[1].Changed, "first sighting counts as changed")
}

func TestDetectChange(t *testing.T) {
	current := &types.Brief{ValueProposition: "Handwritten direct mail at scale"}

	assert.True(t, DetectChange(nil, current), "no history means changed")
	assert.False(t, DetectChange(current, nil))
	assert.False(t, DetectChange(
		&types.Brief{ValueProposition: "handwritten direct mail at scale "},
		current,
	), "case and whitespace differences are not changes")
	assert.True(t, DetectChange(
		&types.Brief{ValueProposition: "Programmatic direct mail"},
		current,
	))
}
