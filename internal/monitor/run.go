package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/marketing-intel/internal/agent"
	"github.com/jonathan/marketing-intel/internal/types"
)

// Store persists briefs between runs so the monitor can detect changes. The
// interface is satisfied by db.DB; a nil store disables persistence and every
// target is reported as changed.
type Store interface {
	ListTargets(ctx context.Context) ([]string, error)
	LatestBrief(ctx context.Context, target string) (*types.Brief, error)
	SaveBrief(ctx context.Context, brief *types.Brief) error
}

// Notifier delivers the aggregated daily brief.
type Notifier interface {
	Deliver(ctx context.Context, brief *types.DailyBrief) error
}

// Monitor walks the watchlist, analyzes each target, and delivers one
// aggregated notification for the whole run.
type Monitor struct {
	analyzer agent.Analyzer
	store    Store
	notifier Notifier
	targets  []string
	verbose  bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithStore enables persistence and change detection.
func WithStore(store Store) Option {
	return func(m *Monitor) { m.store = store }
}

// WithTargets sets a static target list used when no store is configured, or
// as an override when one is.
func WithTargets(targets []string) Option {
	return func(m *Monitor) { m.targets = targets }
}

// WithVerbose enables per-target progress logging.
func WithVerbose(verbose bool) Option {
	return func(m *Monitor) { m.verbose = verbose }
}

// New creates a Monitor.
func New(analyzer agent.Analyzer, notifier Notifier, opts ...Option) *Monitor {
	m := &Monitor{
		analyzer: analyzer,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes one monitoring pass. A failing target never aborts the run;
// its error is recorded in the aggregate and the walk continues. Run returns
// an error only when the target list cannot be resolved, every target fails,
// or delivery of the aggregate fails.
func (m *Monitor) Run(ctx context.Context) (*types.DailyBrief, error) {
	targets, err := m.resolveTargets(ctx)
	if err != nil {
		return nil, err
	}

	daily := &types.DailyBrief{RunStarted: time.Now().UTC()}
	if len(targets) == 0 {
		log.Printf("[MONITOR] Watchlist is empty, nothing to do")
		return daily, nil
	}

	log.Printf("[MONITOR] Starting run over %d target(s)", len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return daily, err
		}
		daily.Results = append(daily.Results, m.analyzeTarget(ctx, target))
	}

	if daily.AllFailed() {
		return daily, fmt.Errorf("all %d targets failed", len(targets))
	}

	if m.notifier != nil {
		if err := m.notifier.Deliver(ctx, daily); err != nil {
			return daily, fmt.Errorf("failed to deliver daily brief: %w", err)
		}
	}

	log.Printf("[MONITOR] Run complete: %d succeeded, %d failed",
		len(daily.Succeeded()), len(daily.Results)-len(daily.Succeeded()))
	return daily, nil
}

func (m *Monitor) resolveTargets(ctx context.Context) ([]string, error) {
	if len(m.targets) > 0 {
		return m.targets, nil
	}
	if m.store == nil {
		return nil, fmt.Errorf("no targets configured and no store to load a watchlist from")
	}
	targets, err := m.store.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return targets, nil
}

func (m *Monitor) analyzeTarget(ctx context.Context, target string) types.TargetResult {
	if m.verbose {
		log.Printf("[MONITOR] Analyzing %s", target)
	}

	brief, err := m.analyzer.Analyze(ctx, target)
	if err != nil {
		log.Printf("[MONITOR] Target %s failed: %v", target, err)
		return types.TargetResult{Target: target, Err: err.Error()}
	}

	result := types.TargetResult{Target: target, Brief: brief, Changed: true}
	if m.store != nil {
		previous, err := m.store.LatestBrief(ctx, target)
		if err != nil {
			log.Printf("[MONITOR] Could not load history for %s: %v", target, err)
		} else {
			result.Changed = DetectChange(previous, brief)
		}
		if err := m.store.SaveBrief(ctx, brief); err != nil {
			log.Printf("[MONITOR] Could not save brief for %s: %v", target, err)
		}
	}
	return result
}
