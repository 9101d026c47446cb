package integrity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/lorekeep/lorekeep/internal/storage"
	"github.com/lorekeep/lorekeep/internal/types"
)

// ErrRunInProgress is returned when a cleanup, preview, or audit is started
// while another run already holds the engine. Runs fail fast instead of
// queueing so operators never stack mutations behind a slow audit.
var ErrRunInProgress = errors.New("integrity: another run is already in progress")

const defaultAuditFanOut = 4

// Engine drives integrity runs over a store registry. One engine serializes
// its runs; construct separate engines only for separate stores.
type Engine struct {
	registry *storage.Registry
	scorer   *Scorer
	limiter  *rate.Limiter
	fanOut   int

	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights replaces the default scoring weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.scorer = NewScorer(w) }
}

// WithDeleteRate paces delete calls to at most perSec per second. Zero or
// negative disables pacing. Hosted document stores throttle aggressive
// clients; pacing keeps a large cleanup from tripping that.
func WithDeleteRate(perSec float64) Option {
	return func(e *Engine) {
		if perSec > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithAuditFanOut bounds how many collections an audit lists concurrently.
// Values below 1 fall back to sequential listing.
func WithAuditFanOut(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.fanOut = n
	}
}

// New creates an integrity engine over the given registry.
func New(registry *storage.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		scorer:   NewScorer(DefaultWeights()),
		fanOut:   defaultAuditFanOut,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// begin acquires the run lock, failing fast if another run holds it.
func (e *Engine) begin() error {
	if e.registry == nil {
		return errors.New("integrity: engine has no store registry")
	}
	if !e.mu.TryLock() {
		return ErrRunInProgress
	}
	return nil
}

// resolveKind lists one collection and returns its resolved duplicate
// groups. The caller decides how to record a listing failure.
func (e *Engine) resolveKind(ctx context.Context, kind types.Kind) ([]types.Entity, []types.DuplicateGroup, error) {
	entities, err := e.registry.For(kind).List(ctx)
	if err != nil {
		return nil, nil, err
	}
	detected := DetectDuplicates(kind, entities)
	groups := make([]types.DuplicateGroup, 0, len(detected))
	for _, g := range detected {
		groups = append(groups, e.scorer.Resolve(g))
	}
	return entities, groups, nil
}

// Cleanup deletes every non-canonical entity in every duplicate group
// across all collections. Failures never abort the run: a failed listing
// skips that collection, a failed deletion skips that entity, and both are
// recorded in the report's Errors. There is no rollback — deletions that
// succeeded before a failure stay deleted.
//
// The keeper of each group is never deleted, so EntitiesKept and the
// per-kind counters increment for every group regardless of how many of
// its deletions failed.
func (e *Engine) Cleanup(ctx context.Context) (*types.CleanupReport, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	report := types.NewCleanupReport()
	for _, kind := range types.AllKinds() {
		entities, groups, err := e.resolveKind(ctx, kind)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: listing failed: %v", kind, err))
			continue
		}

		stats := types.KindCleanupStats{Scanned: len(entities)}
		report.TotalScanned += len(entities)

		store := e.registry.For(kind)
		for _, group := range groups {
			stats.DuplicateGroups++
			report.DuplicateGroupsFound++

			for _, loser := range group.Delete {
				if err := e.wait(ctx); err != nil {
					report.Errors = append(report.Errors,
						fmt.Sprintf("%s/%s: delete skipped: %v", kind, loser.ID, err))
					continue
				}
				if err := store.Delete(ctx, loser.ID); err != nil {
					report.Errors = append(report.Errors,
						fmt.Sprintf("%s/%s: delete failed: %v", kind, loser.ID, err))
					continue
				}
				stats.DuplicatesRemoved++
				report.DuplicatesRemoved++
			}

			// The keeper survives unconditionally, even when every
			// deletion in its group failed.
			stats.Kept++
			report.EntitiesKept++
		}

		report.ByKind[kind] = stats
	}
	return report, nil
}

// wait blocks on the delete pacer when one is configured.
func (e *Engine) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// Preview runs the same detection and selection pass as Cleanup without
// issuing a single delete call, returning the groups a real run would act
// on plus the summary used to gate operator confirmation.
func (e *Engine) Preview(ctx context.Context) (*types.PreviewResult, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	result := &types.PreviewResult{
		Summary: types.PreviewSummary{ByKind: make(map[types.Kind]types.KindPreviewStats)},
	}
	for _, kind := range types.AllKinds() {
		entities, groups, err := e.resolveKind(ctx, kind)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: listing failed: %v", kind, err))
			continue
		}

		result.Summary.TotalEntitiesAfterCleanup += len(entities)
		if len(groups) == 0 {
			continue
		}

		stats := types.KindPreviewStats{}
		for _, group := range groups {
			result.Groups = append(result.Groups, group)
			result.Summary.TotalDuplicateGroups++
			result.Summary.TotalDuplicatesToRemove += len(group.Delete)
			result.Summary.TotalEntitiesAfterCleanup -= len(group.Delete)
			stats.Duplicates += len(group.Delete)
			stats.WillKeep++
		}
		result.Summary.ByKind[kind] = stats
	}
	return result, nil
}
