package integrity

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lorekeep/lorekeep/internal/types"
)

// Audit runs a read-only diagnostic pass over every collection: duplicate
// groups (unresolved, as detected) plus structural checks per entity. The
// store is never mutated.
//
// Listing fans out across collections up to the configured fan-out limit,
// but results are aggregated in registry order, so the report is
// deterministic. A collection whose listing fails is recorded with
// ActualCount 0 and a single issue describing the failure; the remaining
// collections are unaffected.
func (e *Engine) Audit(ctx context.Context) (*types.IntegrityReport, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	kinds := types.AllKinds()

	type listing struct {
		entities []types.Entity
		err      error
	}
	listings := make([]listing, len(kinds))

	// Listing failures are captured per slot, never returned, so one bad
	// collection cannot cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanOut)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			entities, err := e.registry.For(kind).List(gctx)
			listings[i] = listing{entities: entities, err: err}
			return nil
		})
	}
	_ = g.Wait()

	report := types.NewIntegrityReport(time.Now().UTC())
	for i, kind := range kinds {
		col := &types.CollectionReport{Name: kind.String()}

		if err := listings[i].err; err != nil {
			col.Issues = append(col.Issues, fmt.Sprintf("listing failed: %v", err))
			report.Discrepancies = append(report.Discrepancies,
				fmt.Sprintf("%s: listing failed: %v", kind, err))
		} else {
			entities := listings[i].entities
			col.ActualCount = len(entities)
			col.Entities = entities
			col.Duplicates = DetectDuplicates(kind, entities)
			for j := range entities {
				col.Issues = append(col.Issues, checkEntity(&entities[j])...)
			}
		}

		report.Collections[kind] = col
		report.Summary.TotalEntities += col.ActualCount
		report.Summary.DuplicatesFound += len(col.Duplicates)
	}
	report.Summary.DiscrepanciesFound = len(report.Discrepancies)
	return report, nil
}

// checkEntity runs the structural-completeness checks for one entity and
// returns one issue string per missing required field.
func checkEntity(e *types.Entity) []string {
	ref := e.ID
	if ref == "" {
		ref = e.DisplayName()
	}
	if ref == "" {
		ref = "(unidentified)"
	}

	var issues []string
	if e.ID == "" {
		issues = append(issues, fmt.Sprintf("entity %s: missing id", ref))
	}
	if e.Name == "" && e.Title == "" {
		issues = append(issues, fmt.Sprintf("entity %s: missing name", ref))
	}
	if e.CreatedAt == "" {
		issues = append(issues, fmt.Sprintf("entity %s: missing created_at", ref))
	}
	if e.UpdatedAt == "" {
		issues = append(issues, fmt.Sprintf("entity %s: missing updated_at", ref))
	}
	if !e.HasOwner() {
		issues = append(issues, fmt.Sprintf("entity %s: missing owner (no created_by or user_id)", ref))
	}
	return issues
}
