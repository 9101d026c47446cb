package types

import (
	"fmt"
	"time"
)

// KindCleanupStats holds per-collection counters for one cleanup run.
type KindCleanupStats struct {
	Scanned           int `json:"scanned"`
	DuplicateGroups   int `json:"duplicate_groups"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	Kept              int `json:"kept"`
}

// CleanupReport is the aggregate result of one cleanup run. The run never
// aborts for partial failures: every failed deletion or listing is recorded
// in Errors and the counters reflect only what actually happened. Callers
// that read only the counters can miss failed deletions; always check
// Errors before trusting a run as clean.
type CleanupReport struct {
	TotalScanned         int                       `json:"total_scanned"`
	DuplicateGroupsFound int                       `json:"duplicate_groups_found"`
	DuplicatesRemoved    int                       `json:"duplicates_removed"`
	EntitiesKept         int                       `json:"entities_kept"`
	ByKind               map[Kind]KindCleanupStats `json:"by_kind"`
	Errors               []string                  `json:"errors,omitempty"`
}

// NewCleanupReport returns an empty report ready for aggregation.
func NewCleanupReport() *CleanupReport {
	return &CleanupReport{ByKind: make(map[Kind]KindCleanupStats)}
}

// Validate checks that the aggregate counters match the per-kind stats.
func (r *CleanupReport) Validate() error {
	var scanned, groups, removed, kept int
	for kind, s := range r.ByKind {
		if !kind.IsValid() {
			return fmt.Errorf("invalid kind in by_kind: %q", kind)
		}
		scanned += s.Scanned
		groups += s.DuplicateGroups
		removed += s.DuplicatesRemoved
		kept += s.Kept
	}
	if r.TotalScanned != scanned {
		return fmt.Errorf("total_scanned (%d) does not match per-kind sum (%d)", r.TotalScanned, scanned)
	}
	if r.DuplicateGroupsFound != groups {
		return fmt.Errorf("duplicate_groups_found (%d) does not match per-kind sum (%d)", r.DuplicateGroupsFound, groups)
	}
	if r.DuplicatesRemoved != removed {
		return fmt.Errorf("duplicates_removed (%d) does not match per-kind sum (%d)", r.DuplicatesRemoved, removed)
	}
	if r.EntitiesKept != kept {
		return fmt.Errorf("entities_kept (%d) does not match per-kind sum (%d)", r.EntitiesKept, kept)
	}
	return nil
}

// KindPreviewStats summarizes what a cleanup run would do to one collection.
type KindPreviewStats struct {
	Duplicates int `json:"duplicates"`
	WillKeep   int `json:"will_keep"`
}

// PreviewSummary aggregates a non-mutating cleanup simulation.
type PreviewSummary struct {
	TotalDuplicateGroups      int                       `json:"total_duplicate_groups"`
	TotalDuplicatesToRemove   int                       `json:"total_duplicates_to_remove"`
	TotalEntitiesAfterCleanup int                       `json:"total_entities_after_cleanup"`
	ByKind                    map[Kind]KindPreviewStats `json:"by_kind"`
}

// PreviewResult is the outcome of a preview run: the resolved duplicate
// groups a real cleanup would act on, plus the summary used to gate
// operator confirmation. No store mutation happens while producing it.
type PreviewResult struct {
	Groups  []DuplicateGroup `json:"groups"`
	Summary PreviewSummary   `json:"summary"`
	Errors  []string         `json:"errors,omitempty"`
}

// Validate checks that the summary counters match the groups.
func (p *PreviewResult) Validate() error {
	var toRemove int
	for i := range p.Groups {
		g := &p.Groups[i]
		if err := g.Validate(); err != nil {
			return fmt.Errorf("group %s/%s: %w", g.Kind, g.Key, err)
		}
		if !g.Resolved() {
			return fmt.Errorf("group %s/%s: preview groups must be resolved", g.Kind, g.Key)
		}
		toRemove += len(g.Delete)
	}
	if p.Summary.TotalDuplicateGroups != len(p.Groups) {
		return fmt.Errorf("total_duplicate_groups (%d) does not match groups length (%d)",
			p.Summary.TotalDuplicateGroups, len(p.Groups))
	}
	if p.Summary.TotalDuplicatesToRemove != toRemove {
		return fmt.Errorf("total_duplicates_to_remove (%d) does not match delete entries (%d)",
			p.Summary.TotalDuplicatesToRemove, toRemove)
	}
	return nil
}

// CollectionReport is the audit result for one collection.
type CollectionReport struct {
	Name        string           `json:"name"`
	ActualCount int              `json:"actual_count"`
	Entities    []Entity         `json:"entities,omitempty"`
	Duplicates  []DuplicateGroup `json:"duplicates,omitempty"`
	Issues      []string         `json:"issues,omitempty"`
}

// IntegritySummary holds the global audit counters.
type IntegritySummary struct {
	TotalEntities      int `json:"total_entities"`
	DuplicatesFound    int `json:"duplicates_found"`
	DiscrepanciesFound int `json:"discrepancies_found"`
}

// IntegrityReport is the aggregate result of one read-only audit run.
// Like CleanupReport it is always complete and well-formed: a collection
// whose listing failed is present with ActualCount 0 and a single issue
// describing the failure.
type IntegrityReport struct {
	Timestamp     time.Time                  `json:"timestamp"`
	Collections   map[Kind]*CollectionReport `json:"collections"`
	Discrepancies []string                   `json:"discrepancies,omitempty"`
	Summary       IntegritySummary           `json:"summary"`
}

// NewIntegrityReport returns an empty report stamped with the given time.
func NewIntegrityReport(now time.Time) *IntegrityReport {
	return &IntegrityReport{
		Timestamp:   now,
		Collections: make(map[Kind]*CollectionReport),
	}
}

// Clean reports whether the audit found nothing to flag.
func (r *IntegrityReport) Clean() bool {
	if r.Summary.DuplicatesFound > 0 || r.Summary.DiscrepanciesFound > 0 {
		return false
	}
	for _, col := range r.Collections {
		if len(col.Issues) > 0 {
			return false
		}
	}
	return true
}

// Validate checks that the summary counters match the collection reports.
func (r *IntegrityReport) Validate() error {
	var entities, dupGroups int
	for kind, col := range r.Collections {
		if !kind.IsValid() {
			return fmt.Errorf("invalid kind in collections: %q", kind)
		}
		entities += col.ActualCount
		dupGroups += len(col.Duplicates)
	}
	if r.Summary.TotalEntities != entities {
		return fmt.Errorf("total_entities (%d) does not match collection counts (%d)",
			r.Summary.TotalEntities, entities)
	}
	if r.Summary.DuplicatesFound != dupGroups {
		return fmt.Errorf("duplicates_found (%d) does not match duplicate groups (%d)",
			r.Summary.DuplicatesFound, dupGroups)
	}
	if r.Summary.DiscrepanciesFound != len(r.Discrepancies) {
		return fmt.Errorf("discrepancies_found (%d) does not match discrepancies length (%d)",
			r.Summary.DiscrepanciesFound, len(r.Discrepancies))
	}
	return nil
}
