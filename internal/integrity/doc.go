// Package integrity implements Lorekeep's entity integrity engine:
// cross-collection duplicate detection, quality scoring, resolution, and
// cleanup, plus a read-only audit that shares the detection logic.
//
// # Architecture
//
// The engine is a single-pass batch processor over a point-in-time snapshot
// of each collection. For every registered kind it lists entities through
// the store registry and then either:
//
//   - Cleanup: groups entities by normalized display name, scores each
//     member of a duplicate group, keeps the highest-scoring entity, and
//     deletes the rest one at a time.
//   - Preview: runs the identical detection and selection pass with zero
//     delete calls, producing the summary used to gate confirmation.
//   - Audit: records duplicate groups as-is and runs structural checks per
//     entity (missing id, name, timestamps, owner), never mutating the
//     store.
//
// # Failure isolation
//
// A failed listing isolates to its collection; a failed deletion isolates
// to its entity. Both are recorded as strings in the returned report and
// processing continues — the top-level entry points never return an error
// for partial failures. The only hard errors are whole-run preconditions
// such as a second run racing an engine that is already mid-run.
//
// Integrators must inspect Report.Errors (or collection Issues), not just
// the aggregate counters: a cleanup whose deletions all failed still
// returns a well-formed report with DuplicatesRemoved == 0.
//
// # Concurrency
//
// One Engine serializes its runs behind a mutex: audit, preview, and
// cleanup are mutually exclusive so a cleanup cannot delete out from under
// an in-flight audit snapshot. A second concurrent call fails fast with
// ErrRunInProgress rather than queueing. Within an audit, per-collection
// listing fans out with a bounded errgroup, but aggregation always happens
// in registry order, so reports are deterministic.
//
// Example usage:
//
//	reg, err := storage.Open(ctx, storage.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	engine := integrity.New(reg)
//
//	preview, err := engine.Preview(ctx)
//	if err != nil {
//	    return err
//	}
//	if preview.Summary.TotalDuplicatesToRemove > 0 && operatorConfirms(preview) {
//	    report, err := engine.Cleanup(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    for _, e := range report.Errors {
//	        log.Printf("cleanup: %s", e)
//	    }
//	}
package integrity
