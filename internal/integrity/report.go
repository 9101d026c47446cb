package integrity

import (
	"fmt"
	"strings"

	"github.com/lorekeep/lorekeep/internal/types"
)

// FormatIntegrityReport renders an audit report as human-readable text.
// It is a pure formatter: no I/O, no store access. Collections appear in
// registry order.
func FormatIntegrityReport(r *types.IntegrityReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Data Integrity Report — %s\n", r.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))

	for _, kind := range types.AllKinds() {
		col, ok := r.Collections[kind]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %d entities\n", col.Name, col.ActualCount)

		if len(col.Duplicates) > 0 {
			fmt.Fprintf(&b, "  duplicates:\n")
			for _, g := range col.Duplicates {
				fmt.Fprintf(&b, "    %q x%d\n", g.Key, len(g.Entities))
			}
		}
		if len(col.Issues) > 0 {
			fmt.Fprintf(&b, "  issues:\n")
			for _, issue := range col.Issues {
				fmt.Fprintf(&b, "    - %s\n", issue)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Discrepancies) > 0 {
		fmt.Fprintf(&b, "Discrepancies:\n")
		for _, d := range r.Discrepancies {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d entities, %d duplicate groups, %d discrepancies\n",
		r.Summary.TotalEntities, r.Summary.DuplicatesFound, r.Summary.DiscrepanciesFound)
	return b.String()
}

// FormatPreview renders a preview result as human-readable text, per-kind
// lines in registry order followed by the totals a confirmation prompt
// needs.
func FormatPreview(p *types.PreviewResult) string {
	var b strings.Builder

	if p.Summary.TotalDuplicateGroups == 0 {
		b.WriteString("No duplicates found.\n")
	} else {
		for _, kind := range types.AllKinds() {
			stats, ok := p.Summary.ByKind[kind]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%s: %d to remove, %d to keep\n", kind, stats.Duplicates, stats.WillKeep)
		}
		fmt.Fprintf(&b, "\nTotal: %d duplicate group(s), %d entit(ies) to remove, %d remaining after cleanup\n",
			p.Summary.TotalDuplicateGroups, p.Summary.TotalDuplicatesToRemove,
			p.Summary.TotalEntitiesAfterCleanup)
	}

	for _, e := range p.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	return b.String()
}
