package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/integrity"
	"github.com/lorekeep/lorekeep/internal/types"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove duplicate entities",
	Long: `Detect duplicate entities across all collections and delete the
non-canonical copies.

For each group of entities sharing a normalized display name, the
highest-scoring entity (most complete, most referenced, most recent)
is kept and the rest are deleted. Deletions are irreversible and are
not transactional: a failed deletion is recorded and the run continues.

Without --yes this is a dry run: it prints what would be removed and
deletes nothing.

Examples:
  lorekeep cleanup            # Preview what would be removed
  lorekeep cleanup --yes      # Actually delete duplicate losers`,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")

		ctx := context.Background()

		engine, closeStore, err := initEngine(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		if !yes {
			fmt.Printf("%s\n\n", color.YellowString("DRY RUN MODE - No entities will be deleted"))
			preview, err := engine.Preview(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: preview failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(integrity.FormatPreview(preview))
			if preview.Summary.TotalDuplicatesToRemove > 0 {
				fmt.Printf("\nRun with --yes to perform cleanup\n")
			}
			return
		}

		report, err := engine.Cleanup(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cleanup failed: %v\n", err)
			os.Exit(1)
		}

		printCleanupReport(report)
		if len(report.Errors) > 0 {
			os.Exit(1)
		}
	},
}

// printCleanupReport renders the report with per-kind lines in registry order.
func printCleanupReport(report *types.CleanupReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Print(cleanupKindLines(report))

	fmt.Printf("\n%s Cleanup complete\n", green("✓"))
	fmt.Printf("  Entities scanned: %d\n", report.TotalScanned)
	fmt.Printf("  Duplicate groups: %d\n", report.DuplicateGroupsFound)
	fmt.Printf("  Duplicates removed: %d\n", report.DuplicatesRemoved)
	fmt.Printf("  Entities kept: %d\n", report.EntitiesKept)

	if len(report.Errors) > 0 {
		fmt.Printf("\n%s %d error(s):\n", red("✗"), len(report.Errors))
		for _, e := range report.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// cleanupKindLines renders one line per collection that had duplicate
// groups, in registry order.
func cleanupKindLines(report *types.CleanupReport) string {
	var b strings.Builder
	for _, kind := range types.AllKinds() {
		stats, ok := report.ByKind[kind]
		if !ok || stats.DuplicateGroups == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %d group(s), removed %d, kept %d\n",
			kind, stats.DuplicateGroups, stats.DuplicatesRemoved, stats.Kept)
	}
	return b.String()
}

func init() {
	cleanupCmd.Flags().Bool("yes", false, "Perform deletions instead of previewing")
	rootCmd.AddCommand(cleanupCmd)
}
