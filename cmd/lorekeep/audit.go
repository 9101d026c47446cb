package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/integrity"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run a read-only integrity audit",
	Long: `Audit every collection for duplicates and structural problems.

The audit lists each collection, groups entities by normalized display
name, and checks every entity for missing required fields (id, name,
timestamps, owner reference). Nothing is ever deleted or modified.

Exit codes:
  0 - No duplicates, issues, or discrepancies found
  1 - The audit found something to fix (or failed to run)

Examples:
  lorekeep audit                  # Audit the default database
  lorekeep audit --db camp.db     # Audit a specific database`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		engine, closeStore, err := initEngine(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		report, err := engine.Audit(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: audit failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(integrity.FormatIntegrityReport(report))

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		if report.Clean() {
			fmt.Printf("\n%s No integrity problems found\n", green("✓"))
			return
		}
		fmt.Printf("\n%s Audit found problems; run 'lorekeep cleanup' to preview duplicate removal\n", yellow("⚠"))
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
