package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lorekeep/lorekeep/internal/storage/sqlite"
	"github.com/lorekeep/lorekeep/internal/types"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Load entities from a YAML export into the store",
	Long: `Import entities from a YAML export file.

The file maps collection names to entity lists:

  characters:
    - id: ch-1
      name: Mira Thornwood
      created_at: "2024-03-01T10:00:00Z"
      attrs:
        class: ranger
  locations:
    - name: Silver Town

Entities without an id get a generated one. Existing entities with the
same id are replaced.

Examples:
  lorekeep import campaign-export.yaml
  lorekeep import fixtures.yaml --db test.db`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", args[0], err)
			os.Exit(1)
		}

		var export map[string][]types.Entity
		if err := yaml.Unmarshal(data, &export); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to parse %s: %v\n", args[0], err)
			os.Exit(1)
		}

		db, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		total := 0
		for name, entities := range export {
			kind, err := types.ParseKind(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			store := db.ForKind(kind)
			for i := range entities {
				if err := store.Put(ctx, &entities[i]); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					os.Exit(1)
				}
				total++
			}
			fmt.Printf("%s: imported %d entit(ies)\n", kind, len(entities))
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("\n%s Imported %d entit(ies) into %s\n", green("✓"), total, cfg.DBPath)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
