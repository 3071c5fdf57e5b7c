package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mlandis/reftrack/internal/doi"
	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/registry"
	"github.com/spf13/cobra"
)

var importStrict bool

func init() {
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "Abort on the first malformed record instead of skipping it")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import references from a tagged-record export file",
	Long: `Import references from a tagged-record export file.

Each record gets a handle and a citation key. Records the key generator
rejects (no author, bad year) are skipped and reported unless --strict
is given. A full registry always aborts the import.

Examples:
  rt import savedrecs.txt
  rt import --strict savedrecs.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult reports one import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		exitWithError(ExitError, "opening %s: %v", args[0], err)
	}
	defer f.Close()

	records, err := record.ParseFile(f)
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", args[0], err)
	}

	state := mustOpenRepo()
	defer state.close()

	var result ImportResult
	for i, rec := range records {
		_, err := state.reg.Add(rec, doi.Normalize(record.DOI(rec)))
		if err == nil {
			result.Imported++
			continue
		}
		if errors.Is(err, registry.ErrCapacityExceeded) {
			exitWithError(ExitDataError, "record %d: %v", i+1, err)
		}
		if importStrict {
			exitWithError(ExitDataError, "record %d: %v", i+1, err)
		}
		result.Skipped = append(result.Skipped, fmt.Sprintf("record %d: %v", i+1, err))
	}

	state.save()

	if humanOutput {
		fmt.Printf("Imported %d of %d records\n", result.Imported, len(records))
		for _, s := range result.Skipped {
			fmt.Printf("  skipped %s\n", s)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
