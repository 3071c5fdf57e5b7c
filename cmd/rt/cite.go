package main

import (
	"fmt"
	"strconv"

	"github.com/mlandis/reftrack/internal/registry"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite REF...",
	Short: "Mark references as cited",
	Long: `Mark references as cited, by citation key or by handle.

Citing is idempotent; citing an already-cited reference is a no-op.

Examples:
  rt cite Smith2001
  rt cite Smith2001 Doe1997a
  rt cite 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

// CiteResult reports one cite run.
type CiteResult struct {
	Cited []string `json:"cited"`
}

func runCite(cmd *cobra.Command, args []string) error {
	state := mustOpenRepo()
	defer state.close()

	var result CiteResult
	for _, arg := range args {
		handle := resolveRef(state.reg, arg)
		if handle == 0 {
			exitWithError(ExitDataError, "unknown reference %q", arg)
		}
		if err := state.reg.Cite(handle); err != nil {
			exitWithError(ExitDataError, "citing %q: %v", arg, err)
		}
		key, _ := state.reg.CitationKey(handle)
		result.Cited = append(result.Cited, key)
	}

	state.save()

	if humanOutput {
		for _, key := range result.Cited {
			fmt.Printf("cited %s\n", key)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// resolveRef interprets arg as a handle when it parses as a positive
// integer inside the registry, otherwise as a citation key. Returns 0
// when nothing matches.
func resolveRef(reg *registry.Registry, arg string) int {
	if h, err := strconv.Atoi(arg); err == nil && h >= 1 && h <= reg.Count() {
		return h
	}
	return reg.Lookup(arg)
}
