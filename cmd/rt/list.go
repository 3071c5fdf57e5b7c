package main

import (
	"fmt"

	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/render"
	"github.com/spf13/cobra"
)

var listCited bool

func init() {
	listCmd.Flags().BoolVar(&listCited, "cited", false, "Show only cited references")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered references",
	Long: `List registered references with their handles and citation keys.

Examples:
  rt list
  rt list --cited`,
	RunE: runList,
}

// ListEntry is one row of list output.
type ListEntry struct {
	Handle int    `json:"handle"`
	Key    string `json:"key"`
	DOI    string `json:"doi,omitempty"`
	Cited  bool   `json:"cited"`
	Year   string `json:"year,omitempty"`
	Source string `json:"source,omitempty"`
	Title  string `json:"title,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	state := mustOpenRepo()
	defer state.close()

	entries := []ListEntry{}
	for h := 1; h <= state.reg.Count(); h++ {
		ref, err := state.reg.Reference(h)
		if err != nil {
			exitWithError(ExitError, "reading reference %d: %v", h, err)
		}
		if listCited && !ref.Cited() {
			continue
		}
		rec := ref.Record()
		entries = append(entries, ListEntry{
			Handle: h,
			Key:    ref.Key(),
			DOI:    ref.DOI(),
			Cited:  ref.Cited(),
			Year:   record.Year(rec),
			Source: record.Source(rec),
			Title:  render.Title(rec),
		})
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No references in registry")
			return nil
		}
		fmt.Printf("%d references:\n\n", len(entries))
		for _, e := range entries {
			mark := " "
			if e.Cited {
				mark = "*"
			}
			fmt.Printf("%s %4d  %-16s %s\n", mark, e.Handle, e.Key, truncateString(e.Title, ListTitleMaxLen))
		}
	} else {
		outputJSON(entries)
	}
	return nil
}
