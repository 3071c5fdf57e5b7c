package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mlandis/reftrack/internal/doi"
	"github.com/mlandis/reftrack/internal/pdf"
	"github.com/mlandis/reftrack/internal/record"
	"github.com/spf13/cobra"
)

func init() {
	doiCmd.AddCommand(doiResolveCmd)
	doiCmd.AddCommand(doiExtractCmd)
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi",
	Short: "Verify reference DOIs",
}

var doiResolveCmd = &cobra.Command{
	Use:   "resolve REF",
	Short: "Resolve a reference's DOI against Crossref",
	Long: `Resolve a reference's DOI against the Crossref API and compare the
registered metadata with the stored record.

Set crossref_mailto in config.yml (or CROSSREF_MAILTO in .env) to use
Crossref's polite pool.

Examples:
  rt doi resolve Smith2001`,
	Args: cobra.ExactArgs(1),
	RunE: runDOIResolve,
}

var doiExtractCmd = &cobra.Command{
	Use:   "extract REF PDF",
	Short: "Extract the DOI from an article PDF",
	Long: `Extract the DOI from the leading pages of an article PDF and compare
it with the reference's registered identifier.

Examples:
  rt doi extract Smith2001 paper.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runDOIExtract,
}

// ResolveResult reports a Crossref lookup.
type ResolveResult struct {
	Key         string `json:"key"`
	DOI         string `json:"doi"`
	Title       string `json:"title,omitempty"`
	Journal     string `json:"journal,omitempty"`
	Year        string `json:"year,omitempty"`
	YearMatches bool   `json:"year_matches"`
}

// ExtractResult reports a PDF DOI extraction.
type ExtractResult struct {
	Key     string `json:"key"`
	Found   string `json:"found,omitempty"`
	Stored  string `json:"stored,omitempty"`
	Matches bool   `json:"matches"`
}

func runDOIResolve(cmd *cobra.Command, args []string) error {
	// .env may carry CROSSREF_MAILTO; absence is fine.
	_ = godotenv.Load()

	state := mustOpenRepo()
	defer state.close()

	handle := resolveRef(state.reg, args[0])
	if handle == 0 {
		exitWithError(ExitDataError, "unknown reference %q", args[0])
	}
	ref, err := state.reg.Reference(handle)
	if err != nil {
		exitWithError(ExitError, "reading reference: %v", err)
	}
	if ref.DOI() == "" {
		exitWithError(ExitDataError, "reference %s has no DOI", ref.Key())
	}

	mailto := state.cfg.CrossrefMailto
	if mailto == "" {
		mailto = os.Getenv("CROSSREF_MAILTO")
	}
	client := doi.NewClient(
		doi.WithBaseURL(state.cfg.DOIBaseURL),
		doi.WithMailto(mailto),
	)

	work, err := client.Resolve(context.Background(), ref.DOI())
	if err != nil {
		if errors.Is(err, doi.ErrNotFound) {
			exitWithError(ExitDataError, "DOI %s is not registered", ref.DOI())
		}
		exitWithError(ExitError, "resolving %s: %v", ref.DOI(), err)
	}

	result := ResolveResult{
		Key:         ref.Key(),
		DOI:         work.DOI,
		Title:       work.Title,
		Journal:     work.Journal,
		Year:        work.Year,
		YearMatches: work.Year != "" && work.Year == record.Year(ref.Record()),
	}

	if humanOutput {
		fmt.Printf("%s -> %s\n", result.Key, result.DOI)
		fmt.Printf("  %s\n", result.Title)
		fmt.Printf("  %s (%s)\n", result.Journal, result.Year)
		if !result.YearMatches {
			fmt.Printf("  year differs from record (%s)\n", record.Year(ref.Record()))
		}
	} else {
		outputJSON(result)
	}
	return nil
}

func runDOIExtract(cmd *cobra.Command, args []string) error {
	state := mustOpenRepo()
	defer state.close()

	handle := resolveRef(state.reg, args[0])
	if handle == 0 {
		exitWithError(ExitDataError, "unknown reference %q", args[0])
	}
	ref, err := state.reg.Reference(handle)
	if err != nil {
		exitWithError(ExitError, "reading reference: %v", err)
	}

	found, err := pdf.FindDOI(args[1])
	if err != nil {
		exitWithError(ExitError, "scanning %s: %v", args[1], err)
	}

	result := ExtractResult{
		Key:     ref.Key(),
		Found:   found,
		Stored:  ref.DOI(),
		Matches: found != "" && doi.Normalize(found) == doi.Normalize(ref.DOI()),
	}

	if humanOutput {
		if result.Found == "" {
			fmt.Printf("no DOI found in %s\n", args[1])
		} else if result.Matches {
			fmt.Printf("%s matches %s\n", result.Found, result.Key)
		} else {
			fmt.Printf("%s does not match %s (%s)\n", result.Found, result.Key, result.Stored)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
