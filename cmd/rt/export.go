package main

import (
	"os"

	"github.com/mlandis/reftrack/internal/render"
	"github.com/spf13/cobra"
)

var (
	exportText bool
	exportXML  bool
)

func init() {
	exportCmd.Flags().BoolVar(&exportText, "text", false, "Render the cited references as a journal-style citation list")
	exportCmd.Flags().BoolVar(&exportXML, "xml", false, "Render every reference as escaped XML")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the registry as citation text or XML",
	Long: `Render the registry to stdout.

--text emits one wrapped paragraph per cited reference, most recent
first. --xml emits a REFERENCE element for every reference, cited or
not.

Examples:
  rt export --text
  rt export --xml > refs.xml`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportText == exportXML {
		exitWithError(ExitError, "exactly one of --text or --xml is required")
	}

	state := mustOpenRepo()
	defer state.close()

	var err error
	if exportText {
		err = render.Journal(os.Stdout, state.reg, state.cfg.WrapColumn)
	} else {
		err = render.XML(os.Stdout, state.reg)
	}
	if err != nil {
		exitWithError(ExitError, "rendering: %v", err)
	}
	return nil
}
