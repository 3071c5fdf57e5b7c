package main

import (
	"fmt"

	"github.com/mlandis/reftrack/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new reftrack repository",
	Long: `Initialize a new reftrack repository in the current directory.

Creates:
  .reftrack/
  ├── config.yml      # Default config
  └── refs.db         # SQLite snapshot (created on first import)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := startDir()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized reftrack repository in %s\n", config.ReftrackPath(root))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.ReftrackPath(root)})
	}
	return nil
}
