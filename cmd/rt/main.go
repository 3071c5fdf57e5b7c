// Package main provides the rt CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rt",
	Short: "Citation registry for tagged bibliographic records",
	Long: `rt manages a registry of bibliographic references imported from
tagged-field record exports.

Each imported reference gets a stable handle and a unique citation key
(surname+year). References can be marked cited, and the cited subset
renders as a wrapped journal-style citation list or as escaped XML.
State persists in a SQLite snapshot under .reftrack/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// startDir returns the directory repository discovery starts from. The
// RT_ROOT environment variable overrides the working directory.
func startDir() (string, error) {
	if root := os.Getenv("RT_ROOT"); root != "" {
		return root, nil
	}
	return os.Getwd()
}
