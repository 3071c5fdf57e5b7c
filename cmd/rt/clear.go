package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Release every reference in the registry",
	Long: `Release every reference and reset the registry to empty. Handles are
reissued from 1 on the next import.`,
	RunE: runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	state := mustOpenRepo()
	defer state.close()

	state.reg.Clear()
	state.save()

	if humanOutput {
		fmt.Println("registry cleared")
	} else {
		outputJSON(StatusResponse{Status: "cleared"})
	}
	return nil
}
