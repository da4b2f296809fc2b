// =============================================================================
// CSV Cleaner - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CSV Cleaner CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   clean <input-path> <output-path>  - Write a cleaned copy of a CSV file
//   clean serve                       - Start the upload form
//   clean profile <input-path>        - Log a data profile of a CSV file
//   clean version                     - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra, Viper)
//   - internal/  : Cleaning logic, parsing, profiling, web form, config
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv-cleaner/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
