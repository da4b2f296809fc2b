// =============================================================================
// CSV Cleaner - Profile Command
// =============================================================================
//
// This file defines the 'profile' command, which logs a data profile of a
// file without cleaning it.
//
// COMMAND USAGE:
//   clean profile [--sample N] [--report report.xlsx] <input-path>
//
// OUTPUT (info log entries):
//   data profile    rows, columns, missing cells
//   column profile  one per column: missing count and inferred kind
//   sample row      the first N rows
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-cleaner/internal/csvparser"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
	"github.com/ginjaninja78/csv-cleaner/internal/profile"
)

var (
	// profileSample overrides profile.sample_rows when positive.
	profileSample int

	// profileReport is where the XLSX report is written. Empty disables it.
	profileReport string
)

// profileCmd represents the 'profile' command.
var profileCmd = &cobra.Command{
	Use:   "profile <input-path>",
	Short: "Log a data profile of a CSV file",
	Long: `Log row and column counts, missing values per column, the inferred kind of
each column (numeric, date, text) and a few sample rows. The file is not
modified.`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runProfile,
}

// init registers the profile command with the root command.
func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().IntVar(
		&profileSample,
		"sample",
		0,
		"Number of sample rows (default from profile.sample_rows)",
	)

	profileCmd.Flags().StringVar(
		&profileReport,
		"report",
		"",
		"Also write the profile to this XLSX file",
	)
}

// runProfile profiles args[0].
func runProfile(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	table, err := csvparser.ParseFile(args[0])
	if err != nil {
		return err
	}

	sample := cfg.Profile.SampleRows
	if profileSample > 0 {
		sample = profileSample
	}

	p := profile.Build(table, sample)
	p.Log(logging.Adapt(logger.With().Str("path", args[0]).Logger()))

	if profileReport != "" {
		if err := profile.WriteXLSX(profileReport, p, nil); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", profileReport)
	}

	return nil
}
