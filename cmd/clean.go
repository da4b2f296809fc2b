// =============================================================================
// CSV Cleaner - Clean Command
// =============================================================================
//
// This file implements the root command's action: cleaning one file.
//
// COMMAND USAGE:
//   clean [flags] <input-path> <output-path>
//
// FLAGS:
//   --report           : Also write an XLSX profile report (before and after)
//   --metrics-textfile : Write run metrics in Prometheus text format, for the
//                        node_exporter textfile collector
//
// PROCESSING PIPELINE:
//   1. Load configuration and set up logging
//   2. Clean the input into the output, optionally writing the metrics file
//   3. Print the summary
//   4. Profile both files and log the profiles
//   5. Optionally write the profiles to the XLSX report
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-cleaner/internal/cleaner"
	"github.com/ginjaninja78/csv-cleaner/internal/config"
	"github.com/ginjaninja78/csv-cleaner/internal/csvparser"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
	"github.com/ginjaninja78/csv-cleaner/internal/metrics"
	"github.com/ginjaninja78/csv-cleaner/internal/profile"
	"github.com/ginjaninja78/csv-cleaner/internal/types"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// reportPath is where the XLSX profile report is written. Empty disables it.
var reportPath string

// metricsTextfile is where run metrics are written. Empty disables it.
var metricsTextfile string

// init sets up the flags of the clean action on the root command.
func init() {
	rootCmd.Flags().StringVar(
		&reportPath,
		"report",
		"",
		"Write an XLSX profile report of the input and output to this path",
	)

	rootCmd.Flags().StringVar(
		&metricsTextfile,
		"metrics-textfile",
		"",
		"Write run metrics in Prometheus text format to this path",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runClean cleans args[0] into args[1].
func runClean(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	source, destination := args[0], args[1]

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()

	// =========================================================================
	// STEP 2: CLEAN
	// =========================================================================

	c := cleaner.New(logging.Adapt(logger))
	summary, err := c.Clean(source, destination)
	collector.RecordRun("cli", summary, err, time.Since(startTime))

	if metricsTextfile != "" {
		if werr := prometheus.WriteToTextfile(metricsTextfile, collector.Registry()); werr != nil {
			logger.Warn().Err(werr).Str("path", metricsTextfile).Msg("failed to write metrics file")
		}
	}

	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: PRINT SUMMARY
	// =========================================================================

	printSummary(cmd, summary)

	// =========================================================================
	// STEP 4: DATA PROFILES
	// =========================================================================

	before, after, err := profileRun(cfg, logging.Adapt(logger), source, destination)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 5: PROFILE REPORT
	// =========================================================================

	if reportPath != "" {
		if err := profile.WriteXLSX(reportPath, before, after); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report:          %s\n", reportPath)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// printSummary writes the run summary to the command's stdout.
func printSummary(cmd *cobra.Command, summary *types.CleaningSummary) {
	out := cmd.OutOrStdout()

	dateColumns := "none"
	if len(summary.DateColumns) > 0 {
		dateColumns = strings.Join(summary.DateColumns, ", ")
	}

	fmt.Fprintf(out, "Cleaned %s -> %s\n", summary.Source, summary.Destination)
	fmt.Fprintf(out, "Rows in:         %d\n", summary.InputRows)
	fmt.Fprintf(out, "Rows out:        %d\n", summary.OutputRows)
	fmt.Fprintf(out, "Dropped:         %d\n", summary.DroppedRows)
	fmt.Fprintf(out, "Date columns:    %s\n", dateColumns)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.Duration)
}

// profileRun profiles the source and the cleaned output and logs both.
//
// RETURNS:
//   - The profile of the source and of the cleaned output.
//   - An error if either file cannot be read back.
func profileRun(cfg *config.Config, logger logging.Logger, source, destination string) (*profile.Profile, *profile.Profile, error) {
	before, err := csvparser.ParseFile(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to profile source: %w", err)
	}
	after, err := csvparser.ParseFile(destination)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to profile output: %w", err)
	}

	beforeProfile := profile.Build(before, cfg.Profile.SampleRows)
	afterProfile := profile.Build(after, cfg.Profile.SampleRows)

	logger.Info("initial data profile", "path", source)
	beforeProfile.Log(logger)
	logger.Info("final data profile", "path", destination)
	afterProfile.Log(logger)

	return beforeProfile, afterProfile, nil
}
