// =============================================================================
// CSV Cleaner - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// itself cleans one file; the other commands are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (clean <input-path> <output-path>)
//   ├── serveCmd   (clean serve)
//   ├── profileCmd (clean profile <input-path>)
//   └── versionCmd (clean version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --log-level, --log-format, --verbose)
//   2. Binding flags and CSVCLEAN_* environment variables with viper
//   3. Setting up logging
//
// EXIT CODES:
//   0 - success
//   1 - the run failed (parse error, I/O error, anything else)
//   2 - usage error (wrong arguments or flags)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/csv-cleaner/internal/config"
	"github.com/ginjaninja78/csv-cleaner/internal/logging"
)

// envPrefix is the prefix of every environment variable read by the CLI.
const envPrefix = "CSVCLEAN"

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the YAML configuration file. Empty means defaults.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// logLevel and logFormat override the logging section of the configuration.
var (
	logLevel  string
	logFormat string
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command. Called with two arguments it cleans
// the first file into the second.
var rootCmd = &cobra.Command{
	Use:   "clean <input-path> <output-path>",
	Short: "CSV Cleaner - Remove null rows, trim whitespace and normalize dates",

	Long: `CSV Cleaner writes a cleaned copy of a comma-delimited UTF-8 file.

Cleaning steps, in order:
  1. Drop every row with an empty or null cell (NA, null, N/A, NaN, ...)
  2. Trim leading and trailing whitespace of every cell
  3. Rewrite date-like columns as YYYY-MM-DD
  4. Write the result with the same header, all or nothing

The source file is never modified.

Example Usage:
  clean input.csv output.csv                       # Clean a file
  clean --report report.xlsx input.csv output.csv  # Also write a profile report
  clean serve --addr :8080                         # Start the upload form
  clean profile input.csv                          # Log a data profile`,

	Args: usageArgs(cobra.ExactArgs(2)),

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: runClean,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits with its code.
// This is called by main.main().
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command tree and maps the outcome to an exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprint(stderr, usage.cmd.UsageString())
		return 2
	}
	return 1
}

// =============================================================================
// USAGE ERRORS
// =============================================================================

// usageError marks an error caused by how the command was invoked.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a positional argument validator so its failures are usage
// errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{cmd: cmd, err: err}
		}
		return nil
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags and configuration initialization.
func init() {
	cobra.OnInitialize(initConfig)

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (optional)",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		config.DefaultLogLevel,
		"Log level: debug, info, warn, error",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		config.DefaultLogFormat,
		"Log format: console or json",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, err: err}
	})
}

// initConfig binds flags and environment variables with viper. It runs before
// every command.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The logging variables are shorter than their keys.
	_ = viper.BindEnv("logging.level", envPrefix+"_LOG_LEVEL")
	_ = viper.BindEnv("logging.format", envPrefix+"_LOG_FORMAT")
	_ = viper.BindEnv("server.addr", envPrefix+"_SERVER_ADDR")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig reads the configuration file and overlays flags and environment
// variables on top of it.
//
// Precedence: flags > CSVCLEAN_* env vars > YAML file > defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	if viper.IsSet("logging.level") {
		cfg.Logging.Level = viper.GetString("logging.level")
	}
	if viper.IsSet("logging.format") {
		cfg.Logging.Format = viper.GetString("logging.format")
	}
	if viper.IsSet("server.addr") {
		cfg.Server.Addr = viper.GetString("server.addr")
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setup loads the configuration and builds the logger for cmd.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	logger.Debug().
		Str("config", viper.GetString("config")).
		Str("level", cfg.Logging.Level).
		Str("format", cfg.Logging.Format).
		Msg("configuration loaded")

	return cfg, logger, nil
}
