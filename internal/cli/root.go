/*
PURPOSE:
  Defines the root Cobra command for the pi-accuracy CLI.
  Handles global flags and shared config/logger setup.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Every subcommand needs the same config + logger bootstrap.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/pi-accuracy/main.go
  - Calls: Child commands (analyze, compare, history)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

RELATED FILES:
  - cmd/pi-accuracy/main.go
  - internal/config/config.go
*/

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/pi-accuracy/internal/config"
	"github.com/daryltucker/pi-accuracy/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "pi-accuracy",
		Short: "Digit accuracy analysis for pi computation sweeps",
		Long: `Scores the output of a pi computation program against reference digits and
reduces a (method, precision, iterations) sweep to the lowest precision that
reaches the best accuracy for each method and iteration count.

Use 'analyze --help' for sweep options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pi_accuracy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// loadConfig loads the config file and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	l, err := output.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	output.SetLogger(l)
	return cfg, nil
}
