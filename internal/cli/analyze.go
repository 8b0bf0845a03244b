/*
PURPOSE:
  Defines the 'analyze' subcommand.
  Scores every run of a sweep and writes the reduced summary.

REQUIREMENTS:
  User-specified:
  - Accept either a campaign manifest or a list of run directories.
  - Flags for the per-run file names (same short names as the old scripts).

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Analyze()
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error if config load fails or the analysis fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> engine.Analyze -> print table.

USAGE:
  pi-accuracy analyze --manifest runs.json
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/pi-accuracy/internal/config"
	"github.com/daryltucker/pi-accuracy/internal/engine"
	"github.com/daryltucker/pi-accuracy/internal/output"
)

var (
	manifestPath      string
	referenceOverride string
	stdoutOverride    string
	paramOverride     string
	walltimeOverride  string
	outputOverride    string
	dbOverride        string
	workersOverride   int
	quiet             bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [run-dir...]",
	Short: "Score sweep runs and reduce them to a precision summary",
	Long: `Scores each run's output against the reference digits and, for every
(method, iterations) pair, reports the lowest precision that reaches the best
number of correct digits.

Runs come either from a manifest (a JSON array of parameter objects, each with
"output_directory") or from run directories given as arguments, each holding a
parameter JSON file, the program's stdout and its walltime.

Outputs (in --output-dir): the analysis text file, run records as CSV and
JSON Lines, and the summary as JSON. With --db the analysis is also stored in
SQLite for 'history'.`,
	Example: `  # Analyze a campaign manifest
  pi-accuracy analyze --manifest runs.json

  # Analyze run directories with custom file names
  pi-accuracy analyze -s stdout.txt -p params.json -w walltime.txt runs/*

  # Keep a history of analyses
  pi-accuracy analyze --manifest runs.json --db analyses.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyAnalyzeOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		report, err := engine.Analyze(cmd.Context(), cfg, engine.Inputs{
			Manifest: manifestPath,
			Dirs:     args,
		})
		if err != nil {
			return err
		}

		if quiet {
			return nil
		}
		return output.WriteTable(cmd.OutOrStdout(), report.Rows)
	},
}

func applyAnalyzeOverrides(cmd *cobra.Command, cfg *config.Config) {
	if referenceOverride != "" {
		cfg.ReferencePath = referenceOverride
	}
	if stdoutOverride != "" {
		cfg.StdoutName = stdoutOverride
	}
	if paramOverride != "" {
		cfg.ParamName = paramOverride
	}
	if walltimeOverride != "" {
		cfg.WalltimeName = walltimeOverride
	}
	if outputOverride != "" {
		cfg.OutputDir = outputOverride
	}
	if dbOverride != "" {
		cfg.Database = dbOverride
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workersOverride
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "JSON array of run parameters with output_directory")
	analyzeCmd.Flags().StringVarP(&referenceOverride, "reference", "r", "", "File containing the reference digits of pi")
	analyzeCmd.Flags().StringVarP(&stdoutOverride, "stdout-name", "s", "", "Name of file containing the output pi digits")
	analyzeCmd.Flags().StringVarP(&paramOverride, "param-name", "p", "", "Name of file containing the parameters as JSON")
	analyzeCmd.Flags().StringVarP(&walltimeOverride, "walltime-name", "w", "", "Name of file containing the walltime")
	analyzeCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for the analysis files")
	analyzeCmd.Flags().StringVar(&dbOverride, "db", "", "SQLite database to store the analysis in")
	analyzeCmd.Flags().IntVar(&workersOverride, "workers", 0, "Number of run directories read concurrently")
	analyzeCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the summary table")
}
