package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/pi-accuracy/internal/digits"
	"github.com/daryltucker/pi-accuracy/internal/engine"
)

var showWaste bool

var compareCmd = &cobra.Command{
	Use:   "compare <result-file>...",
	Short: "Print the number of correct digits in pi output files",
	Long: `Compares each file against the reference digits and prints the number of
correct fractional digits. With one file only the number is printed; with
several, each line is prefixed with the file name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if referenceOverride != "" {
			cfg.ReferencePath = referenceOverride
		}

		ref, err := digits.LoadReference(cfg.ReferencePath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, path := range args {
			candidate, err := engine.ReadCandidate(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			acc, err := ref.Compare(candidate)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if len(args) > 1 {
				fmt.Fprintf(out, "%s: ", path)
			}
			if showWaste {
				fmt.Fprintln(out, acc.CorrectDigits, acc.WasteDigits)
			} else {
				fmt.Fprintln(out, acc.CorrectDigits)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&referenceOverride, "reference", "r", "", "File containing the reference digits of pi")
	compareCmd.Flags().BoolVar(&showWaste, "waste", false, "Also print the number of wasted digits")
}
