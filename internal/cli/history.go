package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/daryltucker/pi-accuracy/internal/output"
	"github.com/daryltucker/pi-accuracy/internal/store"
)

var (
	historyDB   string
	historyJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history [analysis-id]",
	Short: "List stored analyses or show one analysis summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if historyDB != "" {
			cfg.Database = historyDB
		}
		if cfg.Database == "" {
			return errors.New("no database configured (use --db or the database config key)")
		}

		s, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()

		if len(args) == 1 {
			rows, err := s.Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if historyJSON {
				return output.WriteSummaryJSON(out, rows)
			}
			return output.WriteTable(out, rows)
		}

		list, err := s.ListAnalyses(cmd.Context())
		if err != nil {
			return err
		}
		output.Logger.Debug("Listed analyses", "database", cfg.Database, "count", len(list))

		if historyJSON {
			if list == nil {
				list = []store.AnalysisInfo{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tRUNS\tROWS\tREFERENCE")
		for _, a := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
				a.ID, a.CreatedAt.Local().Format(time.DateTime), a.Runs, a.Rows, a.Reference)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDB, "db", "", "SQLite database holding stored analyses")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print JSON instead of a table")
}
