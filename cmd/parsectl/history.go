package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newHistoryCmd(output *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent parse attempts from the audit store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled {
				return errors.New("audit store disabled (set DOCPARSE_DB_ENABLED=true)")
			}
			records, closeRecords, err := openRecords(&cfg.DB, zl)
			if err != nil {
				return err
			}
			defer closeRecords()

			recent, err := records.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), *output, recent)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records")
	return cmd
}
