package cmd

import (
	"fmt"
	"strconv"

	"github.com/expki/go-hmdb/database"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) summarizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Count the rows of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			defer db.Close()
			if !db.Migrator().HasTable(&database.Metabolite{}) {
				fmt.Fprintln(cmd.OutOrStdout(), "database is empty, run populate first")
				return nil
			}

			counts, err := db.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Table", "Rows")
			for _, count := range counts {
				if err := table.Append(count.Table, strconv.FormatInt(count.Count, 10)); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
