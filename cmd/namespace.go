package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/expki/go-hmdb/belns"
	"github.com/spf13/cobra"
)

func (a *app) namespaceCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "namespace accessions|diseases",
		Short:     "Write a BEL namespace of HMDB accessions or disease names",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"accessions", "diseases"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, err := a.open()
			if err != nil {
				return err
			}
			defer db.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return errors.Join(fmt.Errorf("failed to create %s", output), err)
				}
				defer func() {
					if cerr := file.Close(); err == nil {
						err = cerr
					}
				}()
				w = file
			}

			switch args[0] {
			case "accessions":
				return belns.WriteAccessions(cmd.Context(), w, db)
			default:
				return belns.WriteDiseases(cmd.Context(), w, db)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}
