package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/expki/go-hmdb/config"
	"github.com/spf13/cobra"
)

func (a *app) sampleConfigCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sample-config [path]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(a.cfg.DataDir, config.CONFIG_FILE_NAME)
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
