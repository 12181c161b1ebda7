package cmd

import (
	"context"
	"errors"

	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/database"
	"github.com/expki/go-hmdb/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the resolved configuration shared by every subcommand.
type app struct {
	viper *viper.Viper
	cfg   config.Config
}

// NewRootCommand builds the hmdb command tree. Each call returns an
// independent tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{viper: config.NewViper()}
	var configFile string

	root := &cobra.Command{
		Use:   "hmdb",
		Short: "Load the Human Metabolome Database into a relational store",
		Long: `hmdb downloads the HMDB metabolite export, decomposes every metabolite
record into normalized tables and resolves disease names against the
Disease Ontology, the Human Phenotype Ontology and MeSH Diseases.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(configFile)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is <data dir>/config.json)")
	flags.String("connection", "", "database connection string, e.g. sqlite:///path/hmdb.db or postgres://user@host/db")
	flags.String("data-dir", config.DefaultDataDir(), "directory holding the downloaded export and the default database")
	flags.String("log-level", string(config.LogLevelInfo), "log level (debug, info, warn, error)")
	_ = a.viper.BindPFlag("database.connection", flags.Lookup("connection"))
	_ = a.viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = a.viper.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		a.populateCommand(),
		a.dropCommand(),
		a.summarizeCommand(),
		a.namespaceCommand(),
		a.sampleConfigCommand(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) load(configFile string) error {
	if err := config.ReadFile(a.viper, configFile); err != nil {
		return err
	}
	a.cfg = config.Load(a.viper)
	if err := logger.Initialize(a.cfg.LogLevel.Zap()); err != nil {
		return errors.Join(errors.New("failed to initialize logger"), err)
	}
	return nil
}

func (a *app) open() (*database.Database, error) {
	db, err := database.New(a.cfg.Database)
	if err != nil {
		return nil, errors.Join(errors.New("failed to connect to database"), err)
	}
	return db, nil
}
