package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/expki/go-hmdb/database"
	"github.com/expki/go-hmdb/logger"
	"github.com/expki/go-hmdb/ontology"
	"github.com/expki/go-hmdb/populate"
	"github.com/expki/go-hmdb/source"
	"github.com/spf13/cobra"
)

var errPopulated = errors.New("database already populated, run drop first")

func (a *app) populateCommand() *cobra.Command {
	var (
		sourcePath    string
		skipMapping   bool
		forceDownload bool
	)
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Download the HMDB export and load it into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			path := sourcePath
			if path == "" {
				src := source.New(a.cfg.Source, a.cfg.DataDir, nil)
				src.Progress = cmd.ErrOrStderr()
				var err error
				path, err = src.EnsureSource(ctx, forceDownload)
				if err != nil {
					return err
				}
			}
			logger.Sugar().Infof("parsing %s", path)
			doc, err := source.Parse(path)
			if err != nil {
				return err
			}

			db, err := a.open()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.CreateAll(ctx); err != nil {
				return err
			}
			existing, err := db.Count(ctx, &database.Metabolite{})
			if err != nil {
				return err
			}
			if existing > 0 {
				return errPopulated
			}

			opts := populate.Options{
				MapDiseases: a.cfg.Populate.MapDiseases && !skipMapping,
				BatchSize:   a.cfg.Populate.BatchSize,
				Workers:     a.cfg.Populate.Workers,
				Progress:    cmd.ErrOrStderr(),
			}
			var lookups ontology.Lookups
			if opts.MapDiseases {
				lookups = ontology.NewClient(a.cfg.Ontology, nil).BuildLookups(ctx)
				if len(lookups) > 0 {
					opts.Mapper = lookups
				}
			}

			result, err := populate.New(db, opts).Populate(ctx, doc)
			if err != nil {
				return err
			}
			if opts.Mapper != nil {
				if err := reportMapping(ctx, db, lookups); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "populated %d metabolites and %d diseases (%d mapped) in %s\n",
				result.Metabolites, result.Diseases, result.MappedDiseases, result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&sourcePath, "source", "", "HMDB XML file to load instead of the downloaded export")
	flags.BoolVar(&skipMapping, "skip-mapping", false, "do not resolve disease names against the ontologies")
	flags.BoolVar(&forceDownload, "force-download", false, "download the export even when a cached copy exists")
	flags.Int("batch-size", 0, "metabolite records per transaction")
	flags.Int("workers", 0, "records decomposed concurrently")
	_ = a.viper.BindPFlag("populate.batch_size", flags.Lookup("batch-size"))
	_ = a.viper.BindPFlag("populate.workers", flags.Lookup("workers"))
	return cmd
}

// reportMapping logs how the stored disease names split across the
// vocabularies when each one claims what the previous left unmatched.
func reportMapping(ctx context.Context, db *database.Database, lookups ontology.Lookups) error {
	names, err := db.DiseaseNames(ctx)
	if err != nil {
		return err
	}
	report := lookups.PartitionAll(names)
	for _, o := range ontology.Priority {
		matched, ok := report.Matched[o]
		if !ok {
			continue
		}
		logger.Sugar().Infof("%s claimed %d of %d disease names", o, len(matched), len(names))
		for _, name := range slices.Sorted(maps.Keys(matched)) {
			logger.Sugar().Debugf("%s: %q -> %q", o, name, matched[name])
		}
	}
	if len(report.Unmatched) > 0 {
		logger.Sugar().Warnf("%d disease names matched no ontology", len(report.Unmatched))
		logger.Sugar().Debugf("unmatched disease names: %v", report.Unmatched)
	}
	return nil
}
