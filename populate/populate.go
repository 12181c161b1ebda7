package populate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/database"
	"github.com/expki/go-hmdb/logger"
	"github.com/expki/go-hmdb/ontology"
	"github.com/expki/go-hmdb/source"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// ErrMalformedRecord is returned when a record lacks structure the schema
// requires. It fails the whole run.
var ErrMalformedRecord = errors.New("malformed record")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}

// DiseaseMapper resolves a disease name against the external vocabularies.
type DiseaseMapper interface {
	Map(name string) ontology.CrossReferences
}

type Options struct {
	// MapDiseases resolves every new disease through Mapper before it is stored.
	MapDiseases bool
	Mapper      DiseaseMapper
	// BatchSize is the number of records per transaction.
	BatchSize int
	// Workers is the number of records decomposed concurrently.
	Workers int
	// KeyFields overrides the field every sub-record of a two-layer tag must
	// carry. An empty value uses the first field of the first sub-record.
	// Shared entities are always deduplicated on their unique column.
	KeyFields map[string]string
	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
}

type Result struct {
	RunID          uuid.UUID
	Metabolites    int
	Batches        int
	Diseases       int
	MappedDiseases int
	UnknownTags    []string
	Elapsed        time.Duration
}

// Populator loads a parsed HMDB document into the database.
type Populator struct {
	db   *database.Database
	opts Options
}

func New(db *database.Database, opts Options) *Populator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = config.BATCH_SIZE_POPULATE
	}
	if opts.Workers <= 0 {
		opts.Workers = config.DECOMPOSE_WORKERS
	}
	return &Populator{db: db, opts: opts}
}

// Populate stores every metabolite record of doc in document order. Records
// are decomposed concurrently and written by a single committer; each batch
// is one transaction. A failing record aborts the run, leaving earlier
// batches committed.
func (p *Populator) Populate(ctx context.Context, doc *xmlquery.Node) (result Result, err error) {
	began := time.Now()
	result.RunID = uuid.New()
	log := logger.Sugar().With("run", result.RunID.String())

	var mapper DiseaseMapper
	if p.opts.MapDiseases {
		mapper = p.opts.Mapper
		if mapper == nil {
			log.Warn("disease mapping enabled without ontology lookups, cross references stay empty")
		}
	}

	records := source.Records(doc)
	log.Infof("populating %d records", len(records))
	var bar *progressbar.ProgressBar
	if p.opts.Progress != nil {
		bar = progressbar.NewOptions(
			len(records),
			progressbar.OptionSetWriter(p.opts.Progress),
			progressbar.OptionSetDescription("Populating..."),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	} else {
		bar = progressbar.DefaultSilent(int64(len(records)))
	}

	d := newDecomposer(p.opts.KeyFields)
	c := newCommitter(mapper)
	for offset := 0; offset < len(records); offset += p.opts.BatchSize {
		end := min(offset+p.opts.BatchSize, len(records))
		batch, err := p.decompose(ctx, d, records[offset:end], offset)
		if err != nil {
			return c.result(result, began), err
		}
		if err := p.commit(ctx, c, batch, bar); err != nil {
			return c.result(result, began), err
		}
		result.Batches++
		result.Metabolites += len(batch)
		log.Debugf("committed batch %d (%d metabolites)", result.Batches, result.Metabolites)
	}
	bar.Finish()

	result = c.result(result, began)
	log.Infof("populated %d metabolites in %s, %d diseases of which %d mapped", result.Metabolites, result.Elapsed.Round(time.Millisecond), result.Diseases, result.MappedDiseases)
	return result, nil
}

// decompose builds the records of one batch concurrently, keeping document order.
func (p *Populator) decompose(ctx context.Context, d *decomposer, nodes []*xmlquery.Node, offset int) ([]*record, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	batch := make([]*record, len(nodes))
	for i, n := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := d.decompose(offset+i, n)
			if err != nil {
				return err
			}
			batch[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}

// commit writes one batch in a single transaction.
func (p *Populator) commit(ctx context.Context, c *committer, batch []*record, bar *progressbar.ProgressBar) error {
	tx := p.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Join(errors.New("failed to begin transaction"), tx.Error)
	}
	for _, r := range batch {
		if err := ctx.Err(); err != nil {
			tx.Rollback()
			return err
		}
		if err := c.commit(tx, r); err != nil {
			tx.Rollback()
			return fmt.Errorf("record %d (%s): %w", r.index+1, r.metabolite.Accession, err)
		}
		bar.Add(1)
	}
	if err := tx.Commit().Error; err != nil {
		return errors.Join(errors.New("failed to commit batch"), err)
	}
	return nil
}

func (c *committer) result(result Result, began time.Time) Result {
	result.Diseases = c.diseasesCreated
	result.MappedDiseases = c.diseasesMapped
	result.UnknownTags = make([]string, 0, len(c.reported))
	for tag := range c.reported {
		result.UnknownTags = append(result.UnknownTags, tag)
	}
	slices.Sort(result.UnknownTags)
	result.Elapsed = time.Since(began)
	return result
}
