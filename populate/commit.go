package populate

import (
	"errors"
	"fmt"

	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/database"
	"github.com/expki/go-hmdb/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// committer is the single writer of a run. It owns the maps from natural key
// to row id that keep every shared entity unique.
type committer struct {
	mapper DiseaseMapper

	biofluids         map[string]uint
	tissues           map[string]uint
	cellularLocations map[string]uint
	biofunctions      map[string]uint
	pathways          map[string]uint
	proteins          map[string]uint
	references        map[string]uint
	diseases          map[string]uint

	reported        map[string]struct{}
	correctedWarned bool
	diseasesCreated int
	diseasesMapped  int
}

func newCommitter(mapper DiseaseMapper) *committer {
	return &committer{
		mapper:            mapper,
		biofluids:         make(map[string]uint),
		tissues:           make(map[string]uint),
		cellularLocations: make(map[string]uint),
		biofunctions:      make(map[string]uint),
		pathways:          make(map[string]uint),
		proteins:          make(map[string]uint),
		references:        make(map[string]uint),
		diseases:          make(map[string]uint),
		reported:          make(map[string]struct{}),
	}
}

// commit stores a record. Shared entities are created on first sight, then
// the metabolite's own rows and associations are inserted in bulk.
func (c *committer) commit(tx *gorm.DB, r *record) error {
	c.report(r)

	m := r.metabolite
	if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
		return errors.Join(errors.New("failed to create metabolite"), err)
	}

	secondary := make([]database.SecondaryAccession, 0, len(r.secondaryAccessions))
	for _, accession := range r.secondaryAccessions {
		secondary = append(secondary, database.SecondaryAccession{MetaboliteID: m.ID, Accession: accession})
	}
	synonyms := make([]database.Synonym, 0, len(r.synonyms))
	for _, synonym := range r.synonyms {
		synonyms = append(synonyms, database.Synonym{MetaboliteID: m.ID, Synonym: synonym})
	}

	biofluids, err := link(c.biofluids, r.biofluids,
		func(name string) (uint, error) {
			row := database.Biofluid{Name: name}
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetaboliteBiofluid {
			return database.MetaboliteBiofluid{MetaboliteID: m.ID, BiofluidID: id}
		})
	if err != nil {
		return err
	}
	tissues, err := link(c.tissues, r.tissues,
		func(name string) (uint, error) {
			row := database.Tissue{Name: name}
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetaboliteTissue {
			return database.MetaboliteTissue{MetaboliteID: m.ID, TissueID: id}
		})
	if err != nil {
		return err
	}
	cellularLocations, err := link(c.cellularLocations, r.cellularLocations,
		func(name string) (uint, error) {
			row := database.CellularLocation{Name: name}
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetaboliteCellularLocation {
			return database.MetaboliteCellularLocation{MetaboliteID: m.ID, CellularLocationID: id}
		})
	if err != nil {
		return err
	}
	biofunctions, err := link(c.biofunctions, r.biofunctions,
		func(name string) (uint, error) {
			row := database.Biofunction{Name: name}
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetaboliteBiofunction {
			return database.MetaboliteBiofunction{MetaboliteID: m.ID, BiofunctionID: id}
		})
	if err != nil {
		return err
	}

	pathways, err := linkKeyed(c.pathways, r.pathways,
		func(row database.Pathway) (uint, error) {
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetabolitePathway {
			return database.MetabolitePathway{MetaboliteID: m.ID, PathwayID: id}
		})
	if err != nil {
		return err
	}
	proteins, err := linkKeyed(c.proteins, r.proteins,
		func(row database.Protein) (uint, error) {
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetaboliteProtein {
			return database.MetaboliteProtein{MetaboliteID: m.ID, ProteinID: id}
		})
	if err != nil {
		return err
	}
	references, err := linkKeyed(c.references, r.references,
		func(row database.Reference) (uint, error) {
			return insert(tx, &row, &row.ID)
		},
		func(id uint) database.MetaboliteReference {
			return database.MetaboliteReference{MetaboliteID: m.ID, ReferenceID: id}
		})
	if err != nil {
		return err
	}

	var citations []database.MetaboliteDiseaseReference
	for _, cited := range r.diseases {
		diseaseID, err := resolve(c.diseases, cited.disease.Name, func() (uint, error) {
			return c.createDisease(tx, cited.disease)
		})
		if err != nil {
			return err
		}
		for _, ref := range cited.references {
			referenceID, err := resolve(c.references, ref.key, func() (uint, error) {
				row := ref.value
				return insert(tx, &row, &row.ID)
			})
			if err != nil {
				return err
			}
			citations = append(citations, database.MetaboliteDiseaseReference{
				MetaboliteID: m.ID,
				DiseaseID:    diseaseID,
				ReferenceID:  referenceID,
			})
		}
	}

	in := &inserter{tx: tx}
	insertAll(in, secondary)
	insertAll(in, synonyms)
	insertAll(in, biofluids)
	insertAll(in, tissues)
	insertAll(in, cellularLocations)
	insertAll(in, biofunctions)
	insertAll(in, pathways)
	insertAll(in, proteins)
	insertAll(in, references)
	insertAll(in, citations)
	return in.err
}

// createDisease maps a disease seen for the first time, then stores it.
func (c *committer) createDisease(tx *gorm.DB, disease database.Disease) (uint, error) {
	if c.mapper != nil {
		refs := c.mapper.Map(disease.Name)
		disease.DiseaseOntology = refs.DiseaseOntology
		disease.HumanPhenotype = refs.HumanPhenotypeOntology
		disease.MeshDiseases = refs.MeSHDiseases
		if !refs.Empty() {
			c.diseasesMapped++
		}
	}
	id, err := insert(tx, &disease, &disease.ID)
	if err != nil {
		return 0, err
	}
	c.diseasesCreated++
	return id, nil
}

// report logs unknown tags and the corrected weight spelling once per run.
func (c *committer) report(r *record) {
	for _, tag := range r.unknown {
		if _, ok := c.reported[tag]; ok {
			continue
		}
		c.reported[tag] = struct{}{}
		logger.Sugar().Warnf("skipping unrecognised tag %q (first seen in %s)", tag, r.metabolite.Accession)
	}
	if r.correctedTag && !c.correctedWarned {
		c.correctedWarned = true
		logger.Sugar().Warnf("source uses %q, the %q remap is no longer needed", correctedMonoisotopicTag, legacyMonoisotopicTag)
	}
}

// resolve returns the id stored for key, creating the row on first sight.
func resolve(ids map[string]uint, key string, create func() (uint, error)) (uint, error) {
	if id, ok := ids[key]; ok {
		return id, nil
	}
	id, err := create()
	if err != nil {
		return 0, err
	}
	ids[key] = id
	return id, nil
}

// link resolves one-layer values and builds an association row for each
// occurrence, repeats included.
func link[A any](ids map[string]uint, names []string, create func(name string) (uint, error), row func(id uint) A) ([]A, error) {
	rows := make([]A, 0, len(names))
	for _, name := range names {
		id, err := resolve(ids, name, func() (uint, error) { return create(name) })
		if err != nil {
			return nil, err
		}
		rows = append(rows, row(id))
	}
	return rows, nil
}

func linkKeyed[T, A any](ids map[string]uint, entities []keyed[T], create func(entity T) (uint, error), row func(id uint) A) ([]A, error) {
	rows := make([]A, 0, len(entities))
	for _, entity := range entities {
		id, err := resolve(ids, entity.key, func() (uint, error) { return create(entity.value) })
		if err != nil {
			return nil, err
		}
		rows = append(rows, row(id))
	}
	return rows, nil
}

// insert creates row and returns the primary key gorm wrote into id.
func insert[T any](tx *gorm.DB, row *T, id *uint) (uint, error) {
	if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create %T: %w", *row, err)
	}
	return *id, nil
}

// inserter bulk inserts rows until the first failure.
type inserter struct {
	tx  *gorm.DB
	err error
}

func insertAll[T any](in *inserter, rows []T) {
	if in.err != nil || len(rows) == 0 {
		return
	}
	if err := in.tx.Omit(clause.Associations).CreateInBatches(rows, config.BATCH_SIZE_INSERT).Error; err != nil {
		in.err = fmt.Errorf("failed to create %T: %w", rows, err)
	}
}
