package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// TableCount is the number of rows held by one table.
type TableCount struct {
	Table string
	Count int64
}

func (db *Database) read(ctx context.Context) *gorm.DB {
	return db.DB.WithContext(ctx).Clauses(dbresolver.Read)
}

// take returns the first row matching query, or nil when there is none.
func take[T any](tx *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	err := tx.Where(query, args...).Order("id").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// related loads the association rows pointing at id through foreignKey,
// with the other end preloaded, in insertion order.
func related[T any](tx *gorm.DB, foreignKey string, id uint, order string, preload ...string) ([]T, error) {
	var rows []T
	tx = tx.Where(foreignKey+" = ?", id).Order(order)
	for _, association := range preload {
		tx = tx.Preload(association)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (db *Database) MetaboliteByAccession(ctx context.Context, accession string) (*Metabolite, error) {
	return take[Metabolite](db.read(ctx), "accession = ?", accession)
}

func (db *Database) DiseaseByName(ctx context.Context, name string) (*Disease, error) {
	return take[Disease](db.read(ctx), "name = ?", name)
}

func (db *Database) ProteinByUniprotID(ctx context.Context, uniprotID string) (*Protein, error) {
	return take[Protein](db.read(ctx), "uniprot_id = ?", uniprotID)
}

func (db *Database) ProteinByAccession(ctx context.Context, accession string) (*Protein, error) {
	return take[Protein](db.read(ctx), "protein_accession = ?", accession)
}

func (db *Database) PathwayByName(ctx context.Context, name string) (*Pathway, error) {
	return take[Pathway](db.read(ctx), "name = ?", name)
}

func (db *Database) ReferenceByPubmedID(ctx context.Context, pubmedID string) (*Reference, error) {
	return take[Reference](db.read(ctx), "pubmed_id = ?", pubmedID)
}

// Accessions lists every metabolite accession in insertion order.
func (db *Database) Accessions(ctx context.Context) ([]string, error) {
	var accessions []string
	err := db.read(ctx).Model(&Metabolite{}).Order("id").Pluck("accession", &accessions).Error
	return accessions, err
}

// DiseaseNames lists every disease name in insertion order.
func (db *Database) DiseaseNames(ctx context.Context) ([]string, error) {
	var names []string
	err := db.read(ctx).Model(&Disease{}).Order("id").Pluck("name", &names).Error
	return names, err
}

func (db *Database) Count(ctx context.Context, model any) (total int64, err error) {
	err = db.read(ctx).Model(model).Count(&total).Error
	return total, err
}

// Summarize counts the rows of every table in creation order.
func (db *Database) Summarize(ctx context.Context) ([]TableCount, error) {
	models := Models()
	counts := make([]TableCount, 0, len(models))
	for _, model := range models {
		stmt := &gorm.Statement{DB: db.DB}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		total, err := db.Count(ctx, model)
		if err != nil {
			return nil, errors.Join(errors.New("failed to count "+stmt.Schema.Table), err)
		}
		counts = append(counts, TableCount{Table: stmt.Schema.Table, Count: total})
	}
	return counts, nil
}

func (db *Database) MetaboliteProteins(ctx context.Context, m *Metabolite) ([]MetaboliteProtein, error) {
	return related[MetaboliteProtein](db.read(ctx), "metabolite_id", m.ID, "id", "Protein")
}

func (db *Database) MetabolitePathways(ctx context.Context, m *Metabolite) ([]MetabolitePathway, error) {
	return related[MetabolitePathway](db.read(ctx), "metabolite_id", m.ID, "id", "Pathway")
}

func (db *Database) MetaboliteReferences(ctx context.Context, m *Metabolite) ([]MetaboliteReference, error) {
	return related[MetaboliteReference](db.read(ctx), "metabolite_id", m.ID, "id", "Reference")
}

func (db *Database) MetaboliteBiofluids(ctx context.Context, m *Metabolite) ([]MetaboliteBiofluid, error) {
	return related[MetaboliteBiofluid](db.read(ctx), "metabolite_id", m.ID, "id", "Biofluid")
}

func (db *Database) MetaboliteTissues(ctx context.Context, m *Metabolite) ([]MetaboliteTissue, error) {
	return related[MetaboliteTissue](db.read(ctx), "metabolite_id", m.ID, "id", "Tissue")
}

func (db *Database) MetaboliteCellularLocations(ctx context.Context, m *Metabolite) ([]MetaboliteCellularLocation, error) {
	return related[MetaboliteCellularLocation](db.read(ctx), "metabolite_id", m.ID, "id", "CellularLocation")
}

func (db *Database) MetaboliteBiofunctions(ctx context.Context, m *Metabolite) ([]MetaboliteBiofunction, error) {
	return related[MetaboliteBiofunction](db.read(ctx), "metabolite_id", m.ID, "id", "Biofunction")
}

// MetaboliteDiseases returns one row per disease citation. Rows for the same
// disease are contiguous, in the order the disease was first seen.
func (db *Database) MetaboliteDiseases(ctx context.Context, m *Metabolite) ([]MetaboliteDiseaseReference, error) {
	return related[MetaboliteDiseaseReference](db.read(ctx), "metabolite_id", m.ID, "disease_id, id", "Disease", "Reference")
}

func (db *Database) MetaboliteSynonyms(ctx context.Context, m *Metabolite) ([]Synonym, error) {
	return related[Synonym](db.read(ctx), "metabolite_id", m.ID, "id")
}

func (db *Database) MetaboliteSecondaryAccessions(ctx context.Context, m *Metabolite) ([]SecondaryAccession, error) {
	return related[SecondaryAccession](db.read(ctx), "metabolite_id", m.ID, "id")
}

func (db *Database) ProteinMetabolites(ctx context.Context, p *Protein) ([]MetaboliteProtein, error) {
	return related[MetaboliteProtein](db.read(ctx), "protein_id", p.ID, "id", "Metabolite")
}

// DiseaseMetabolites returns one row per citation, grouped by metabolite.
func (db *Database) DiseaseMetabolites(ctx context.Context, d *Disease) ([]MetaboliteDiseaseReference, error) {
	return related[MetaboliteDiseaseReference](db.read(ctx), "disease_id", d.ID, "metabolite_id, id", "Metabolite", "Reference")
}

func (db *Database) PathwayMetabolites(ctx context.Context, p *Pathway) ([]MetabolitePathway, error) {
	return related[MetabolitePathway](db.read(ctx), "pathway_id", p.ID, "id", "Metabolite")
}

func (db *Database) ReferenceMetabolites(ctx context.Context, r *Reference) ([]MetaboliteReference, error) {
	return related[MetaboliteReference](db.read(ctx), "reference_id", r.ID, "id", "Metabolite")
}

// ordered preloads a has-many association in the given order, then each
// far end listed in ends.
func ordered(tx *gorm.DB, association, order string, ends ...string) *gorm.DB {
	tx = tx.Preload(association, func(tx *gorm.DB) *gorm.DB { return tx.Order(order) })
	for _, end := range ends {
		tx = tx.Preload(association + "." + end)
	}
	return tx
}

// LoadMetabolite returns the metabolite with every association populated, far
// ends included, so it can be navigated without further queries. A missing
// metabolite yields nil without error.
func (db *Database) LoadMetabolite(ctx context.Context, accession string) (*Metabolite, error) {
	tx := db.read(ctx)
	tx = ordered(tx, "SecondaryAccessions", "id")
	tx = ordered(tx, "Synonyms", "id")
	tx = ordered(tx, "Biofluids", "id", "Biofluid")
	tx = ordered(tx, "Tissues", "id", "Tissue")
	tx = ordered(tx, "CellularLocations", "id", "CellularLocation")
	tx = ordered(tx, "Biofunctions", "id", "Biofunction")
	tx = ordered(tx, "Pathways", "id", "Pathway")
	tx = ordered(tx, "Proteins", "id", "Protein")
	tx = ordered(tx, "References", "id", "Reference")
	tx = ordered(tx, "Diseases", "disease_id, id", "Disease", "Reference")
	return take[Metabolite](tx, "accession = ?", accession)
}

// LoadProtein returns the protein with its metabolites populated.
func (db *Database) LoadProtein(ctx context.Context, uniprotID string) (*Protein, error) {
	return take[Protein](ordered(db.read(ctx), "Metabolites", "id", "Metabolite"), "uniprot_id = ?", uniprotID)
}

// LoadDisease returns the disease with its citing metabolites populated,
// rows for one metabolite contiguous.
func (db *Database) LoadDisease(ctx context.Context, name string) (*Disease, error) {
	return take[Disease](ordered(db.read(ctx), "Metabolites", "metabolite_id, id", "Metabolite", "Reference"), "name = ?", name)
}

// MetaboliteProteinsByAccession resolves the metabolite first. A missing
// metabolite yields nil without error.
func (db *Database) MetaboliteProteinsByAccession(ctx context.Context, accession string) ([]MetaboliteProtein, error) {
	m, err := db.MetaboliteByAccession(ctx, accession)
	if err != nil || m == nil {
		return nil, err
	}
	return db.MetaboliteProteins(ctx, m)
}

func (db *Database) ProteinMetabolitesByUniprotID(ctx context.Context, uniprotID string) ([]MetaboliteProtein, error) {
	p, err := db.ProteinByUniprotID(ctx, uniprotID)
	if err != nil || p == nil {
		return nil, err
	}
	return db.ProteinMetabolites(ctx, p)
}

func (db *Database) MetaboliteDiseasesByAccession(ctx context.Context, accession string) ([]MetaboliteDiseaseReference, error) {
	m, err := db.MetaboliteByAccession(ctx, accession)
	if err != nil || m == nil {
		return nil, err
	}
	return db.MetaboliteDiseases(ctx, m)
}

func (db *Database) DiseaseMetabolitesByName(ctx context.Context, name string) ([]MetaboliteDiseaseReference, error) {
	d, err := db.DiseaseByName(ctx, name)
	if err != nil || d == nil {
		return nil, err
	}
	return db.DiseaseMetabolites(ctx, d)
}
