package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/expki/go-hmdb/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(config.Database{Sqlite: filepath.Join(t.TempDir(), "hmdb.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateAll(context.Background()))
	return db
}

func ptr[T any](v T) *T { return &v }

func TestNew_NoBackend(t *testing.T) {
	_, err := New(config.Database{Postgres: config.SingleOrSlice[string]{}})
	assert.Error(t, err)
}

func TestNew_BadConnection(t *testing.T) {
	_, err := New(config.Database{Connection: "oracle://somewhere"})
	assert.Error(t, err)
}

func TestNew_CreatesSqliteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", ".hmdb", "hmdb.db")
	db, err := New(config.Database{Sqlite: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateAll(context.Background()))
	assert.FileExists(t, path)
}

func TestSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	require.NoError(t, db.CreateAll(ctx), "second create")
	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	require.NoError(t, db.DropAll(ctx))
	require.NoError(t, db.DropAll(ctx), "second drop")
	for _, model := range Models() {
		assert.False(t, db.Migrator().HasTable(model))
	}

	require.NoError(t, db.CreateAll(ctx), "create after drop")
}

func TestTextField_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	description := TextField(strings.Repeat("Citric acid is a weak organic acid. ", 200))

	require.NoError(t, db.Create(&Metabolite{Accession: "HMDB00094", Description: description}).Error)
	require.NoError(t, db.Create(&Metabolite{Accession: "HMDB00095"}).Error)

	m, err := db.MetaboliteByAccession(ctx, "HMDB00094")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, description, m.Description)

	m, err = db.MetaboliteByAccession(ctx, "HMDB00095")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Empty(t, m.Description)
}

func TestTextField_Scan(t *testing.T) {
	var field TextField
	assert.NoError(t, field.Scan(nil))
	assert.Empty(t, field)

	assert.NoError(t, field.Scan(compress([]byte("urine"))))
	assert.Equal(t, TextField("urine"), field)

	assert.Error(t, field.Scan(42))
	err := field.Scan([]byte("not zstd"))
	require.Error(t, err)
	assert.NotNil(t, errors.Unwrap(err), "the decoder error is wrapped")
	assert.Contains(t, err.Error(), "6e6f74207a737464")
}

// seed writes a small graph by hand: two metabolites sharing a protein and a
// disease, the disease cited twice for the first metabolite.
func seed(t *testing.T, db *Database) (citrate, aconitate *Metabolite) {
	t.Helper()
	citrate = &Metabolite{Accession: "HMDB00094", Name: ptr("Citric acid"), AverageMolecularWeight: ptr(192.1235)}
	aconitate = &Metabolite{Accession: "HMDB00072", Name: ptr("cis-Aconitic acid")}
	require.NoError(t, db.Create(citrate).Error)
	require.NoError(t, db.Create(aconitate).Error)

	aco2 := &Protein{ProteinAccession: "HMDBP00725", UniprotID: ptr("Q99798"), GeneName: ptr("ACO2")}
	cs := &Protein{ProteinAccession: "HMDBP00001", UniprotID: ptr("O75390")}
	require.NoError(t, db.Create(aco2).Error)
	require.NoError(t, db.Create(cs).Error)

	cancer := &Disease{Name: "Lung Cancer"}
	ref1 := &Reference{ReferenceText: "First citation", PubmedID: ptr("1111")}
	ref2 := &Reference{ReferenceText: "Second citation"}
	require.NoError(t, db.Create(cancer).Error)
	require.NoError(t, db.Create(ref1).Error)
	require.NoError(t, db.Create(ref2).Error)

	tca := &Pathway{Name: "Citric Acid Cycle", SmpdbID: ptr("SMP00057")}
	require.NoError(t, db.Create(tca).Error)

	require.NoError(t, db.Create(&[]MetaboliteProtein{
		{MetaboliteID: citrate.ID, ProteinID: cs.ID},
		{MetaboliteID: citrate.ID, ProteinID: aco2.ID},
		{MetaboliteID: aconitate.ID, ProteinID: aco2.ID},
	}).Error)
	require.NoError(t, db.Create(&[]MetaboliteDiseaseReference{
		{MetaboliteID: citrate.ID, DiseaseID: cancer.ID, ReferenceID: ref1.ID},
		{MetaboliteID: aconitate.ID, DiseaseID: cancer.ID, ReferenceID: ref2.ID},
		{MetaboliteID: citrate.ID, DiseaseID: cancer.ID, ReferenceID: ref2.ID},
	}).Error)
	require.NoError(t, db.Create(&[]MetabolitePathway{
		{MetaboliteID: citrate.ID, PathwayID: tca.ID},
		{MetaboliteID: aconitate.ID, PathwayID: tca.ID},
		{MetaboliteID: aconitate.ID, PathwayID: tca.ID},
	}).Error)
	require.NoError(t, db.Create(&[]Synonym{
		{MetaboliteID: citrate.ID, Synonym: "Citrate"},
		{MetaboliteID: citrate.ID, Synonym: "Citrate"},
	}).Error)
	return citrate, aconitate
}

func TestLookup_Absent(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	seed(t, db)

	m, err := db.MetaboliteByAccession(ctx, "HMDB99999")
	assert.NoError(t, err)
	assert.Nil(t, m)

	d, err := db.DiseaseByName(ctx, "Scurvy")
	assert.NoError(t, err)
	assert.Nil(t, d)

	p, err := db.ProteinByUniprotID(ctx, "P00000")
	assert.NoError(t, err)
	assert.Nil(t, p)

	pw, err := db.PathwayByName(ctx, "Glycolysis")
	assert.NoError(t, err)
	assert.Nil(t, pw)

	rows, err := db.MetaboliteProteinsByAccession(ctx, "HMDB99999")
	assert.NoError(t, err)
	assert.Nil(t, rows)

	citations, err := db.DiseaseMetabolitesByName(ctx, "Scurvy")
	assert.NoError(t, err)
	assert.Nil(t, citations)
}

func TestLookup_Found(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	seed(t, db)

	m, err := db.MetaboliteByAccession(ctx, "HMDB00094")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "HMDB00094", m.Accession)
	assert.Equal(t, "Citric acid", *m.Name)
	assert.InDelta(t, 192.1235, *m.AverageMolecularWeight, 1e-9)
	assert.Nil(t, m.MonoisotopicMolecularWeight)

	p, err := db.ProteinByAccession(ctx, "HMDBP00725")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Q99798", *p.UniprotID)

	r, err := db.ReferenceByPubmedID(ctx, "1111")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "First citation", r.ReferenceText)
}

func TestTraversal(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	citrate, aconitate := seed(t, db)

	proteins, err := db.MetaboliteProteins(ctx, aconitate)
	require.NoError(t, err)
	require.Len(t, proteins, 1)
	assert.Equal(t, "HMDBP00725", proteins[0].Protein.ProteinAccession)

	byUniprot, err := db.ProteinMetabolitesByUniprotID(ctx, "Q99798")
	require.NoError(t, err)
	require.Len(t, byUniprot, 2)
	assert.Equal(t, "HMDB00094", byUniprot[0].Metabolite.Accession)
	assert.Equal(t, "HMDB00072", byUniprot[1].Metabolite.Accession)

	pathways, err := db.MetabolitePathways(ctx, aconitate)
	require.NoError(t, err)
	assert.Len(t, pathways, 2, "duplicate occurrences keep their rows")

	tca, err := db.PathwayByName(ctx, "Citric Acid Cycle")
	require.NoError(t, err)
	members, err := db.PathwayMetabolites(ctx, tca)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	citations, err := db.MetaboliteDiseases(ctx, citrate)
	require.NoError(t, err)
	require.Len(t, citations, 2)
	for _, c := range citations {
		assert.Equal(t, "Lung Cancer", c.Disease.Name)
	}
	assert.Equal(t, "First citation", citations[0].Reference.ReferenceText)
	assert.Equal(t, "Second citation", citations[1].Reference.ReferenceText)

	byDisease, err := db.DiseaseMetabolitesByName(ctx, "Lung Cancer")
	require.NoError(t, err)
	require.Len(t, byDisease, 3)
	assert.Equal(t, []string{"HMDB00094", "HMDB00094", "HMDB00072"}, []string{
		byDisease[0].Metabolite.Accession,
		byDisease[1].Metabolite.Accession,
		byDisease[2].Metabolite.Accession,
	})

	synonyms, err := db.MetaboliteSynonyms(ctx, citrate)
	require.NoError(t, err)
	assert.Len(t, synonyms, 2)

	empty, err := db.MetaboliteTissues(ctx, citrate)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoad_Associations(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	seed(t, db)

	citrate, err := db.LoadMetabolite(ctx, "HMDB00094")
	require.NoError(t, err)
	require.NotNil(t, citrate)
	require.Len(t, citrate.Proteins, 2)
	assert.Equal(t, "HMDBP00001", citrate.Proteins[0].Protein.ProteinAccession)
	assert.Equal(t, "HMDBP00725", citrate.Proteins[1].Protein.ProteinAccession)
	require.Len(t, citrate.Diseases, 2)
	assert.Equal(t, "Lung Cancer", citrate.Diseases[0].Disease.Name)
	assert.Equal(t, "First citation", citrate.Diseases[0].Reference.ReferenceText)
	require.Len(t, citrate.Pathways, 1)
	assert.Equal(t, "Citric Acid Cycle", citrate.Pathways[0].Pathway.Name)
	assert.Len(t, citrate.Synonyms, 2)
	assert.Empty(t, citrate.Tissues)

	aco2, err := db.LoadProtein(ctx, "Q99798")
	require.NoError(t, err)
	require.NotNil(t, aco2)
	require.Len(t, aco2.Metabolites, 2)
	assert.Equal(t, "HMDB00072", aco2.Metabolites[1].Metabolite.Accession)

	cancer, err := db.LoadDisease(ctx, "Lung Cancer")
	require.NoError(t, err)
	require.NotNil(t, cancer)
	require.Len(t, cancer.Metabolites, 3)
	assert.Equal(t, "HMDB00094", cancer.Metabolites[0].Metabolite.Accession)
	assert.Equal(t, "HMDB00094", cancer.Metabolites[1].Metabolite.Accession)
	assert.Equal(t, "HMDB00072", cancer.Metabolites[2].Metabolite.Accession)

	missing, err := db.LoadMetabolite(ctx, "HMDB99999")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListings_Stable(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	seed(t, db)

	first, err := db.Accessions(ctx)
	require.NoError(t, err)
	second, err := db.Accessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HMDB00094", "HMDB00072"}, first)
	assert.Equal(t, first, second)

	names, err := db.DiseaseNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lung Cancer"}, names)
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	seed(t, db)

	counts, err := db.Summarize(ctx)
	require.NoError(t, err)
	require.Len(t, counts, len(Models()))

	byTable := make(map[string]int64, len(counts))
	for _, c := range counts {
		byTable[c.Table] = c.Count
	}
	assert.Equal(t, "metabolites", counts[0].Table)
	assert.EqualValues(t, 2, byTable["metabolites"])
	assert.EqualValues(t, 2, byTable["proteins"])
	assert.EqualValues(t, 3, byTable["metabolite_proteins"])
	assert.EqualValues(t, 3, byTable["metabolite_disease_references"])
	assert.EqualValues(t, 0, byTable["tissues"])
}
