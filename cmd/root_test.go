package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/database"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../populate/testdata/hmdb.xml"

type harness struct {
	dir        string
	connection string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dir := t.TempDir()
	return harness{dir: dir, connection: "sqlite://" + filepath.Join(dir, "hmdb.db")}
}

// run executes one command line against the harness database.
func (h harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--data-dir", h.dir, "--connection", h.connection, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h harness) open(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(config.Database{Connection: h.connection})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)

	for _, name := range []string{"config", "connection", "data-dir", "log-level"} {
		flag := cmd.PersistentFlags().Lookup(name)
		if assert.NotNil(t, flag, "--%s should be registered", name) {
			assert.Equal(t, "string", flag.Value.Type())
		}
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"populate", "drop", "summarize", "namespace", "sample-config"})
}

func TestRootCommand_Independent(t *testing.T) {
	a, b := NewRootCommand(), NewRootCommand()
	require.NoError(t, a.PersistentFlags().Set("connection", "sqlite:///tmp/a.db"))
	assert.Empty(t, b.PersistentFlags().Lookup("connection").Value.String())
}

func TestPopulate_FromSource(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "populate", "--source", fixture, "--skip-mapping", "--batch-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "populated 3 metabolites and 3 diseases (0 mapped)")

	db := h.open(t)
	accessions, err := db.Accessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"HMDB00008", "HMDB00064", "HMDB00072"}, accessions)

	disease, err := db.DiseaseByName(context.Background(), "Lung Cancer")
	require.NoError(t, err)
	require.NotNil(t, disease)
	assert.Nil(t, disease.DiseaseOntology)
}

func TestPopulate_FreshDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "fresh", ".hmdb")
	run := func(args ...string) (string, error) {
		root := NewRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"--data-dir", dataDir, "--log-level", "error"}, args...))
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}

	out, err := run("summarize")
	require.NoError(t, err)
	assert.Contains(t, out, "database is empty")

	_, err = run("populate", "--source", fixture, "--skip-mapping")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, config.DATABASE_FILE_NAME))

	out, err = run("namespace", "accessions")
	require.NoError(t, err)
	assert.Contains(t, out, "HMDB00064|A\n")
}

func TestPopulate_RefusesPopulatedDatabase(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "populate", "--source", fixture, "--skip-mapping")
	require.NoError(t, err)

	_, err = h.run(t, "", "populate", "--source", fixture, "--skip-mapping")
	assert.ErrorIs(t, err, errPopulated)
}

func TestPopulate_MissingSource(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "populate", "--source", filepath.Join(h.dir, "missing.xml"), "--skip-mapping")
	assert.Error(t, err)
}

func TestPopulate_MapsDiseases(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("GET", config.ONTOLOGY_URL_DOID,
		httpmock.NewStringResponder(200, "[Values]\nlung cancer|O\nschizophrenia|O\n"))
	httpmock.RegisterResponder("GET", config.ONTOLOGY_URL_HP,
		httpmock.NewStringResponder(200, "[Values]\nCirrhosis|O\n"))
	httpmock.RegisterResponder("GET", config.ONTOLOGY_URL_MESHD,
		httpmock.NewStringResponder(404, "not found"))

	h := newHarness(t)
	out, err := h.run(t, "", "populate", "--source", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "3 diseases (3 mapped)")

	db := h.open(t)
	ctx := context.Background()
	lung, err := db.DiseaseByName(ctx, "Lung Cancer")
	require.NoError(t, err)
	require.NotNil(t, lung)
	if assert.NotNil(t, lung.DiseaseOntology) {
		assert.Equal(t, "lung cancer", *lung.DiseaseOntology)
	}
	assert.Nil(t, lung.MeshDiseases)

	cirrhosis, err := db.DiseaseByName(ctx, "Cirrhosis")
	require.NoError(t, err)
	require.NotNil(t, cirrhosis)
	if assert.NotNil(t, cirrhosis.HumanPhenotype) {
		assert.Equal(t, "Cirrhosis", *cirrhosis.HumanPhenotype)
	}
}

func TestSummarize(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "summarize")
	require.NoError(t, err)
	assert.Contains(t, out, "database is empty")

	_, err = h.run(t, "", "populate", "--source", fixture, "--skip-mapping")
	require.NoError(t, err)

	out, err = h.run(t, "", "summarize")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`metabolites\s*\S\s*3\s`), out)
	assert.Regexp(t, regexp.MustCompile(`synonyms\s*\S\s*9\s`), out)
	assert.Regexp(t, regexp.MustCompile(`metabolite_tissues\s*\S\s*21\s`), out)
}

func TestDrop(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "populate", "--source", fixture, "--skip-mapping")
	require.NoError(t, err)

	out, err := h.run(t, "n\n", "drop")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	db, err := database.New(config.Database{Connection: h.connection})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&database.Metabolite{}))
	require.NoError(t, db.Close())

	out, err = h.run(t, "", "drop", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "dropped all tables")

	db, err = database.New(config.Database{Connection: h.connection})
	require.NoError(t, err)
	for _, model := range database.Models() {
		assert.False(t, db.Migrator().HasTable(model))
	}
	require.NoError(t, db.Close())

	_, err = h.run(t, "", "populate", "--source", fixture, "--skip-mapping")
	assert.NoError(t, err, "a dropped database can be populated again")
}

func TestNamespace(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "populate", "--source", fixture, "--skip-mapping")
	require.NoError(t, err)

	out, err := h.run(t, "", "namespace", "accessions")
	require.NoError(t, err)
	assert.Contains(t, out, "Keyword=HMDB\n")
	assert.True(t, strings.HasSuffix(out, "[Values]\nHMDB00008|A\nHMDB00064|A\nHMDB00072|A\n"))

	target := filepath.Join(h.dir, "diseases.belns")
	_, err = h.run(t, "", "namespace", "diseases", "--output", target)
	require.NoError(t, err)
	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(raw), "[Values]\nCirrhosis|O\nLung Cancer|O\nSchizophrenia|O\n"))

	_, err = h.run(t, "", "namespace", "proteins")
	assert.Error(t, err)
}

func TestSampleConfig(t *testing.T) {
	h := newHarness(t)
	target := filepath.Join(h.dir, "nested", "config.json")

	out, err := h.run(t, "", "sample-config", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)
	assert.FileExists(t, target)

	_, err = h.run(t, "", "sample-config", target)
	assert.ErrorContains(t, err, "already exists")

	_, err = h.run(t, "", "sample-config", target, "--force")
	assert.NoError(t, err)

	// the sample is a valid config file
	_, err = h.run(t, "", "--config", target, "summarize")
	assert.NoError(t, err)
}
