package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalName(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"accession", "accession"},
		{"{http://www.hmdb.ca}accession", "accession"},
		{"hmdb:accession", "accession"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalName(tt.tag))
		})
	}
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<hmdb xmlns="http://www.hmdb.ca">
  <!-- first -->
  <metabolite>
    <accession> HMDB00001 </accession>
    <synonyms><synonym>a</synonym><synonym>b</synonym></synonyms>
  </metabolite>
  <metabolite>
    <accession>HMDB00002</accession>
  </metabolite>
</hmdb>`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	root, err := Parse(path)
	require.NoError(t, err)

	records := Records(root)
	require.Len(t, records, 2)
	assert.Equal(t, "metabolite", Tag(records[0]))

	fields := Children(records[0])
	require.Len(t, fields, 2)
	assert.Equal(t, "accession", Tag(fields[0]))
	assert.Equal(t, "HMDB00001", Text(fields[0]))
	assert.Len(t, Children(fields[1]), 2)
	assert.Equal(t, "HMDB00002", Text(Children(records[1])[0]))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<hmdb><metabolite></hmdb>"), 0o644))
	_, err = Parse(path)
	assert.Error(t, err)
}
