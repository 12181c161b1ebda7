package populate

import (
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/expki/go-hmdb/database"
	"github.com/expki/go-hmdb/source"
)

// keyed is a shared entity waiting to be deduplicated by its natural key.
type keyed[T any] struct {
	key   string
	value T
}

type citedDisease struct {
	disease    database.Disease
	references []keyed[database.Reference]
}

// record is one metabolite decomposed into unsaved rows. Building it touches
// no shared state, so records can be decomposed concurrently.
type record struct {
	index      int
	metabolite database.Metabolite

	secondaryAccessions []string
	synonyms            []string

	biofluids         []string
	tissues           []string
	cellularLocations []string
	biofunctions      []string

	pathways   []keyed[database.Pathway]
	proteins   []keyed[database.Protein]
	references []keyed[database.Reference]
	diseases   []citedDisease

	// tags that were not recognised, with their container path
	unknown []string
	// the monoisotopic weight arrived under its corrected spelling
	correctedTag bool
}

// decomposer turns metabolite elements into records.
type decomposer struct {
	// natural key field per two-layer tag; an empty value derives it from
	// the first field of the first sub-record
	keys map[string]string
}

func newDecomposer(overrides map[string]string) *decomposer {
	keys := make(map[string]string, len(twoLayerKeys))
	for tag, key := range twoLayerKeys {
		keys[tag] = key
	}
	for tag, key := range overrides {
		keys[tag] = key
	}
	return &decomposer{keys: keys}
}

func (d *decomposer) decompose(index int, n *xmlquery.Node) (*record, error) {
	r := &record{index: index}
	if err := d.dispatch(metaboliteTable, "", r, n); err != nil {
		return nil, fmt.Errorf("record %d: %w", index+1, err)
	}
	if r.metabolite.Accession == "" {
		return nil, fmt.Errorf("record %d: %w", index+1, malformed("metabolite without accession"))
	}
	return r, nil
}

// dispatch routes every child element of n through table.
func (d *decomposer) dispatch(table map[string]handler, scope string, r *record, n *xmlquery.Node) error {
	for _, child := range source.Children(n) {
		tag := source.Tag(child)
		h, ok := table[tag]
		if !ok {
			r.unknown = append(r.unknown, scope+tag)
			continue
		}
		if err := h(d, r, child); err != nil {
			return fmt.Errorf("%s%s: %w", scope, tag, err)
		}
	}
	return nil
}

// fields flattens the children of a sub-record into a tag to text map and
// reports the tag of its first child.
func fields(n *xmlquery.Node) (flat map[string]string, first string) {
	children := source.Children(n)
	flat = make(map[string]string, len(children))
	for i, child := range children {
		tag := source.Tag(child)
		if i == 0 {
			first = tag
		}
		if _, ok := flat[tag]; !ok {
			flat[tag] = source.Text(child)
		}
	}
	return flat, first
}
