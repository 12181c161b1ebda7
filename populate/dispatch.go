package populate

import (
	"github.com/antchfx/xmlquery"
	"github.com/expki/go-hmdb/database"
	"github.com/expki/go-hmdb/source"
)

// handler consumes one child element of a metabolite record.
type handler func(d *decomposer, r *record, n *xmlquery.Node) error

// metaboliteTable is the closed set of tags a metabolite record may carry.
// Tags missing from it are reported and skipped.
var metaboliteTable = map[string]handler{
	correctedMonoisotopicTag: correctedWeight,

	"secondary_accessions": leaves(func(r *record) *[]string { return &r.secondaryAccessions }),
	"synonyms":             leaves(func(r *record) *[]string { return &r.synonyms }),

	"biofluid_locations": values(func(r *record) *[]string { return &r.biofluids }),
	"tissue_locations":   values(func(r *record) *[]string { return &r.tissues }),
	"cellular_locations": values(func(r *record) *[]string { return &r.cellularLocations }),
	"biofunctions":       values(func(r *record) *[]string { return &r.biofunctions }),

	"pathways":             twoLayer("pathways", newPathway, pathwayKey, func(r *record) *[]keyed[database.Pathway] { return &r.pathways }),
	"general_references":   twoLayer("general_references", newReference, referenceKey, func(r *record) *[]keyed[database.Reference] { return &r.references }),
	"protein_associations": twoLayer("protein_associations", newProtein, proteinKey, func(r *record) *[]keyed[database.Protein] { return &r.proteins }),

	"diseases": diseases,

	"ontology":              container(ontologyTable, "ontology/"),
	"biological_properties": container(biologicalPropertiesTable, "biological_properties/"),

	"taxonomy":                ignore,
	"experimental_properties": ignore,
	"predicted_properties":    ignore,
	"spectra":                 ignore,
	"normal_concentrations":   ignore,
	"abnormal_concentrations": ignore,
}

// ontologyTable covers the ontology element, which nests the vocabulary
// terms next to classification data that is not stored.
var ontologyTable = map[string]handler{
	"cellular_locations": values(func(r *record) *[]string { return &r.cellularLocations }),
	"biofunctions":       values(func(r *record) *[]string { return &r.biofunctions }),

	"status":       ignore,
	"origins":      ignore,
	"applications": ignore,
}

// biologicalPropertiesTable covers newer exports, which group locations and
// pathways under one element and call biofluids biospecimens.
var biologicalPropertiesTable = map[string]handler{
	"biospecimen_locations": values(func(r *record) *[]string { return &r.biofluids }),
	"tissue_locations":      values(func(r *record) *[]string { return &r.tissues }),
	"cellular_locations":    values(func(r *record) *[]string { return &r.cellularLocations }),
	"pathways":              twoLayer("pathways", newPathway, pathwayKey, func(r *record) *[]keyed[database.Pathway] { return &r.pathways }),
}

// twoLayerKeys names the field every sub-record of a two-layer tag must
// carry. Rows are deduplicated on the entity's unique column regardless.
var twoLayerKeys = map[string]string{
	"pathways":             "name",
	"general_references":   "reference_text",
	"protein_associations": "protein_accession",
}

func init() {
	for tag, set := range metaboliteFields {
		metaboliteTable[tag] = scalar(set)
	}
}

func scalar(set scalarField) handler {
	return func(_ *decomposer, r *record, n *xmlquery.Node) error {
		return set(&r.metabolite, source.Text(n))
	}
}

func correctedWeight(_ *decomposer, r *record, n *xmlquery.Node) error {
	r.correctedTag = true
	return monoisotopicWeight(&r.metabolite, source.Text(n))
}

func ignore(*decomposer, *record, *xmlquery.Node) error {
	return nil
}

// leaves collects the text of every sub-element, empty ones included. Each
// becomes a row of its own.
func leaves(field func(r *record) *[]string) handler {
	return func(_ *decomposer, r *record, n *xmlquery.Node) error {
		list := field(r)
		for _, child := range source.Children(n) {
			*list = append(*list, source.Text(child))
		}
		return nil
	}
}

// values collects the names of shared entities. Empty elements name nothing.
func values(field func(r *record) *[]string) handler {
	return func(_ *decomposer, r *record, n *xmlquery.Node) error {
		list := field(r)
		for _, child := range source.Children(n) {
			if value := source.Text(child); value != "" {
				*list = append(*list, value)
			}
		}
		return nil
	}
}

// twoLayer flattens each sub-record and builds a shared entity from it. The
// sub-record's key field must be present; sub-records without children are
// skipped. Entities are keyed by the column their unique index covers.
func twoLayer[T any](tag string, build func(fields map[string]string) (T, error), unique func(T) string, field func(r *record) *[]keyed[T]) handler {
	return func(d *decomposer, r *record, n *xmlquery.Node) error {
		key := d.keys[tag]
		list := field(r)
		for _, child := range source.Children(n) {
			flat, first := fields(child)
			if len(flat) == 0 {
				continue
			}
			if key == "" {
				key = first
			}
			if flat[key] == "" {
				return malformed("%s without %s", source.Tag(child), key)
			}
			entity, err := build(flat)
			if err != nil {
				return err
			}
			*list = append(*list, keyed[T]{key: unique(entity), value: entity})
		}
		return nil
	}
}

func container(table map[string]handler, scope string) handler {
	return func(d *decomposer, r *record, n *xmlquery.Node) error {
		return d.dispatch(table, scope, r, n)
	}
}

// diseases reads disease elements, each carrying its own citations.
func diseases(_ *decomposer, r *record, n *xmlquery.Node) error {
	for _, child := range source.Children(n) {
		children := source.Children(child)
		if len(children) == 0 {
			continue
		}
		var cited citedDisease
		for _, field := range children {
			switch tag := source.Tag(field); tag {
			case "name":
				cited.disease.Name = source.Text(field)
			case "omim_id":
				cited.disease.OmimID = nonEmpty(source.Text(field))
			case "references":
				for _, reference := range source.Children(field) {
					flat, _ := fields(reference)
					if len(flat) == 0 {
						continue
					}
					entity, err := newReference(flat)
					if err != nil {
						return err
					}
					cited.references = append(cited.references, keyed[database.Reference]{key: referenceKey(entity), value: entity})
				}
			default:
				r.unknown = append(r.unknown, "diseases/disease/"+tag)
			}
		}
		if cited.disease.Name == "" {
			return malformed("disease without name")
		}
		r.diseases = append(r.diseases, cited)
	}
	return nil
}

func newPathway(fields map[string]string) (database.Pathway, error) {
	if fields["name"] == "" {
		return database.Pathway{}, malformed("pathway without name")
	}
	return database.Pathway{
		Name:      fields["name"],
		SmpdbID:   optional(fields, "smpdb_id"),
		KeggMapID: optional(fields, "kegg_map_id"),
	}, nil
}

func newProtein(fields map[string]string) (database.Protein, error) {
	if fields["protein_accession"] == "" {
		return database.Protein{}, malformed("protein without protein_accession")
	}
	return database.Protein{
		ProteinAccession: fields["protein_accession"],
		Name:             optional(fields, "name"),
		UniprotID:        optional(fields, "uniprot_id"),
		GeneName:         optional(fields, "gene_name"),
		ProteinType:      optional(fields, "protein_type"),
	}, nil
}

func newReference(fields map[string]string) (database.Reference, error) {
	if fields["reference_text"] == "" {
		return database.Reference{}, malformed("reference without reference_text")
	}
	return database.Reference{
		ReferenceText: fields["reference_text"],
		PubmedID:      optional(fields, "pubmed_id"),
	}, nil
}

func pathwayKey(p database.Pathway) string {
	return p.Name
}

func proteinKey(p database.Protein) string {
	return p.ProteinAccession
}

func referenceKey(r database.Reference) string {
	return r.ReferenceText
}
