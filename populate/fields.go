package populate

import (
	"strconv"

	"github.com/expki/go-hmdb/database"
)

// scalarField assigns element text to one Metabolite attribute.
type scalarField func(m *database.Metabolite, value string) error

func text(field func(m *database.Metabolite) **string) scalarField {
	return func(m *database.Metabolite, value string) error {
		if value != "" {
			*field(m) = &value
		}
		return nil
	}
}

func number(field func(m *database.Metabolite) **float64) scalarField {
	return func(m *database.Metabolite, value string) error {
		if value == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return malformed("%q is not a number", value)
		}
		*field(m) = &parsed
		return nil
	}
}

var monoisotopicWeight = number(func(m *database.Metabolite) **float64 { return &m.MonoisotopicMolecularWeight })

// metaboliteFields is the allowlist of scalar tags and the attribute each one sets.
var metaboliteFields = map[string]scalarField{
	"accession": func(m *database.Metabolite, value string) error {
		m.Accession = value
		return nil
	},
	"description": func(m *database.Metabolite, value string) error {
		m.Description = database.TextField(value)
		return nil
	},
	"version":                     text(func(m *database.Metabolite) **string { return &m.Version }),
	"creation_date":               text(func(m *database.Metabolite) **string { return &m.CreationDate }),
	"update_date":                 text(func(m *database.Metabolite) **string { return &m.UpdateDate }),
	"status":                      text(func(m *database.Metabolite) **string { return &m.Status }),
	"name":                        text(func(m *database.Metabolite) **string { return &m.Name }),
	"chemical_formula":            text(func(m *database.Metabolite) **string { return &m.ChemicalFormula }),
	"average_molecular_weight":    number(func(m *database.Metabolite) **float64 { return &m.AverageMolecularWeight }),
	legacyMonoisotopicTag:         monoisotopicWeight,
	"iupac_name":                  text(func(m *database.Metabolite) **string { return &m.IupacName }),
	"traditional_iupac":           text(func(m *database.Metabolite) **string { return &m.TraditionalIupac }),
	"cas_registry_number":         text(func(m *database.Metabolite) **string { return &m.CasRegistryNumber }),
	"smiles":                      text(func(m *database.Metabolite) **string { return &m.Smiles }),
	"inchi":                       text(func(m *database.Metabolite) **string { return &m.Inchi }),
	"inchikey":                    text(func(m *database.Metabolite) **string { return &m.Inchikey }),
	"state":                       text(func(m *database.Metabolite) **string { return &m.State }),
	"synthesis_reference":         text(func(m *database.Metabolite) **string { return &m.SynthesisReference }),
	"chemspider_id":               text(func(m *database.Metabolite) **string { return &m.ChemspiderID }),
	"drugbank_id":                 text(func(m *database.Metabolite) **string { return &m.DrugbankID }),
	"foodb_id":                    text(func(m *database.Metabolite) **string { return &m.FoodbID }),
	"pubchem_compound_id":         text(func(m *database.Metabolite) **string { return &m.PubchemCompoundID }),
	"pdb_id":                      text(func(m *database.Metabolite) **string { return &m.PdbID }),
	"chebi_id":                    text(func(m *database.Metabolite) **string { return &m.ChebiID }),
	"phenol_explorer_compound_id": text(func(m *database.Metabolite) **string { return &m.PhenolExplorerCompoundID }),
	"knapsack_id":                 text(func(m *database.Metabolite) **string { return &m.KnapsackID }),
	"kegg_id":                     text(func(m *database.Metabolite) **string { return &m.KeggID }),
	"biocyc_id":                   text(func(m *database.Metabolite) **string { return &m.BiocycID }),
	"bigg_id":                     text(func(m *database.Metabolite) **string { return &m.BiggID }),
	"wikipedia_id":                text(func(m *database.Metabolite) **string { return &m.WikipediaID }),
	"nugowiki":                    text(func(m *database.Metabolite) **string { return &m.Nugowiki }),
	"metagene":                    text(func(m *database.Metabolite) **string { return &m.Metagene }),
	"metlin_id":                   text(func(m *database.Metabolite) **string { return &m.MetlinID }),
	"het_id":                      text(func(m *database.Metabolite) **string { return &m.HetID }),
	"vmh_id":                      text(func(m *database.Metabolite) **string { return &m.VmhID }),
	"fbonto_id":                   text(func(m *database.Metabolite) **string { return &m.FbontoID }),
}

// HMDB exports spell the monoisotopic weight tag without the second "o".
const (
	legacyMonoisotopicTag    = "monisotopic_molecular_weight"
	correctedMonoisotopicTag = "monoisotopic_molecular_weight"
)

func optional(fields map[string]string, key string) *string {
	return nonEmpty(fields[key])
}

func nonEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
