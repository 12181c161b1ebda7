package ontology

import (
	"strings"

	"github.com/expki/go-hmdb/logger"
)

// Ontology names an external disease vocabulary.
type Ontology string

const (
	DiseaseOntology        Ontology = "doid"
	HumanPhenotypeOntology Ontology = "hp"
	MeSHDiseases           Ontology = "meshd"
)

// Priority is the order vocabularies are consulted in when a name may only
// be claimed once.
var Priority = []Ontology{DiseaseOntology, HumanPhenotypeOntology, MeSHDiseases}

// Lookup maps a lowercased term to its canonical spelling.
type Lookup map[string]string

// NewLookup indexes terms case-insensitively. The first spelling of a term wins.
func NewLookup(terms []string) Lookup {
	lookup := make(Lookup, len(terms))
	for _, term := range terms {
		key := strings.ToLower(term)
		if _, ok := lookup[key]; !ok {
			lookup[key] = term
		}
	}
	return lookup
}

// Match returns the canonical spelling of name, ignoring case.
func (l Lookup) Match(name string) (string, bool) {
	canonical, ok := l[strings.ToLower(name)]
	return canonical, ok
}

// Lookups holds one lookup per vocabulary that could be loaded.
type Lookups map[Ontology]Lookup

// CrossReferences are the canonical terms a disease name resolved to.
// Vocabularies without a match stay nil.
type CrossReferences struct {
	DiseaseOntology        *string
	HumanPhenotypeOntology *string
	MeSHDiseases           *string
}

func (c CrossReferences) Empty() bool {
	return c.DiseaseOntology == nil && c.HumanPhenotypeOntology == nil && c.MeSHDiseases == nil
}

// Map checks name against every vocabulary independently.
func (ls Lookups) Map(name string) (refs CrossReferences) {
	for _, o := range Priority {
		lookup, ok := ls[o]
		if !ok {
			continue
		}
		canonical, ok := lookup.Match(name)
		if !ok {
			continue
		}
		switch o {
		case DiseaseOntology:
			refs.DiseaseOntology = &canonical
		case HumanPhenotypeOntology:
			refs.HumanPhenotypeOntology = &canonical
		case MeSHDiseases:
			refs.MeSHDiseases = &canonical
		}
	}
	if refs.Empty() && len(ls) > 0 {
		logger.Sugar().Warnf("disease %q not found in any ontology", name)
	}
	return refs
}

// Partition splits names into those lookup knows, keyed by name with the
// canonical spelling as value, and the rest in their original order.
func Partition(names []string, lookup Lookup) (matched map[string]string, unmatched []string) {
	matched = make(map[string]string)
	unmatched = make([]string, 0, len(names))
	for _, name := range names {
		if canonical, ok := lookup.Match(name); ok {
			matched[name] = canonical
		} else {
			unmatched = append(unmatched, name)
		}
	}
	return matched, unmatched
}

// Report is the outcome of claiming names vocabulary by vocabulary.
type Report struct {
	Matched   map[Ontology]map[string]string
	Unmatched []string
}

// PartitionAll offers names to each vocabulary in priority order. A name
// claimed by one vocabulary is not offered to the next.
func (ls Lookups) PartitionAll(names []string) Report {
	report := Report{
		Matched:   make(map[Ontology]map[string]string, len(Priority)),
		Unmatched: names,
	}
	for _, o := range Priority {
		lookup, ok := ls[o]
		if !ok {
			continue
		}
		report.Matched[o], report.Unmatched = Partition(report.Unmatched, lookup)
	}
	if report.Unmatched == nil {
		report.Unmatched = []string{}
	}
	return report
}
