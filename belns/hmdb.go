package belns

import (
	"context"
	"errors"
	"io"
)

// Store lists the values HMDB namespaces are built from.
type Store interface {
	Accessions(ctx context.Context) ([]string, error)
	DiseaseNames(ctx context.Context) ([]string, error)
}

const (
	authorName      = "Colin Birkenbihl, Charles Tapley Hoyt"
	authorContact   = "charles.hoyt@scai.fraunhofer.de"
	authorCopyright = "Creative Commons by 4.0"
	citationURL     = "http://www.hmdb.ca"
)

// AccessionHeader describes the namespace of HMDB metabolite accessions.
func AccessionHeader() Header {
	return Header{
		Keyword:         "HMDB",
		Name:            "Human Metabolome Database",
		Domain:          DomainChemical,
		Description:     "Metabolite accessions of the Human Metabolome Database",
		Functions:       FunctionAbundance,
		AuthorName:      authorName,
		AuthorCopyright: authorCopyright,
		AuthorContact:   authorContact,
		CitationName:    "HMDB",
		CitationURL:     citationURL,
	}
}

// DiseaseHeader describes the namespace of HMDB disease names.
func DiseaseHeader() Header {
	return Header{
		Keyword:         "HMDB_D",
		Name:            "Human Metabolome Database Disease Names",
		Domain:          DomainOther,
		Description:     "Disease names cited by the Human Metabolome Database",
		Functions:       FunctionOther,
		AuthorName:      authorName,
		AuthorCopyright: authorCopyright,
		AuthorContact:   authorContact,
		CitationName:    "HMDB_D",
		CitationURL:     citationURL,
	}
}

func WriteAccessions(ctx context.Context, w io.Writer, store Store) error {
	values, err := store.Accessions(ctx)
	if err != nil {
		return errors.Join(errors.New("failed to list accessions"), err)
	}
	return Write(w, AccessionHeader(), values)
}

func WriteDiseases(ctx context.Context, w io.Writer, store Store) error {
	values, err := store.DiseaseNames(ctx)
	if err != nil {
		return errors.Join(errors.New("failed to list diseases"), err)
	}
	return Write(w, DiseaseHeader(), values)
}
