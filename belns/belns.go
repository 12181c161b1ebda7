package belns

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

const (
	DomainChemical = "Chemical"
	DomainOther    = "Other"

	FunctionAbundance = "A"
	FunctionOther     = "O"

	delimiter = "|"
)

// Header describes a BEL namespace document.
type Header struct {
	Keyword     string
	Name        string
	Domain      string
	Description string
	Functions   string
	Version     string
	Created     time.Time

	AuthorName      string
	AuthorCopyright string
	AuthorContact   string

	CitationName string
	CitationURL  string
}

// Write renders a namespace document. Values are trimmed and written sorted
// without duplicates, each tagged with the header's encoding functions. A
// value holding the delimiter is rejected.
func Write(w io.Writer, h Header, values []string) error {
	if h.Keyword == "" {
		return fmt.Errorf("namespace keyword is required")
	}
	if h.Created.IsZero() {
		h.Created = time.Now()
	}
	if h.Version == "" {
		h.Version = h.Created.Format("20060102")
	}

	terms, err := normalize(values)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	section(out, "Namespace",
		"Keyword", h.Keyword,
		"NameString", h.Name,
		"DomainString", h.Domain,
		"DescriptionString", h.Description,
		"VersionString", h.Version,
		"CreatedDateTime", h.Created.Format(time.RFC3339),
		"TypeClass", "File",
	)
	section(out, "Author",
		"NameString", h.AuthorName,
		"CopyrightString", h.AuthorCopyright,
		"ContactInfoString", h.AuthorContact,
	)
	section(out, "Citation",
		"NameString", h.CitationName,
		"ReferenceURL", h.CitationURL,
	)
	section(out, "Processing",
		"CaseSensitiveFlag", "yes",
		"DelimiterString", delimiter,
		"CacheableFlag", "yes",
	)

	fmt.Fprintln(out, "[Values]")
	for _, value := range terms {
		fmt.Fprintf(out, "%s%s%s\n", value, delimiter, h.Functions)
	}
	return out.Flush()
}

// normalize trims, sorts and dedups values. No value may hold the delimiter.
func normalize(values []string) ([]string, error) {
	terms := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.Contains(value, delimiter) {
			return nil, fmt.Errorf("namespace value %q contains the delimiter %q", value, delimiter)
		}
		terms = append(terms, value)
	}
	slices.Sort(terms)
	return slices.Compact(terms), nil
}

// section writes key=value pairs, leaving out empty values.
func section(w io.Writer, name string, pairs ...string) {
	fmt.Fprintf(w, "[%s]\n", name)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			fmt.Fprintf(w, "%s=%s\n", pairs[i], pairs[i+1])
		}
	}
	fmt.Fprintln(w)
}
