package ontology

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrEmptyResource is returned for a namespace resource without any values.
var ErrEmptyResource = errors.New("namespace resource has no values")

// ParseNamespace reads the terms of a BEL namespace document. Terms are
// listed one per line in the [Values] section as term|encoding.
func ParseNamespace(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var terms []string
	inValues := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inValues = strings.EqualFold(line, "[Values]")
			continue
		}
		if !inValues {
			continue
		}
		term := line
		if i := strings.LastIndexByte(line, '|'); i >= 0 {
			term = strings.TrimSpace(line[:i])
		}
		if term != "" {
			terms = append(terms, term)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(errors.New("failed to read namespace resource"), err)
	}
	if len(terms) == 0 {
		return nil, ErrEmptyResource
	}
	return terms, nil
}
