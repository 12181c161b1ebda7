package source

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Parse reads the whole XML document at path into memory.
func Parse(path string) (*xmlquery.Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(errors.New("failed to open source"), err)
	}
	defer file.Close()
	doc, err := xmlquery.Parse(bufio.NewReaderSize(file, 1<<20))
	if err != nil {
		return nil, errors.Join(errors.New("failed to parse source"), err)
	}
	return doc, nil
}

// Records returns the children of the document's root element, one per
// metabolite, in document order.
func Records(doc *xmlquery.Node) []*xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return Children(n)
		}
	}
	return nil
}

// Children returns the element children of n, skipping text and comments.
func Children(n *xmlquery.Node) []*xmlquery.Node {
	var children []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

// LocalName strips a namespace from a tag, either the {uri} form or a prefix.
func LocalName(tag string) string {
	if i := strings.LastIndexByte(tag, '}'); i >= 0 {
		tag = tag[i+1:]
	}
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	return tag
}

// Tag is the local name of an element.
func Tag(n *xmlquery.Node) string {
	return LocalName(n.Data)
}

// Text is the trimmed text content of an element.
func Text(n *xmlquery.Node) string {
	return strings.TrimSpace(n.InnerText())
}
