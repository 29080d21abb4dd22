package importer

import (
	"io"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/parser/html"
)

// HTMLImporter handles HTML files.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, name string) (*doctree.Document, error) {
	doc, err := html.NewParser().Parse(r)
	if err != nil {
		return nil, err
	}
	return doc.Tree(), nil
}
