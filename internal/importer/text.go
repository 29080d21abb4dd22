package importer

import (
	"io"

	"github.com/gompdf/pageflow/internal/doctree"
)

// TextImporter handles plain text: blank lines separate paragraphs and the
// remaining line breaks are kept as hard breaks.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, name string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return doctree.FromBlocks(textBlocks(paragraphs(string(data), "\n"))), nil
}
