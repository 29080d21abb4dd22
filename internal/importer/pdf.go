package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/gompdf/pageflow/internal/doctree"
)

// PDFImporter extracts plain text from PDF files. Each blank-line separated
// chunk of a page becomes a paragraph with its line breaks folded into spaces.
type PDFImporter struct{}

func (p *PDFImporter) Import(r io.Reader, name string) (doc *doctree.Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("extract pdf text: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var paras []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text from page %d: %w", i, err)
		}
		for _, para := range paragraphs(text, " ") {
			if para = strings.Join(strings.Fields(para), " "); para != "" {
				paras = append(paras, para)
			}
		}
	}
	return doctree.FromBlocks(textBlocks(paras)), nil
}
