package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/gompdf/pageflow/internal/doctree"
)

// DOCXImporter handles .docx files. Bold run properties carry over; tabs
// become spaces and line breaks become hard breaks.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, name string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []*doctree.Block
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		b := doctree.NewBlock(trimRuns(docxRuns(para))...)
		if !b.IsEmpty() {
			blocks = append(blocks, b)
		}
	}
	return doctree.FromBlocks(blocks), nil
}

func docxRuns(para *docx.Paragraph) []doctree.Run {
	var out []doctree.Run
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		bold := run.RunProperties != nil && run.RunProperties.Bold != nil
		for _, rc := range run.Children {
			switch rc := rc.(type) {
			case *docx.Text:
				out = append(out, doctree.Run{Text: rc.Text, Bold: bold})
			case *docx.Tab:
				out = append(out, doctree.Run{Text: " ", Bold: bold})
			case *docx.BarterRabbet:
				out = append(out, doctree.Run{Text: "\n", Bold: bold})
			}
		}
	}
	return out
}
