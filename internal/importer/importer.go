// Package importer turns source files into documents. Every format yields a
// single page of paragraphs; pagination distributes them afterwards.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/res"
)

// ErrUnsupported is returned for file types no importer handles.
var ErrUnsupported = errors.New("importer: unsupported format")

// Importer converts raw document bytes into a document.
type Importer interface {
	Import(r io.Reader, name string) (*doctree.Document, error)
}

var importers = map[string]func() Importer{
	".json":     func() Importer { return &TreeImporter{Strict: true} },
	".yaml":     func() Importer { return &YAMLImporter{} },
	".yml":      func() Importer { return &YAMLImporter{} },
	".txt":      func() Importer { return &TextImporter{} },
	".md":       func() Importer { return &MarkdownImporter{} },
	".markdown": func() Importer { return &MarkdownImporter{} },
	".html":     func() Importer { return &HTMLImporter{} },
	".htm":      func() Importer { return &HTMLImporter{} },
	".pdf":      func() Importer { return &PDFImporter{} },
	".docx":     func() Importer { return &DOCXImporter{} },
}

// ForFile returns the importer for a file name's extension. Imported text is
// normalized to NFC so a rune offset addresses one visible character where
// a precomposed form exists.
func ForFile(name string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mk, ok := importers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return normalized{mk()}, nil
}

type normalized struct {
	Importer
}

func (n normalized) Import(r io.Reader, name string) (*doctree.Document, error) {
	doc, err := n.Importer.Import(r, name)
	if err != nil {
		return nil, err
	}
	doc.Walk(func(_ doctree.Path, b *doctree.Block) bool {
		for i := range b.Runs {
			b.Runs[i].Text = norm.NFC.String(b.Runs[i].Text)
		}
		return true
	})
	return doc, nil
}

// IsSupported reports whether ForFile accepts name.
func IsSupported(name string) bool {
	_, ok := importers[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extensions lists the supported extensions in order.
func Extensions() []string {
	out := make([]string, 0, len(importers))
	for ext := range importers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Import converts a loaded resource, picking the importer from its name or
// MIME type.
func Import(r *res.Resource) (*doctree.Document, error) {
	imp, err := ForFile("source" + r.Ext())
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", r.URL, err)
	}
	doc, err := imp.Import(bytes.NewReader(r.Data), r.Name)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", r.URL, err)
	}
	return doc, nil
}

// paragraphs splits text at blank lines. Lines inside a paragraph are joined
// with sep.
func paragraphs(text, sep string) []string {
	var (
		out     []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, sep))
			current = nil
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t\r"))
	}
	flush()
	return out
}

func textBlocks(paras []string) []*doctree.Block {
	blocks := make([]*doctree.Block, len(paras))
	for i, p := range paras {
		blocks[i] = doctree.NewTextBlock(p)
	}
	return blocks
}
