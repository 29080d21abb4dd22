package importer

import (
	"io"

	"github.com/gompdf/pageflow/internal/doctree"
)

// TreeImporter reads the JSON block tree. Unless Strict is set, content that
// is not a tree is loaded as one plain-text paragraph.
type TreeImporter struct {
	Strict bool
}

func (p *TreeImporter) Import(r io.Reader, name string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !p.Strict {
		return doctree.Decode(string(data)), nil
	}
	return doctree.DecodeStrict(data)
}

// YAMLImporter reads the block tree written as YAML.
type YAMLImporter struct{}

func (p *YAMLImporter) Import(r io.Reader, name string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return doctree.DecodeYAML(data)
}
