package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node types of the serialized block tree.
const (
	TypePage      = "page"
	TypeParagraph = "paragraph"
)

type wirePage struct {
	Type     string      `json:"type" yaml:"type"`
	Children []wireBlock `json:"children" yaml:"children"`
}

type wireBlock struct {
	Type     string `json:"type" yaml:"type"`
	Children []Run  `json:"children" yaml:"children"`
}

func (d *Document) toWire() []wirePage {
	out := make([]wirePage, len(d.Pages))
	for i, p := range d.Pages {
		wp := wirePage{Type: TypePage, Children: make([]wireBlock, len(p.Blocks))}
		for j, b := range p.Blocks {
			wp.Children[j] = wireBlock{Type: TypeParagraph, Children: append([]Run(nil), b.Runs...)}
		}
		out[i] = wp
	}
	return out
}

func fromWire(pages []wirePage) (*Document, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrInvalid)
	}
	d := &Document{Pages: make([]*Page, 0, len(pages))}
	for i, wp := range pages {
		if wp.Type != TypePage {
			return nil, fmt.Errorf("%w: node %d has type %q, want %q", ErrInvalid, i, wp.Type, TypePage)
		}
		p := &Page{}
		for j, wb := range wp.Children {
			if wb.Type != TypeParagraph {
				return nil, fmt.Errorf("%w: node %d/%d has type %q, want %q", ErrInvalid, i, j, wb.Type, TypeParagraph)
			}
			p.Blocks = append(p.Blocks, NewBlock(wb.Children...))
		}
		if len(p.Blocks) == 0 {
			p.Blocks = []*Block{NewTextBlock("")}
		}
		d.Pages = append(d.Pages, p)
	}
	return d, nil
}

// MarshalJSON encodes the document as the page/paragraph/text tree.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toWire())
}

// UnmarshalJSON decodes the page/paragraph/text tree strictly.
func (d *Document) UnmarshalJSON(data []byte) error {
	var pages []wirePage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&pages); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	nd, err := fromWire(pages)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}

// Encode serializes the document to its JSON storage form.
func Encode(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// DecodeStrict parses the JSON storage form and reports malformed input.
func DecodeStrict(data []byte) (*Document, error) {
	d := &Document{}
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Decode parses stored content the way an editor loads it: empty content
// yields the default document and anything that is not a valid tree becomes
// a single page holding the raw string as one paragraph.
func Decode(content string) *Document {
	if content == "" {
		return New()
	}
	d, err := DecodeStrict([]byte(content))
	if err != nil {
		return FromText(content)
	}
	return d
}

// EncodeYAML serializes the tree with the same node layout as the JSON form.
func EncodeYAML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.toWire()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses a tree written by EncodeYAML.
func DecodeYAML(data []byte) (*Document, error) {
	var pages []wirePage
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return fromWire(pages)
}
