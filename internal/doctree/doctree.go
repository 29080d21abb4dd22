// Package doctree holds the paginated document model: a document is an ordered
// list of pages, a page an ordered list of blocks (paragraphs) and a block an
// ordered list of formatted text runs.
//
// Offsets inside blocks are counted in runes. Pagination only ever moves and
// splits blocks, so the concatenated text of a document is invariant under it.
package doctree

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalid is wrapped by Validate for every structural violation.
var ErrInvalid = errors.New("doctree: invalid document")

// Run is a span of characters sharing formatting attributes.
type Run struct {
	Text string `json:"text" yaml:"text"`
	Bold bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
}

// Len returns the run length in runes.
func (r Run) Len() int {
	return utf8.RuneCountInString(r.Text)
}

func (r Run) sameFormat(o Run) bool {
	return r.Bold == o.Bold
}

// Block is a paragraph. It always holds at least one run; an empty paragraph
// holds a single empty run.
type Block struct {
	Runs []Run
}

// NewBlock creates a block from runs, normalizing adjacent runs with the same
// formatting and guaranteeing at least one run.
func NewBlock(runs ...Run) *Block {
	b := &Block{Runs: append([]Run(nil), runs...)}
	b.normalize()
	return b
}

// NewTextBlock creates a block holding plain text.
func NewTextBlock(text string) *Block {
	return NewBlock(Run{Text: text})
}

// Text concatenates the block's runs.
func (b *Block) Text() string {
	if len(b.Runs) == 1 {
		return b.Runs[0].Text
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the block length in runes.
func (b *Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += r.Len()
	}
	return n
}

// IsEmpty reports whether the block holds no characters.
func (b *Block) IsEmpty() bool {
	for _, r := range b.Runs {
		if r.Text != "" {
			return false
		}
	}
	return true
}

// Locate translates a flat rune offset into a run index and an offset inside
// that run. An offset falling on a run boundary resolves to the end of the
// earlier run.
func (b *Block) Locate(offset int) (run, runOffset int, err error) {
	if offset < 0 || offset > b.Len() {
		return 0, 0, fmt.Errorf("%w: offset %d outside block of length %d", ErrPath, offset, b.Len())
	}
	remaining := offset
	for i, r := range b.Runs {
		l := r.Len()
		if remaining <= l {
			return i, remaining, nil
		}
		remaining -= l
	}
	last := len(b.Runs) - 1
	return last, b.Runs[last].Len(), nil
}

// SplitAt cuts the block at the given run coordinate and returns the two
// halves. Formatting of both sides is preserved; the receiver is not modified.
func (b *Block) SplitAt(run, runOffset int) (head, tail *Block, err error) {
	if run < 0 || run >= len(b.Runs) {
		return nil, nil, fmt.Errorf("%w: run %d of %d", ErrPath, run, len(b.Runs))
	}
	r := b.Runs[run]
	if runOffset < 0 || runOffset > r.Len() {
		return nil, nil, fmt.Errorf("%w: offset %d in run of length %d", ErrPath, runOffset, r.Len())
	}
	cut := byteOffset(r.Text, runOffset)

	headRuns := make([]Run, 0, run+1)
	headRuns = append(headRuns, b.Runs[:run]...)
	headRuns = append(headRuns, Run{Text: r.Text[:cut], Bold: r.Bold})

	tailRuns := make([]Run, 0, len(b.Runs)-run)
	tailRuns = append(tailRuns, Run{Text: r.Text[cut:], Bold: r.Bold})
	tailRuns = append(tailRuns, b.Runs[run+1:]...)

	return NewBlock(headRuns...), NewBlock(tailRuns...), nil
}

// Clone deep-copies the block.
func (b *Block) Clone() *Block {
	return &Block{Runs: append([]Run(nil), b.Runs...)}
}

// normalize merges adjacent runs with identical formatting and drops empty
// runs, keeping one run in an otherwise empty block.
func (b *Block) normalize() {
	out := b.Runs[:0]
	for _, r := range b.Runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].sameFormat(r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		bold := false
		if len(b.Runs) > 0 {
			bold = b.Runs[0].Bold
		}
		out = append(out, Run{Bold: bold})
	}
	b.Runs = out
}

// Page is a fungible container of blocks; it has no identity beyond its index.
type Page struct {
	Blocks []*Block
}

// NewPage creates a page holding the given blocks.
func NewPage(blocks ...*Block) *Page {
	return &Page{Blocks: blocks}
}

// Text concatenates the page's blocks without separators.
func (p *Page) Text() string {
	var sb strings.Builder
	for _, b := range p.Blocks {
		sb.WriteString(b.Text())
	}
	return sb.String()
}

// Document is the ordered sequence of pages owned by one editing session.
type Document struct {
	Pages []*Page
}

// New returns the default document: one page holding one empty block.
func New() *Document {
	return &Document{Pages: []*Page{NewPage(NewTextBlock(""))}}
}

// FromText returns a single-page document with one paragraph holding text.
func FromText(text string) *Document {
	return &Document{Pages: []*Page{NewPage(NewTextBlock(text))}}
}

// FromBlocks places every block on a single page. Pagination distributes them.
func FromBlocks(blocks []*Block) *Document {
	if len(blocks) == 0 {
		return New()
	}
	return &Document{Pages: []*Page{NewPage(blocks...)}}
}

// Text concatenates every run of every block of every page, in order.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			sb.WriteString(b.Text())
		}
	}
	return sb.String()
}

// Paragraphs returns the text of every block in document order.
func (d *Document) Paragraphs() []string {
	out := make([]string, 0, d.BlockCount())
	d.Walk(func(_ Path, b *Block) bool {
		out = append(out, b.Text())
		return true
	})
	return out
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// BlockCount returns the number of blocks across all pages.
func (d *Document) BlockCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Blocks)
	}
	return n
}

// Walk visits blocks in document order until fn returns false.
func (d *Document) Walk(fn func(Path, *Block) bool) {
	for pi, p := range d.Pages {
		for bi, b := range p.Blocks {
			if !fn(Path{Page: pi, Block: bi}, b) {
				return
			}
		}
	}
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	c := &Document{Pages: make([]*Page, len(d.Pages))}
	for i, p := range d.Pages {
		np := &Page{Blocks: make([]*Block, len(p.Blocks))}
		for j, b := range p.Blocks {
			np.Blocks[j] = b.Clone()
		}
		c.Pages[i] = np
	}
	return c
}

// Validate checks the structural invariants of the tree.
func (d *Document) Validate() error {
	if d == nil || len(d.Pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrInvalid)
	}
	blocks := 0
	seen := make(map[*Block]Path)
	for pi, p := range d.Pages {
		if p == nil {
			return fmt.Errorf("%w: page %d is nil", ErrInvalid, pi)
		}
		for bi, b := range p.Blocks {
			if b == nil {
				return fmt.Errorf("%w: block %d/%d is nil", ErrInvalid, pi, bi)
			}
			if len(b.Runs) == 0 {
				return fmt.Errorf("%w: block %d/%d has no runs", ErrInvalid, pi, bi)
			}
			if prev, dup := seen[b]; dup {
				return fmt.Errorf("%w: block %d/%d also appears at %d/%d", ErrInvalid, pi, bi, prev.Page, prev.Block)
			}
			seen[b] = Path{Page: pi, Block: bi}
			blocks++
		}
	}
	if blocks == 0 {
		return fmt.Errorf("%w: no blocks", ErrInvalid)
	}
	return nil
}

// byteOffset converts a rune offset into a byte offset within s.
func byteOffset(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == runes {
			return pos
		}
		i++
	}
	return len(s)
}
