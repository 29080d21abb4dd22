package layout

import (
	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/text"
)

// Box is anything placed by the layout: pages, paragraphs and lines.
type Box interface {
	GetX() float64
	GetY() float64
	GetWidth() float64
	GetHeight() float64
}

// Rect is an axis-aligned rectangle in document coordinates. Pages are
// stacked vertically, so y grows across page boundaries.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) GetX() float64      { return r.X }
func (r Rect) GetY() float64      { return r.Y }
func (r Rect) GetWidth() float64  { return r.W }
func (r Rect) GetHeight() float64 { return r.H }

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{X: x, Y: y, W: max(r.Right(), o.Right()) - x, H: max(r.Bottom(), o.Bottom()) - y}
}

// Glyph is one placed character. X is absolute; the vertical extent is the
// glyph's line.
type Glyph struct {
	Rune  rune
	X, W  float64
	Style text.Style
	Line  int
}

// LineBox is one line of a paragraph holding the runes [Start, End).
type LineBox struct {
	Rect
	Start, End int
}

// BlockBox is a laid-out paragraph.
type BlockBox struct {
	Rect
	Block  *doctree.Block
	Lines  []LineBox
	Glyphs []Glyph
}

// RangeBox returns the bounding rectangle of the runes [start, end). A
// range spanning several lines covers the full line width. An empty range
// yields a zero-size rectangle at the caret position. A range reaching the
// end of a block that ends in a hard break includes the empty line the break
// opens, so the whole block measures as tall as its layout.
func (b *BlockBox) RangeBox(start, end int) (Rect, bool) {
	if start < 0 || end > len(b.Glyphs) || start > end {
		return Rect{}, false
	}
	if start == end {
		return b.caret(start), true
	}
	first, last := b.Glyphs[start], b.Glyphs[end-1]
	lastLine := last.Line
	if end == len(b.Glyphs) && last.Rune == '\n' {
		lastLine = len(b.Lines) - 1
	}
	fl, ll := b.Lines[first.Line], b.Lines[lastLine]
	if first.Line == lastLine {
		return Rect{X: first.X, Y: fl.Y, W: last.X + last.W - first.X, H: fl.H}, true
	}
	return Rect{X: b.X, Y: fl.Y, W: b.W, H: ll.Bottom() - fl.Y}, true
}

func (b *BlockBox) caret(offset int) Rect {
	if offset < len(b.Glyphs) {
		g := b.Glyphs[offset]
		return Rect{X: g.X, Y: b.Lines[g.Line].Y}
	}
	if len(b.Glyphs) == 0 {
		return Rect{X: b.X, Y: b.Y}
	}
	g := b.Glyphs[len(b.Glyphs)-1]
	l := b.Lines[len(b.Lines)-1]
	if g.Rune == '\n' {
		return Rect{X: b.X, Y: l.Y}
	}
	return Rect{X: g.X + g.W, Y: l.Y}
}

// PageBox is a laid-out page. Rect is the content box: it starts at the top
// of the printable area and is as tall as the laid-out content, which may
// exceed the printable height while the page overflows.
type PageBox struct {
	Rect
	Index  int
	Page   Rect
	Blocks []*BlockBox
}

// ContentBottom returns the lowest y content may reach on this page.
func (p *PageBox) ContentBottom(contentHeight float64) float64 {
	return p.Y + contentHeight
}
