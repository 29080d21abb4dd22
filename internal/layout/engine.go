package layout

import (
	"sync"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/text"
)

// overflowEpsilon absorbs float noise when comparing against a line width.
const overflowEpsilon = 1e-9

type advanceKey struct {
	r  rune
	st text.Style
}

// Engine lays out paragraphs greedily: words wrap at whitespace, trailing
// spaces hang past the right edge, '\n' forces a break and a word wider than
// the line is broken between characters.
type Engine struct {
	options Options
	metrics text.Metrics

	mu       sync.Mutex
	advances map[advanceKey]float64
}

// NewEngine creates a layout engine. A nil metrics uses Helvetica.
func NewEngine(options Options, metrics text.Metrics) *Engine {
	if metrics == nil {
		metrics = text.NewCoreMetrics("Helvetica")
	}
	return &Engine{
		options:  options,
		metrics:  metrics,
		advances: make(map[advanceKey]float64),
	}
}

// Options returns the engine's geometry.
func (e *Engine) Options() Options {
	return e.options
}

// Layout lays out every page of doc.
func (e *Engine) Layout(doc *doctree.Document) []*PageBox {
	pages := make([]*PageBox, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = e.LayoutPage(p, i)
	}
	return pages
}

// LayoutPage stacks the page's paragraphs from the top of its printable area.
func (e *Engine) LayoutPage(p *doctree.Page, index int) *PageBox {
	o := e.options
	pageTop := o.PageTop(index)
	top := pageTop + o.Margin
	pb := &PageBox{
		Index:  index,
		Page:   Rect{X: 0, Y: pageTop, W: o.PageWidth, H: o.PageHeight},
		Blocks: make([]*BlockBox, 0, len(p.Blocks)),
	}
	y := top
	for i, b := range p.Blocks {
		if i > 0 {
			y += o.ParagraphSpacing
		}
		bb := e.LayoutBlock(b, o.Margin, y, o.ContentWidth())
		pb.Blocks = append(pb.Blocks, bb)
		y = bb.Bottom()
	}
	pb.Rect = Rect{X: o.Margin, Y: top, W: o.ContentWidth(), H: y - top}
	return pb
}

// LayoutBlock lays out one paragraph with its top-left corner at (x, y).
func (e *Engine) LayoutBlock(b *doctree.Block, x, y, width float64) *BlockBox {
	glyphs, lines := e.flow(b, x, y, width)
	bb := &BlockBox{
		Block:  b,
		Lines:  lines,
		Glyphs: glyphs,
	}
	bb.Rect = Rect{X: x, Y: y, W: width, H: float64(len(lines)) * e.options.LinePitch()}
	return bb
}

// TextHeight returns the height of plain text laid out at width. Empty text
// still occupies one line.
func (e *Engine) TextHeight(s string, width float64) float64 {
	_, lines := e.flow(doctree.NewTextBlock(s), 0, 0, width)
	return float64(len(lines)) * e.options.LinePitch()
}

func (e *Engine) flow(b *doctree.Block, x0, y0, width float64) ([]Glyph, []LineBox) {
	pitch := e.options.LinePitch()

	glyphs := make([]Glyph, 0, b.Len())
	for _, r := range b.Runs {
		st := text.Style{Bold: r.Bold, Size: e.options.FontSize}
		for _, ch := range r.Text {
			glyphs = append(glyphs, Glyph{Rune: ch, W: e.advance(ch, st), Style: st})
		}
	}

	lines := []LineBox{{Rect: Rect{X: x0, Y: y0, W: width, H: pitch}}}
	x := 0.0
	breakAt := func(start int) {
		lines[len(lines)-1].End = start
		lines = append(lines, LineBox{
			Rect:  Rect{X: x0, Y: y0 + float64(len(lines))*pitch, W: width, H: pitch},
			Start: start,
		})
		x = 0
	}
	place := func(i int) {
		glyphs[i].X = x0 + x
		glyphs[i].Line = len(lines) - 1
		x += glyphs[i].W
	}

	for _, tok := range text.Tokens(b.Text()) {
		switch tok.Kind {
		case text.Newline:
			glyphs[tok.Start].W = 0
			place(tok.Start)
			breakAt(tok.End)
		case text.Space:
			for i := tok.Start; i < tok.End; i++ {
				place(i)
			}
		case text.Word:
			w := 0.0
			for i := tok.Start; i < tok.End; i++ {
				w += glyphs[i].W
			}
			if x > 0 && x+w > width+overflowEpsilon {
				breakAt(tok.Start)
			}
			for i := tok.Start; i < tok.End; i++ {
				if x > 0 && x+glyphs[i].W > width+overflowEpsilon {
					breakAt(i)
				}
				place(i)
			}
		}
	}
	lines[len(lines)-1].End = len(glyphs)
	return glyphs, lines
}

func (e *Engine) advance(r rune, st text.Style) float64 {
	key := advanceKey{r: r, st: st}
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.advances[key]; ok {
		return w
	}
	w := e.metrics.StringWidth(string(r), st)
	e.advances[key] = w
	return w
}
