// Package measure answers geometry questions about a document: how tall a
// piece of text is at a given width, and where a character range of a
// mounted paragraph ends up on the page.
package measure

import (
	"sync"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/layout"
)

// Oracle is the measurement contract used by pagination. Queries never fail
// loudly: anything that cannot be resolved against the committed layout
// reports false.
type Oracle interface {
	// MeasureHeight returns the height of text laid out at width.
	MeasureHeight(text string, width float64) float64
	// MeasureRangeBox returns the bounding box of the runes [start, end) of
	// a mounted block.
	MeasureRangeBox(b *doctree.Block, start, end int) (layout.Rect, bool)
	// PageBox returns the content box of a mounted page.
	PageBox(page int) (layout.Rect, bool)
}

// Surface is the headless counterpart of a rendered editor: Mount commits
// the layout of a document and later queries read from that commit until
// the next Mount. Blocks edited after mounting keep answering with their
// mounted geometry, the same way a painted DOM lags behind its model.
type Surface struct {
	engine *layout.Engine

	mu     sync.RWMutex
	pages  []*layout.PageBox
	blocks map[*doctree.Block]*layout.BlockBox
}

var _ Oracle = (*Surface)(nil)

// NewSurface creates an empty surface over engine.
func NewSurface(engine *layout.Engine) *Surface {
	return &Surface{engine: engine}
}

// Engine returns the layout engine backing the surface.
func (s *Surface) Engine() *layout.Engine {
	return s.engine
}

// Mount lays out doc and makes it the committed layout.
func (s *Surface) Mount(doc *doctree.Document) {
	pages := s.engine.Layout(doc)
	blocks := make(map[*doctree.Block]*layout.BlockBox, doc.BlockCount())
	for _, p := range pages {
		for _, bb := range p.Blocks {
			blocks[bb.Block] = bb
		}
	}
	s.mu.Lock()
	s.pages, s.blocks = pages, blocks
	s.mu.Unlock()
}

// Unmount drops the committed layout.
func (s *Surface) Unmount() {
	s.mu.Lock()
	s.pages, s.blocks = nil, nil
	s.mu.Unlock()
}

// Pages returns the committed page boxes.
func (s *Surface) Pages() []*layout.PageBox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*layout.PageBox(nil), s.pages...)
}

// MeasureHeight implements Oracle.
func (s *Surface) MeasureHeight(text string, width float64) float64 {
	return s.engine.TextHeight(text, width)
}

// MeasureRangeBox implements Oracle.
func (s *Surface) MeasureRangeBox(b *doctree.Block, start, end int) (layout.Rect, bool) {
	s.mu.RLock()
	bb, ok := s.blocks[b]
	s.mu.RUnlock()
	if !ok {
		return layout.Rect{}, false
	}
	return bb.RangeBox(start, end)
}

// PageBox implements Oracle.
func (s *Surface) PageBox(page int) (layout.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if page < 0 || page >= len(s.pages) {
		return layout.Rect{}, false
	}
	return s.pages[page].Rect, true
}
