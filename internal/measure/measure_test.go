package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/text"
)

func newSurface() *Surface {
	opts := layout.Options{
		PageWidth: 120, PageHeight: 120, Margin: 10,
		FontSize: 10, LineHeight: 2, ParagraphSpacing: 0, PageGap: 30,
	}
	return NewSurface(layout.NewEngine(opts, text.FixedMetrics{Advance: 10}))
}

func TestSurfaceQueriesBeforeMount(t *testing.T) {
	s := newSurface()
	_, ok := s.PageBox(0)
	assert.False(t, ok)
	_, ok = s.MeasureRangeBox(doctree.NewTextBlock("x"), 0, 1)
	assert.False(t, ok)
	assert.Equal(t, 20.0, s.MeasureHeight("x", 100))
}

func TestSurfaceMount(t *testing.T) {
	s := newSurface()
	first := doctree.NewTextBlock("hello world")
	second := doctree.NewTextBlock("next")
	doc := &doctree.Document{Pages: []*doctree.Page{
		doctree.NewPage(first),
		doctree.NewPage(second),
	}}
	s.Mount(doc)

	box, ok := s.PageBox(0)
	require.True(t, ok)
	assert.Equal(t, layout.Rect{X: 10, Y: 10, W: 100, H: 40}, box)

	box, ok = s.PageBox(1)
	require.True(t, ok)
	assert.Equal(t, 160.0, box.Y)

	r, ok := s.MeasureRangeBox(second, 0, 4)
	require.True(t, ok)
	assert.Equal(t, 180.0, r.Bottom())

	_, ok = s.MeasureRangeBox(first, 0, 50)
	assert.False(t, ok)

	// A block that was not part of the committed layout resolves to nothing.
	_, ok = s.MeasureRangeBox(doctree.NewTextBlock("stale"), 0, 1)
	assert.False(t, ok)

	assert.Len(t, s.Pages(), 2)
	s.Unmount()
	_, ok = s.PageBox(0)
	assert.False(t, ok)
}
