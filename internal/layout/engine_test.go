package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/text"
)

// testOptions gives a 100x100 content area holding five lines of ten
// fixed-width characters.
func testOptions() Options {
	return Options{
		PageWidth:        120,
		PageHeight:       120,
		Margin:           10,
		FontSize:         10,
		LineHeight:       2,
		ParagraphSpacing: 8,
		PageGap:          30,
	}
}

func newTestEngine() *Engine {
	return NewEngine(testOptions(), text.FixedMetrics{Advance: 10})
}

func lineRanges(bb *BlockBox) [][2]int {
	out := make([][2]int, len(bb.Lines))
	for i, l := range bb.Lines {
		out[i] = [2]int{l.Start, l.End}
	}
	return out
}

func TestLayoutBlockLineBreaking(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name  string
		text  string
		lines [][2]int
	}{
		{"empty paragraph", "", [][2]int{{0, 0}}},
		{"exact fit", "abcde fghi", [][2]int{{0, 10}}},
		{"wrap at space", "hello world", [][2]int{{0, 6}, {6, 11}}},
		{"hanging spaces", "abcdefghij   k", [][2]int{{0, 13}, {13, 14}}},
		{"overlong word", "abcdefghijklmno", [][2]int{{0, 10}, {10, 15}}},
		{"hard break", "a\nb", [][2]int{{0, 2}, {2, 3}}},
		{"trailing break", "a\n", [][2]int{{0, 2}, {2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := e.LayoutBlock(doctree.NewTextBlock(tt.text), 10, 10, 100)
			assert.Equal(t, tt.lines, lineRanges(bb))
			assert.Equal(t, float64(len(tt.lines))*20, bb.H)
		})
	}
}

func TestLayoutBlockBoldRuns(t *testing.T) {
	e := NewEngine(testOptions(), text.NewCoreMetrics("Helvetica"))
	b := doctree.NewBlock(doctree.Run{Text: "ab"}, doctree.Run{Text: "cd", Bold: true})
	bb := e.LayoutBlock(b, 0, 0, 100)
	require.Len(t, bb.Glyphs, 4)
	assert.False(t, bb.Glyphs[1].Style.Bold)
	assert.True(t, bb.Glyphs[2].Style.Bold)
	assert.InDelta(t, bb.Glyphs[1].X+bb.Glyphs[1].W, bb.Glyphs[2].X, 1e-9)
}

func TestRangeBox(t *testing.T) {
	e := newTestEngine()
	bb := e.LayoutBlock(doctree.NewTextBlock("hello world"), 10, 50, 100)

	r, ok := bb.RangeBox(0, 5)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 10, Y: 50, W: 50, H: 20}, r)

	r, ok = bb.RangeBox(0, 11)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 10, Y: 50, W: 100, H: 40}, r)
	assert.Equal(t, 90.0, r.Bottom())

	r, ok = bb.RangeBox(7, 7)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 20, Y: 70}, r)

	r, ok = bb.RangeBox(11, 11)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 60, Y: 70}, r)

	_, ok = bb.RangeBox(0, 12)
	assert.False(t, ok)
	_, ok = bb.RangeBox(4, 3)
	assert.False(t, ok)
}

func TestLayoutPage(t *testing.T) {
	e := newTestEngine()
	p := doctree.NewPage(doctree.NewTextBlock("one"), doctree.NewTextBlock("hello world"))
	pb := e.LayoutPage(p, 1)

	top := 120.0 + 30 + 10
	assert.Equal(t, Rect{X: 10, Y: top, W: 100, H: 20 + 8 + 40}, pb.Rect)
	assert.Equal(t, Rect{X: 0, Y: 150, W: 120, H: 120}, pb.Page)
	require.Len(t, pb.Blocks, 2)
	assert.Equal(t, top+28, pb.Blocks[1].Y)
	assert.Equal(t, top+100, pb.ContentBottom(testOptions().ContentHeight()))
}

func TestTextHeight(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, 20.0, e.TextHeight("", 100))
	assert.Equal(t, 40.0, e.TextHeight("hello world", 100))
	assert.Equal(t, 20.0, e.TextHeight("hello world", 200))
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 20, W: 10, H: 5}
	assert.Equal(t, Rect{X: 0, Y: 0, W: 15, H: 25}, a.Union(b))
}

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.Valid())
	assert.Equal(t, 716.0, o.ContentWidth())
	assert.Equal(t, 956.0, o.ContentHeight())
	assert.Equal(t, 24.0, o.LinePitch())
	assert.Equal(t, 2*(1056.0+32), o.PageTop(2))

	o.Margin = 600
	assert.False(t, o.Valid())
}

func TestRangeBoxTrailingBreak(t *testing.T) {
	e := newTestEngine()
	bb := e.LayoutBlock(doctree.NewTextBlock("ab\n"), 10, 10, 100)

	r, ok := bb.RangeBox(0, 3)
	require.True(t, ok)
	assert.Equal(t, bb.Bottom(), r.Bottom())
	assert.Equal(t, Rect{X: 10, Y: 10, W: 100, H: 40}, r)

	r, ok = bb.RangeBox(0, 2)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 10, Y: 10, W: 20, H: 20}, r)

	bb = e.LayoutBlock(doctree.NewTextBlock("a\nb"), 10, 10, 100)
	r, ok = bb.RangeBox(0, 2)
	require.True(t, ok)
	assert.Equal(t, 30.0, r.Bottom())
}
