package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	d := New()
	require.NoError(t, d.Validate())
	assert.Equal(t, 1, d.PageCount())
	assert.Equal(t, 1, d.BlockCount())
	assert.True(t, d.Pages[0].Blocks[0].IsEmpty())
	assert.Len(t, d.Pages[0].Blocks[0].Runs, 1)
}

func TestNewBlockNormalizes(t *testing.T) {
	b := NewBlock(Run{Text: "a"}, Run{Text: ""}, Run{Text: "b"}, Run{Text: "c", Bold: true})
	assert.Equal(t, []Run{{Text: "ab"}, {Text: "c", Bold: true}}, b.Runs)

	empty := NewBlock()
	assert.Equal(t, []Run{{}}, empty.Runs)
}

func TestBlockLocate(t *testing.T) {
	b := NewBlock(Run{Text: "héllo "}, Run{Text: "wörld", Bold: true})
	tests := []struct {
		offset    int
		run, runO int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{6, 0, 6},
		{7, 1, 1},
		{11, 1, 5},
	}
	for _, tt := range tests {
		run, ro, err := b.Locate(tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.run, run, "offset %d", tt.offset)
		assert.Equal(t, tt.runO, ro, "offset %d", tt.offset)
	}

	_, _, err := b.Locate(12)
	assert.ErrorIs(t, err, ErrPath)
	_, _, err = b.Locate(-1)
	assert.ErrorIs(t, err, ErrPath)
}

func TestBlockSplitAtPreservesFormatting(t *testing.T) {
	b := NewBlock(Run{Text: "one "}, Run{Text: "two three", Bold: true}, Run{Text: " four"})
	head, tail, err := b.SplitAt(1, 4)
	require.NoError(t, err)
	assert.Equal(t, []Run{{Text: "one "}, {Text: "two ", Bold: true}}, head.Runs)
	assert.Equal(t, []Run{{Text: "three", Bold: true}, {Text: " four"}}, tail.Runs)
	assert.Equal(t, b.Text(), head.Text()+tail.Text())
}

func TestBlockSplitAtRuneOffsets(t *testing.T) {
	b := NewTextBlock("日本語 テキスト")
	head, tail, err := b.SplitAt(0, 4)
	require.NoError(t, err)
	assert.Equal(t, "日本語 ", head.Text())
	assert.Equal(t, "テキスト", tail.Text())
}

func TestValidate(t *testing.T) {
	shared := NewTextBlock("x")
	tests := []struct {
		name string
		doc  *Document
	}{
		{"no pages", &Document{}},
		{"nil page", &Document{Pages: []*Page{nil}}},
		{"nil block", &Document{Pages: []*Page{{Blocks: []*Block{nil}}}}},
		{"block without runs", &Document{Pages: []*Page{{Blocks: []*Block{{}}}}}},
		{"shared block", &Document{Pages: []*Page{NewPage(shared), NewPage(shared)}}},
		{"no blocks", &Document{Pages: []*Page{{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.doc.Validate(), ErrInvalid)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := FromBlocks([]*Block{NewTextBlock("a"), NewTextBlock("b")})
	c := d.Clone()
	c.Pages[0].Blocks[0].Runs[0].Text = "changed"
	assert.Equal(t, "ab", d.Text())
	assert.Equal(t, "changedb", c.Text())
}

func TestMoveAndSplitBlock(t *testing.T) {
	d := FromBlocks([]*Block{NewTextBlock("first "), NewTextBlock("second")})
	_, err := d.InsertPage(1)
	require.NoError(t, err)

	require.NoError(t, d.MoveBlock(Path{0, 1}, Path{1, 0}))
	assert.Equal(t, []string{"first "}, blockTexts(d.Pages[0]))
	assert.Equal(t, []string{"second"}, blockTexts(d.Pages[1]))

	b := d.Pages[1].Blocks[0]
	require.NoError(t, d.SplitBlock(Path{1, 0}, 0, 3))
	assert.Same(t, b, d.Pages[1].Blocks[0])
	assert.Equal(t, []string{"sec", "ond"}, blockTexts(d.Pages[1]))
	assert.Equal(t, "first second", d.Text())

	assert.ErrorIs(t, d.MoveBlock(Path{0, 0}, Path{5, 0}), ErrPath)
	assert.ErrorIs(t, d.SplitBlock(Path{0, 3}, 0, 0), ErrPath)
}

func TestOffsetRoundTrip(t *testing.T) {
	d := &Document{Pages: []*Page{
		NewPage(NewTextBlock("abc"), NewTextBlock("de")),
		NewPage(NewTextBlock("fgh")),
	}}
	pos, err := d.PositionAt(4)
	require.NoError(t, err)
	assert.Equal(t, Position{Path: Path{0, 1}, Offset: 1}, pos)

	off, err := d.OffsetOf(pos)
	require.NoError(t, err)
	assert.Equal(t, 4, off)

	pos, err = d.PositionAt(3)
	require.NoError(t, err)
	assert.Equal(t, Position{Path: Path{0, 0}, Offset: 3}, pos)

	_, err = d.PositionAt(9)
	assert.ErrorIs(t, err, ErrPath)

	assert.Equal(t, Position{Path: Path{1, 0}, Offset: 3}, d.LastPosition())
}

func blockTexts(p *Page) []string {
	out := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		out[i] = b.Text()
	}
	return out
}
