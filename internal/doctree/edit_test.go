package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertTextInheritsFormatting(t *testing.T) {
	d := FromBlocks([]*Block{NewBlock(Run{Text: "plain "}, Run{Text: "bold", Bold: true})})

	require.NoError(t, d.InsertText(Position{Path: Path{0, 0}, Offset: 8}, "XX"))
	assert.Equal(t, []Run{{Text: "plain "}, {Text: "boXXld", Bold: true}}, d.Pages[0].Blocks[0].Runs)

	// A run boundary belongs to the earlier run.
	require.NoError(t, d.InsertText(Position{Path: Path{0, 0}, Offset: 6}, "!"))
	assert.Equal(t, []Run{{Text: "plain !"}, {Text: "boXXld", Bold: true}}, d.Pages[0].Blocks[0].Runs)

	assert.ErrorIs(t, d.InsertText(Position{Path: Path{0, 0}, Offset: 99}, "x"), ErrPath)
	assert.ErrorIs(t, d.InsertText(Position{Path: Path{1, 0}}, "x"), ErrPath)
}

func TestDeleteRangeWithinBlock(t *testing.T) {
	d := FromText("hello cruel world")
	require.NoError(t, d.DeleteRange(Position{Offset: 6}, Position{Offset: 12}))
	assert.Equal(t, "hello world", d.Text())
}

func TestDeleteRangeAcrossPages(t *testing.T) {
	d := &Document{Pages: []*Page{
		NewPage(NewTextBlock("alpha "), NewTextBlock("beta ")),
		NewPage(NewTextBlock("gamma ")),
		NewPage(NewTextBlock("delta"), NewTextBlock("omega")),
	}}
	from := Position{Path: Path{0, 1}, Offset: 4}
	to := Position{Path: Path{2, 0}, Offset: 5}
	require.NoError(t, d.DeleteRange(from, to))

	require.NoError(t, d.Validate())
	assert.Equal(t, 3, d.PageCount(), "pages are never removed")
	assert.Equal(t, []string{"alpha ", "beta"}, blockTexts(d.Pages[0]))
	assert.Equal(t, []string{""}, blockTexts(d.Pages[1]))
	assert.Equal(t, []string{"omega"}, blockTexts(d.Pages[2]))
	assert.Equal(t, "alpha betaomega", d.Text())
}

func TestDeleteRangeRejectsReversedRange(t *testing.T) {
	d := FromText("abc")
	err := d.DeleteRange(Position{Offset: 2}, Position{Offset: 1})
	assert.ErrorIs(t, err, ErrPath)
	assert.Equal(t, "abc", d.Text())
}

func TestBreakBlock(t *testing.T) {
	d := FromText("first second")
	require.NoError(t, d.BreakBlock(Position{Offset: 6}))
	assert.Equal(t, []string{"first ", "second"}, blockTexts(d.Pages[0]))

	require.NoError(t, d.BreakBlock(Position{Path: Path{0, 1}, Offset: 6}))
	assert.Equal(t, []string{"first ", "second", ""}, blockTexts(d.Pages[0]))
	require.NoError(t, d.Validate())
}

func TestSetBold(t *testing.T) {
	d := FromBlocks([]*Block{NewTextBlock("one two"), NewTextBlock("three four")})
	from := Position{Path: Path{0, 0}, Offset: 4}
	to := Position{Path: Path{0, 1}, Offset: 5}
	require.NoError(t, d.SetBold(from, to, true))

	assert.Equal(t, []Run{{Text: "one "}, {Text: "two", Bold: true}}, d.Pages[0].Blocks[0].Runs)
	assert.Equal(t, []Run{{Text: "three", Bold: true}, {Text: " four"}}, d.Pages[0].Blocks[1].Runs)

	require.NoError(t, d.SetBold(Position{}, Position{Path: Path{0, 1}, Offset: 10}, false))
	assert.Equal(t, []Run{{Text: "one two"}}, d.Pages[0].Blocks[0].Runs)
	assert.Equal(t, []Run{{Text: "three four"}}, d.Pages[0].Blocks[1].Runs)
	assert.Equal(t, "one twothree four", d.Text())
}
