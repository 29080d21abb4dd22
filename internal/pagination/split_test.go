package pagination

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/measure"
)

// rangeOracle reports a box whose bottom is computed from the prefix length.
type rangeOracle struct {
	bottom func(end int) float64
}

func (o rangeOracle) MeasureHeight(string, float64) float64 { return 0 }

func (o rangeOracle) MeasureRangeBox(_ *doctree.Block, _, end int) (layout.Rect, bool) {
	return layout.Rect{H: o.bottom(end)}, true
}

func (o rangeOracle) PageBox(int) (layout.Rect, bool) { return layout.Rect{H: 100}, true }

var _ measure.Oracle = rangeOracle{}

func mountedBlock(t *testing.T, s string) (*measure.Surface, *doctree.Block, float64) {
	t.Helper()
	_, surface := newTestEngine(t, 0)
	d := doctree.FromText(s)
	surface.Mount(d)
	box, ok := surface.PageBox(0)
	require.True(t, ok)
	return surface, d.Pages[0].Blocks[0], box.Bottom()
}

func TestFindSplitCutsAfterLastFittingSpace(t *testing.T) {
	surface, b, bottom := mountedBlock(t, capacity+"xyz")
	sp, err := FindSplit(surface, b, bottom)
	require.NoError(t, err)
	assert.Equal(t, 50, sp.Offset)
	assert.Equal(t, 0, sp.Run)
	assert.Equal(t, 50, sp.RunOffset)
}

func TestFindSplitSnapsBackToWhitespace(t *testing.T) {
	// The sixth line starts mid-word; the cut moves back to the space.
	surface, b, bottom := mountedBlock(t, strings.Repeat("abcd efgh ", 4)+"abcd efghij klm")
	sp, err := FindSplit(surface, b, bottom)
	require.NoError(t, err)
	assert.Equal(t, 45, sp.Offset)
}

func TestFindSplitBlockFits(t *testing.T) {
	surface, b, bottom := mountedBlock(t, "short")
	_, err := FindSplit(surface, b, bottom)
	assert.ErrorIs(t, err, ErrBlockFits)
}

func TestFindSplitWithoutWhitespace(t *testing.T) {
	surface, b, bottom := mountedBlock(t, strings.Repeat("a", 60))
	_, err := FindSplit(surface, b, bottom)
	assert.ErrorIs(t, err, ErrNoWordBoundary)
}

func TestFindSplitNothingFits(t *testing.T) {
	o := rangeOracle{bottom: func(end int) float64 {
		if end == 0 {
			return 0
		}
		return 200
	}}
	b := doctree.FromText("a b c").Pages[0].Blocks[0]
	_, err := FindSplit(o, b, 100)
	assert.ErrorIs(t, err, ErrNothingFits)
}

func TestFindSplitUnmountedBlock(t *testing.T) {
	surface, _, bottom := mountedBlock(t, "mounted")
	other := doctree.FromText("never mounted").Pages[0].Blocks[0]
	_, err := FindSplit(surface, other, bottom)
	assert.ErrorIs(t, err, ErrNotMounted)
}

func TestFindSplitLeavesSpaceOnHead(t *testing.T) {
	o := rangeOracle{bottom: func(end int) float64 { return float64(end) * 10 }}
	b := doctree.FromText("ab cd ef gh").Pages[0].Blocks[0]
	// Prefixes up to 7 runes fit: "ab cd e". The cut follows the space at 5.
	sp, err := FindSplit(o, b, 70)
	require.NoError(t, err)
	assert.Equal(t, 6, sp.Offset)
}

func TestFindSplitCountsTrailingBreak(t *testing.T) {
	// Five hard-broken lines plus the empty line the last break opens.
	surface, b, bottom := mountedBlock(t, strings.Repeat("abcd\n", 5))
	sp, err := FindSplit(surface, b, bottom)
	require.NoError(t, err)
	assert.Equal(t, 20, sp.Offset)
}

func TestFindSplitSkipsBreakOnLastLine(t *testing.T) {
	// Cutting after the fifth break would leave the head a sixth, empty line.
	surface, b, bottom := mountedBlock(t, strings.Repeat("abcd\n", 6)+"end")
	sp, err := FindSplit(surface, b, bottom)
	require.NoError(t, err)
	assert.Equal(t, 20, sp.Offset)
}

func TestFindSplitAtTab(t *testing.T) {
	surface, b, bottom := mountedBlock(t, strings.Repeat("abcd efgh\t", 5)+"xyz")
	sp, err := FindSplit(surface, b, bottom)
	require.NoError(t, err)
	assert.Equal(t, 50, sp.Offset)
}
