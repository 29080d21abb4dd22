package pagination

import (
	"errors"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/measure"
	"github.com/gompdf/pageflow/internal/text"
)

var (
	// ErrBlockFits means the whole block ends above the content bottom.
	ErrBlockFits = errors.New("pagination: block fits")
	// ErrNothingFits means not even the first character fits.
	ErrNothingFits = errors.New("pagination: no prefix of the block fits")
	// ErrNoWordBoundary means there is no whitespace to cut after.
	ErrNoWordBoundary = errors.New("pagination: no word boundary before the overflow")
	// ErrNotMounted means the block could not be measured.
	ErrNotMounted = errors.New("pagination: block is not mounted")
)

// heightEpsilon absorbs float noise in height comparisons.
const heightEpsilon = 1e-6

// SplitPoint is where a block is cut. Offset is the flat rune offset of the
// first character of the tail; Run and RunOffset address the same place.
type SplitPoint struct {
	Offset    int
	Run       int
	RunOffset int
}

// FindSplit finds the cut that keeps the longest word-aligned prefix of b
// above contentBottom. The prefix ends with the whitespace it was cut after.
func FindSplit(o measure.Oracle, b *doctree.Block, contentBottom float64) (SplitPoint, error) {
	n := b.Len()
	fits := func(m int) (bool, error) {
		r, ok := o.MeasureRangeBox(b, 0, m)
		if !ok {
			return false, ErrNotMounted
		}
		return r.Bottom() <= contentBottom+heightEpsilon, nil
	}

	whole, err := fits(n)
	if err != nil {
		return SplitPoint{}, err
	}
	if whole {
		return SplitPoint{}, ErrBlockFits
	}

	// Largest m in [0, n) whose prefix fits. The predicate is monotonic.
	best := -1
	lo, hi := 0, n-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		ok, err := fits(mid)
		if err != nil {
			return SplitPoint{}, err
		}
		if ok {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best <= 0 {
		return SplitPoint{}, ErrNothingFits
	}

	// A head ending in a hard break grows the empty line the break opens, so
	// a newline only qualifies when the rune after it fits too.
	runes := []rune(b.Text())
	cut := -1
	for i := best - 1; i >= 1; i-- {
		if runes[i] == '\n' && i+1 >= best {
			continue
		}
		if text.IsSpace(runes[i]) {
			cut = i + 1
			break
		}
	}
	if cut < 0 || cut >= n {
		return SplitPoint{}, ErrNoWordBoundary
	}

	run, ro, err := b.Locate(cut)
	if err != nil {
		return SplitPoint{}, err
	}
	return SplitPoint{Offset: cut, Run: run, RunOffset: ro}, nil
}
