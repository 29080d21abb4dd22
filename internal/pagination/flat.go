package pagination

import "github.com/gompdf/pageflow/internal/text"

// HeightMeasurer measures plain text laid out at a fixed width.
type HeightMeasurer interface {
	MeasureHeight(text string, width float64) float64
}

// PaginateText splits plain text into pages without a block structure: each
// page is the longest prefix of the remaining text that fits height, cut
// after the last whitespace when there is one. After maxIterations pages the
// remainder becomes the final page, so the pages always concatenate to s.
func PaginateText(s string, m HeightMeasurer, width, height float64, maxIterations int) []string {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	rest := []rune(s)
	if len(rest) == 0 {
		return []string{""}
	}
	fits := func(rs []rune) bool {
		return m.MeasureHeight(string(rs), width) <= height+heightEpsilon
	}

	var pages []string
	for i := 0; len(rest) > 0; i++ {
		if i == maxIterations-1 || fits(rest) {
			pages = append(pages, string(rest))
			break
		}

		// Longest fitting prefix; at least one rune so every page advances.
		best := 1
		lo, hi := 1, len(rest)-1
		for lo <= hi {
			mid := lo + (hi-lo)/2
			if fits(rest[:mid]) {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}

		cut := best
		for j := best - 1; j >= 1; j-- {
			if text.IsSpace(rest[j]) {
				cut = j + 1
				break
			}
		}
		pages = append(pages, string(rest[:cut]))
		rest = rest[cut:]
	}
	return pages
}
