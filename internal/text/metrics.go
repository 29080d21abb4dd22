// Package text provides font metrics and the word segmentation used by the
// headless paragraph layout.
package text

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Style selects the face a run is measured with.
type Style struct {
	Bold bool
	Size float64
}

// Metrics measures the advance width of strings, in the same unit as the
// font size.
type Metrics interface {
	StringWidth(s string, st Style) float64
}

// FixedMetrics gives every rune the same advance regardless of face or size.
// Layouts measured with it are exact, which makes capacities computable by hand.
type FixedMetrics struct {
	Advance float64
}

// StringWidth implements Metrics.
func (m FixedMetrics) StringWidth(s string, _ Style) float64 {
	return float64(utf8.RuneCountInString(s)) * m.Advance
}

// Font names accepted by NewMetrics.
const (
	FontHelvetica = "helvetica"
	FontTimes     = "times"
	FontCourier   = "courier"
	FontGo        = "go"
)

// Family resolves a font name to a core PDF family ("Helvetica", "Times",
// "Courier") or FontGo.
func Family(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FontHelvetica, "arial", "sans-serif":
		return "Helvetica", nil
	case FontTimes, "times new roman", "serif":
		return "Times", nil
	case FontCourier, "courier new", "monospace":
		return "Courier", nil
	case FontGo, "goregular", "go regular":
		return FontGo, nil
	}
	return "", fmt.Errorf("text: unknown font %q", name)
}

// NewMetrics returns the metrics backend for a font name. Core PDF fonts are
// measured with fpdf; "go" uses the Go fonts through x/image.
func NewMetrics(name string) (Metrics, error) {
	family, err := Family(name)
	if err != nil {
		return nil, err
	}
	if family == FontGo {
		m, err := NewOpenTypeMetrics()
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return NewCoreMetrics(family), nil
}
