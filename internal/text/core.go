package text

import (
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// CoreMetrics measures with the AFM widths of the standard PDF fonts via
// fpdf. One fpdf instance is reused for every measurement.
type CoreMetrics struct {
	family string

	once sync.Once
	mu   sync.Mutex
	pdf  *fpdf.Fpdf
	tr   func(string) string
}

// NewCoreMetrics creates metrics for a core font family ("Helvetica",
// "Times" or "Courier").
func NewCoreMetrics(family string) *CoreMetrics {
	return &CoreMetrics{family: family}
}

// Family returns the core font family name.
func (m *CoreMetrics) Family() string {
	return m.family
}

func (m *CoreMetrics) init() {
	m.pdf = fpdf.New("P", "pt", "", "")
	m.pdf.SetFont(m.family, "", 12)
	// Core fonts are cp1252 encoded; widths are looked up per byte.
	m.tr = m.pdf.UnicodeTranslatorFromDescriptor("")
}

// StringWidth implements Metrics.
func (m *CoreMetrics) StringWidth(s string, st Style) float64 {
	if s == "" || st.Size <= 0 {
		return 0
	}
	m.once.Do(m.init)
	m.mu.Lock()
	defer m.mu.Unlock()
	sty := ""
	if st.Bold {
		sty = "B"
	}
	m.pdf.SetFont(m.family, sty, st.Size)
	return m.pdf.GetStringWidth(m.tr(s))
}
