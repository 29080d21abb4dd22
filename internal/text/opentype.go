package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	bold bool
	size float64
}

// OpenTypeMetrics measures with the Go fonts. Faces are created lazily per
// weight and size and are not safe for concurrent use, hence the lock.
type OpenTypeMetrics struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewOpenTypeMetrics parses the embedded Go regular and bold faces.
func NewOpenTypeMetrics() (*OpenTypeMetrics, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("text: parse go regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("text: parse go bold: %w", err)
	}
	return &OpenTypeMetrics{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func (m *OpenTypeMetrics) face(st Style) (font.Face, error) {
	key := faceKey{bold: st.Bold, size: st.Size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	src := m.regular
	if st.Bold {
		src = m.bold
	}
	// 72 DPI makes one point equal one pixel.
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    st.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[key] = f
	return f, nil
}

// StringWidth implements Metrics.
func (m *OpenTypeMetrics) StringWidth(s string, st Style) float64 {
	if s == "" || st.Size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.face(st)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(f, s)) / 64
}
