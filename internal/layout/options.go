package layout

// Options holds the page geometry and typography shared by the layout, the
// measurement surface and the overflow threshold of the scheduler. Units are
// CSS pixels.
type Options struct {
	PageWidth        float64
	PageHeight       float64
	Margin           float64
	FontSize         float64
	LineHeight       float64 // multiple of FontSize
	ParagraphSpacing float64
	PageGap          float64
}

// DefaultOptions returns a US Letter page at 96 DPI.
func DefaultOptions() Options {
	return Options{
		PageWidth:        816,
		PageHeight:       1056,
		Margin:           50,
		FontSize:         16,
		LineHeight:       1.5,
		ParagraphSpacing: 8,
		PageGap:          32,
	}
}

// ContentWidth returns the printable width.
func (o Options) ContentWidth() float64 {
	return o.PageWidth - 2*o.Margin
}

// ContentHeight returns the printable height.
func (o Options) ContentHeight() float64 {
	return o.PageHeight - 2*o.Margin
}

// LinePitch returns the height of one line.
func (o Options) LinePitch() float64 {
	return o.FontSize * o.LineHeight
}

// PageTop returns the y coordinate of the top edge of page i.
func (o Options) PageTop(i int) float64 {
	return float64(i) * (o.PageHeight + o.PageGap)
}

// Valid reports whether the geometry leaves room for at least one line.
func (o Options) Valid() bool {
	return o.PageWidth > 0 && o.PageHeight > 0 && o.Margin >= 0 &&
		o.ContentWidth() > 0 && o.ContentHeight() > 0 &&
		o.FontSize > 0 && o.LineHeight > 0 && o.ParagraphSpacing >= 0 && o.PageGap >= 0
}
