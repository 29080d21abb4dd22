// Package pdf exports laid-out pages to PDF with fpdf, placing every line
// where the layout put it so the printed pages match the paginated document.
package pdf

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/text"
)

// pxToPt converts CSS pixels (96 per inch) to PDF points (72 per inch).
const pxToPt = 72.0 / 96.0

// Renderer handles rendering to PDF
type Renderer struct {
	// FontFamily is a core font ("Helvetica", "Times", "Courier") or "go"
	// for the embedded Go fonts.
	FontFamily string
	// PageNumbers prints "n / total" in the bottom margin.
	PageNumbers bool
	// DebugDrawBoxes outlines content, paragraph and line boxes.
	DebugDrawBoxes bool
	Logger         *slog.Logger
}

// RenderOptions contains document metadata
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{
		FontFamily:  "Helvetica",
		PageNumbers: true,
		Logger:      slog.Default(),
	}
}

// Render writes pages, laid out with opts, to w.
func (r *Renderer) Render(w io.Writer, pages []*layout.PageBox, opts layout.Options, options RenderOptions) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: opts.PageWidth * pxToPt, Ht: opts.PageHeight * pxToPt},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)

	family, tr := r.registerFonts(pdf)
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("rendering pdf", "pages", len(pages), "font", family)

	for _, page := range pages {
		pdf.AddPage()
		r.renderPage(pdf, page, opts, family, tr)
		if r.PageNumbers {
			r.renderPageNumber(pdf, page.Index+1, len(pages), opts, family)
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf.Output(w)
}

// registerFonts selects the font family and the translator text must go
// through before it is written.
func (r *Renderer) registerFonts(pdf *fpdf.Fpdf) (string, func(string) string) {
	if strings.EqualFold(r.FontFamily, text.FontGo) {
		pdf.AddUTF8FontFromBytes("Go", "", goregular.TTF)
		pdf.AddUTF8FontFromBytes("Go", "B", gobold.TTF)
		return "Go", func(s string) string { return s }
	}
	family := r.FontFamily
	if family == "" {
		family = "Helvetica"
	}
	pdf.SetFont(family, "", 12)
	return family, pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *Renderer) renderPage(pdf *fpdf.Fpdf, page *layout.PageBox, opts layout.Options, family string, tr func(string) string) {
	originY := page.Page.Y
	pitch := opts.LinePitch()
	// Center the glyphs in the line box and sit them on a baseline at 80%
	// of the font size.
	baseline := (pitch-opts.FontSize)/2 + 0.8*opts.FontSize

	if r.DebugDrawBoxes {
		pdf.SetDrawColor(200, 0, 0)
		r.strokeRect(pdf, page.Rect, originY)
	}
	for _, bb := range page.Blocks {
		if r.DebugDrawBoxes {
			pdf.SetDrawColor(0, 0, 200)
			r.strokeRect(pdf, bb.Rect, originY)
		}
		for _, line := range bb.Lines {
			y := (line.Y - originY + baseline) * pxToPt
			for _, seg := range segments(bb.Glyphs[line.Start:line.End]) {
				style := ""
				if seg.style.Bold {
					style = "B"
				}
				pdf.SetFont(family, style, seg.style.Size*pxToPt)
				pdf.Text(seg.x*pxToPt, y, tr(seg.text))
			}
			if r.DebugDrawBoxes {
				pdf.SetDrawColor(180, 180, 180)
				r.strokeRect(pdf, line.Rect, originY)
			}
		}
	}
}

func (r *Renderer) renderPageNumber(pdf *fpdf.Fpdf, n, total int, opts layout.Options, family string) {
	size := opts.FontSize * 0.75
	label := fmt.Sprintf("%d / %d", n, total)
	pdf.SetFont(family, "", size*pxToPt)
	w := pdf.GetStringWidth(label)
	x := opts.PageWidth*pxToPt/2 - w/2
	y := (opts.PageHeight - opts.Margin/2) * pxToPt
	pdf.Text(x, y, label)
}

func (r *Renderer) strokeRect(pdf *fpdf.Fpdf, rect layout.Rect, originY float64) {
	pdf.SetLineWidth(0.5)
	pdf.Rect(rect.X*pxToPt, (rect.Y-originY)*pxToPt, rect.W*pxToPt, rect.H*pxToPt, "D")
}

// segment is a run of visible glyphs sharing a style on one line.
type segment struct {
	x     float64
	style text.Style
	text  string
}

func segments(glyphs []layout.Glyph) []segment {
	var (
		out []segment
		sb  strings.Builder
		cur *segment
	)
	flush := func() {
		if cur != nil && strings.TrimSpace(sb.String()) != "" {
			cur.text = sb.String()
			out = append(out, *cur)
		}
		cur = nil
		sb.Reset()
	}
	for _, g := range glyphs {
		if g.Rune == '\n' {
			continue
		}
		if cur != nil && cur.style != g.Style {
			flush()
		}
		if cur == nil {
			cur = &segment{x: g.X, style: g.Style}
		}
		sb.WriteRune(g.Rune)
	}
	flush()
	return out
}
