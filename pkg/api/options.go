package api

import (
	"log/slog"
	"time"

	"github.com/gompdf/pageflow/internal/history"
	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/pagination"
	"github.com/gompdf/pageflow/internal/text"
)

// Metrics measures string advances; see WithMetrics.
type Metrics = text.Metrics

// Style is the face a string is measured with.
type Style = text.Style

// Options represents configuration options for an editing session
type Options struct {
	// Page geometry in CSS pixels
	PageWidth  float64
	PageHeight float64
	Margin     float64
	PageGap    float64

	// Typography
	Font             string
	FontSize         float64
	LineHeight       float64
	ParagraphSpacing float64
	// Metrics overrides Font for measurement when set
	Metrics Metrics

	// Reflow scheduling
	Debounce      time.Duration
	MaxIterations int
	HistoryLimit  int

	// OnChange receives the serialized document after every change
	OnChange func(content string)
	Logger   *slog.Logger

	// PDF export
	Title          string
	Author         string
	PageNumbers    bool
	DebugDrawBoxes bool
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	l := layout.DefaultOptions()
	return Options{
		PageWidth:        l.PageWidth,
		PageHeight:       l.PageHeight,
		Margin:           l.Margin,
		PageGap:          l.PageGap,
		Font:             text.FontHelvetica,
		FontSize:         l.FontSize,
		LineHeight:       l.LineHeight,
		ParagraphSpacing: l.ParagraphSpacing,
		Debounce:         pagination.DefaultDelay,
		MaxIterations:    pagination.DefaultMaxIterations,
		HistoryLimit:     history.DefaultLimit,
		PageNumbers:      true,
	}
}

func (o Options) layout() layout.Options {
	return layout.Options{
		PageWidth:        o.PageWidth,
		PageHeight:       o.PageHeight,
		Margin:           o.Margin,
		FontSize:         o.FontSize,
		LineHeight:       o.LineHeight,
		ParagraphSpacing: o.ParagraphSpacing,
		PageGap:          o.PageGap,
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(layout.PageSizeLetter.Width, layout.PageSizeLetter.Height)
}

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(layout.PageSizeA4.Width, layout.PageSizeA4.Height)
}

// WithMargin sets the margin on all four sides
func WithMargin(margin float64) Option {
	return func(o *Options) {
		o.Margin = margin
	}
}

// WithFont selects the measurement and export font by name
func WithFont(name string) Option {
	return func(o *Options) {
		o.Font = name
	}
}

// WithFontSize sets the font size
func WithFontSize(size float64) Option {
	return func(o *Options) {
		o.FontSize = size
	}
}

// WithLineHeight sets the line height as a multiple of the font size
func WithLineHeight(factor float64) Option {
	return func(o *Options) {
		o.LineHeight = factor
	}
}

// WithParagraphSpacing sets the gap between paragraphs
func WithParagraphSpacing(spacing float64) Option {
	return func(o *Options) {
		o.ParagraphSpacing = spacing
	}
}

// WithDebounce sets how long reflow waits for edits to settle
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// WithMaxIterations caps the passes of one reflow
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithHistoryLimit sets the number of undo steps kept
func WithHistoryLimit(n int) Option {
	return func(o *Options) {
		o.HistoryLimit = n
	}
}

// WithMetrics measures text with m instead of the named font
func WithMetrics(m Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// OnChange registers the change callback
func OnChange(fn func(content string)) Option {
	return func(o *Options) {
		o.OnChange = fn
	}
}

// WithTitle sets the exported document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the exported document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithPageNumbers toggles page numbers in exported PDFs
func WithPageNumbers(on bool) Option {
	return func(o *Options) {
		o.PageNumbers = on
	}
}

// WithDebugDrawBoxes outlines layout boxes in exported PDFs
func WithDebugDrawBoxes(on bool) Option {
	return func(o *Options) {
		o.DebugDrawBoxes = on
	}
}
