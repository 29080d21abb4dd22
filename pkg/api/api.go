package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/history"
	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/measure"
	"github.com/gompdf/pageflow/internal/parser/html"
	"github.com/gompdf/pageflow/internal/pagination"
	"github.com/gompdf/pageflow/internal/render/pdf"
	"github.com/gompdf/pageflow/internal/text"
)

// ErrClosed is returned by edits on a closed editor.
var ErrClosed = errors.New("pageflow: editor is closed")

// Document, Position and Path are the document model types.
type (
	Document = doctree.Document
	Position = doctree.Position
	Path     = doctree.Path
	Stats    = pagination.Stats
)

// Editor is one editing session: it owns a document, applies user edits,
// keeps undo history and reflows pages in the background after each change.
// All methods are safe for concurrent use.
type Editor struct {
	options Options
	logger  *slog.Logger

	layout    *layout.Engine
	engine    *pagination.Engine
	scheduler *pagination.Scheduler

	mu      sync.Mutex
	doc     *doctree.Document
	history *history.History
	closed  bool
}

func resolve(opts []Option) (Options, *layout.Engine, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	lo := options.layout()
	if !lo.Valid() {
		return options, nil, fmt.Errorf("pageflow: invalid page geometry %+v", lo)
	}
	metrics := options.Metrics
	if metrics == nil {
		m, err := text.NewMetrics(options.Font)
		if err != nil {
			return options, nil, err
		}
		metrics = m
	}
	return options, layout.NewEngine(lo, metrics), nil
}

// NewEditor creates an editor holding an empty document.
func NewEditor(opts ...Option) (*Editor, error) {
	options, engine, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	lo := engine.Options()
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Editor{
		options: options,
		logger:  logger,
		layout:  engine,
		doc:     doctree.New(),
		history: history.New(options.HistoryLimit),
	}
	e.engine = pagination.NewEngine(measure.NewSurface(e.layout), pagination.Options{
		ContentHeight: lo.ContentHeight(),
		MaxIterations: options.MaxIterations,
		Logger:        logger,
	})
	e.scheduler = pagination.NewScheduler(e.engine, pagination.SchedulerOptions{
		Delay:    options.Debounce,
		Lock:     &e.mu,
		Document: func() *doctree.Document { return e.doc },
		OnPass: func(r pagination.Result) {
			if r.Mutated() {
				e.changed()
			}
		},
		Logger: logger,
	})
	return e, nil
}

// Open creates an editor for stored content. Content that is not a valid
// document tree is loaded as a single plain-text paragraph.
func Open(content string, opts ...Option) (*Editor, error) {
	e, err := NewEditor(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Load(content); err != nil {
		return nil, err
	}
	return e, nil
}

// Load replaces the document, clears the undo history and schedules a
// reflow.
func (e *Editor) Load(content string) error {
	return e.replace(doctree.Decode(content))
}

// LoadDocument replaces the document with a copy of doc.
func (e *Editor) LoadDocument(doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	return e.replace(doc.Clone())
}

func (e *Editor) replace(doc *doctree.Document) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.doc = doc
	e.history.Clear()
	e.mu.Unlock()
	e.changed()
	e.scheduler.Notify()
	return nil
}

// Content returns the serialized document.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.encodeLocked()
}

func (e *Editor) encodeLocked() string {
	data, err := doctree.Encode(e.doc)
	if err != nil {
		// The tree only holds strings and bools.
		e.logger.Error("encode document", "error", err)
		return ""
	}
	return string(data)
}

// Document returns a copy of the current document.
func (e *Editor) Document() *Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// PageCount returns the number of pages.
func (e *Editor) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.PageCount()
}

// Pages returns the plain text of every page.
func (e *Editor) Pages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.doc.Pages))
	for i, p := range e.doc.Pages {
		out[i] = p.Text()
	}
	return out
}

// Text returns the plain text of the document.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Text()
}

// PositionAt converts a flat rune offset into a position.
func (e *Editor) PositionAt(offset int) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.PositionAt(offset)
}

// Apply runs a user edit, records it for undo and schedules a reflow. A
// failed edit leaves the document untouched.
func (e *Editor) Apply(edit Edit) (err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	before := e.doc.Clone()
	func() {
		defer func() {
			if r := recover(); r != nil {
				e.doc = before
				err = fmt.Errorf("pageflow: edit panicked: %v", r)
			}
		}()
		err = edit(e.doc)
	}()
	if err == nil {
		e.history.Push(before)
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.changed()
	e.scheduler.Notify()
	return nil
}

// Undo reverts the last edit. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	return e.step(e.history.Undo)
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() bool {
	return e.step(e.history.Redo)
}

// CanUndo reports whether Undo has an edit to revert.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.history.CanUndo()
}

// CanRedo reports whether Redo has an undone edit to reapply.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed && e.history.CanRedo()
}

func (e *Editor) step(fn func(*doctree.Document) (*doctree.Document, bool)) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	doc, ok := fn(e.doc)
	if ok {
		e.doc = doc
	}
	e.mu.Unlock()
	if ok {
		e.changed()
		e.scheduler.Notify()
	}
	return ok
}

// Reflow repaginates synchronously until no page can be repaired.
func (e *Editor) Reflow(ctx context.Context) (Stats, error) {
	e.mu.Lock()
	stats, err := e.engine.Converge(ctx, e.doc)
	e.mu.Unlock()
	if stats.Splits+stats.Moves > 0 {
		e.changed()
	}
	return stats, err
}

// Flush runs a scheduled reflow now and waits for it to settle.
func (e *Editor) Flush() error {
	_, err := e.scheduler.Flush()
	return err
}

// ExportPDF writes the current pages to w.
func (e *Editor) ExportPDF(w io.Writer) error {
	e.mu.Lock()
	pages := e.layout.Layout(e.doc)
	e.mu.Unlock()

	family, err := text.Family(e.options.Font)
	if err != nil {
		return err
	}
	r := pdf.NewRenderer()
	r.FontFamily = family
	r.PageNumbers = e.options.PageNumbers
	r.DebugDrawBoxes = e.options.DebugDrawBoxes
	r.Logger = e.logger
	return r.Render(w, pages, e.layout.Options(), pdf.RenderOptions{
		Title:    e.options.Title,
		Author:   e.options.Author,
		Creator:  "pageflow",
		Producer: "pageflow",
	})
}

// ExportHTML writes the current pages as an HTML document, one section per
// page.
func (e *Editor) ExportHTML(w io.Writer) error {
	doc := e.Document()
	return html.Render(w, doc, e.options.Title)
}

// PaginateText splits plain text into page-sized strings without building a
// block tree. The pages concatenate back to s.
func PaginateText(s string, opts ...Option) ([]string, error) {
	options, engine, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	lo := engine.Options()
	surface := measure.NewSurface(engine)
	return pagination.PaginateText(s, surface, lo.ContentWidth(), lo.ContentHeight(), options.MaxIterations), nil
}

// Close stops background reflow. The document stays readable.
func (e *Editor) Close() error {
	e.scheduler.Close()
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

func (e *Editor) changed() {
	if e.options.OnChange == nil {
		return
	}
	e.mu.Lock()
	content := e.encodeLocked()
	e.mu.Unlock()
	e.options.OnChange(content)
}
