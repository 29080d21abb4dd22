// Package pagination keeps a document partitioned into pages whose content
// fits the printable area. A pass repairs at most one overflowing page by
// splitting or moving its last block onto the next page; repeated passes
// converge.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/measure"
)

// DefaultMaxIterations bounds Converge.
const DefaultMaxIterations = 10000

// ErrNotConverged is returned when the iteration cap is reached while passes
// still mutate the document.
var ErrNotConverged = errors.New("pagination: reflow did not converge")

// Surface is an oracle that can commit the layout of a document.
type Surface interface {
	measure.Oracle
	Mount(doc *doctree.Document)
}

// Options represents options for the pagination engine
type Options struct {
	// ContentHeight is the printable height every page must fit in.
	ContentHeight float64
	MaxIterations int
	Logger        *slog.Logger
}

// Engine handles the pagination process
type Engine struct {
	surface Surface
	options Options
	logger  *slog.Logger
}

// NewEngine creates a new pagination engine
func NewEngine(surface Surface, options Options) *Engine {
	if options.MaxIterations <= 0 {
		options.MaxIterations = DefaultMaxIterations
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{surface: surface, options: options, logger: logger}
}

// Options returns the engine options.
func (e *Engine) Options() Options {
	return e.options
}

// Action is the repair a pass performed.
type Action int

const (
	// ActionNone means no page overflows.
	ActionNone Action = iota
	// ActionSplit means the last block of a page was cut at a word boundary
	// and its tail moved to the next page.
	ActionSplit
	// ActionMove means the last block of a page moved to the next page.
	ActionMove
	// ActionUnrepairable means pages overflow but none can be repaired.
	ActionUnrepairable
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionSplit:
		return "split"
	case ActionMove:
		return "move"
	case ActionUnrepairable:
		return "unrepairable"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Result describes one pass.
type Result struct {
	Action Action
	// Page is the repaired page, or -1.
	Page int
	// Offset is the rune offset of the cut for ActionSplit.
	Offset int
	// Overflowing lists the pages left overflowing when nothing was repaired.
	Overflowing []int
}

// Mutated reports whether the pass changed the document.
func (r Result) Mutated() bool {
	return r.Action == ActionSplit || r.Action == ActionMove
}

// Pass mounts doc and repairs the first overflowing page that can be
// repaired. Pages whose measurement fails are skipped.
func (e *Engine) Pass(doc *doctree.Document) (Result, error) {
	if err := doc.Validate(); err != nil {
		return Result{Page: -1}, err
	}
	e.surface.Mount(doc)

	limit := e.options.ContentHeight
	var stuck []int
	for i := range doc.Pages {
		box, ok := e.surface.PageBox(i)
		if !ok {
			e.logger.Debug("page not mounted", "page", i)
			continue
		}
		if box.H <= limit+heightEpsilon {
			continue
		}
		res, err := e.repair(doc, i, box.Y+limit)
		if err != nil {
			e.logger.Debug("repair aborted", "page", i, "error", err)
			continue
		}
		if res.Action == ActionUnrepairable {
			stuck = append(stuck, i)
			continue
		}
		e.logger.Debug("page repaired", "page", i, "action", res.Action, "height", box.H, "limit", limit)
		return res, nil
	}
	if len(stuck) > 0 {
		return Result{Action: ActionUnrepairable, Page: stuck[0], Overflowing: stuck}, nil
	}
	return Result{Action: ActionNone, Page: -1}, nil
}

func (e *Engine) repair(doc *doctree.Document, pi int, contentBottom float64) (Result, error) {
	page := doc.Pages[pi]
	last := len(page.Blocks) - 1
	if last < 0 {
		return Result{Action: ActionUnrepairable, Page: pi}, nil
	}
	from := doctree.Path{Page: pi, Block: last}

	sp, err := FindSplit(e.surface, page.Blocks[last], contentBottom)
	switch {
	case err == nil:
		if err := e.ensureNextPage(doc, pi); err != nil {
			return Result{}, err
		}
		if err := doc.SplitBlock(from, sp.Run, sp.RunOffset); err != nil {
			return Result{}, err
		}
		tail := doctree.Path{Page: pi, Block: last + 1}
		if err := doc.MoveBlock(tail, doctree.Path{Page: pi + 1}); err != nil {
			return Result{}, err
		}
		return Result{Action: ActionSplit, Page: pi, Offset: sp.Offset}, nil
	case errors.Is(err, ErrNotMounted):
		return Result{}, err
	}

	if len(page.Blocks) < 2 {
		e.logger.Debug("single block cannot be split", "page", pi, "reason", err)
		return Result{Action: ActionUnrepairable, Page: pi}, nil
	}
	if err := e.ensureNextPage(doc, pi); err != nil {
		return Result{}, err
	}
	if err := doc.MoveBlock(from, doctree.Path{Page: pi + 1}); err != nil {
		return Result{}, err
	}
	return Result{Action: ActionMove, Page: pi}, nil
}

func (e *Engine) ensureNextPage(doc *doctree.Document, pi int) error {
	if pi+1 < len(doc.Pages) {
		return nil
	}
	_, err := doc.InsertPage(pi + 1)
	return err
}

// Stats summarizes a Converge call.
type Stats struct {
	Passes int
	Splits int
	Moves  int
	// Overflowing lists pages left overflowing at the fixed point.
	Overflowing []int
}

// Converge runs passes until one makes no change. It gives up with
// ErrNotConverged after MaxIterations passes and honors ctx between passes.
func (e *Engine) Converge(ctx context.Context, doc *doctree.Document) (Stats, error) {
	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if stats.Passes >= e.options.MaxIterations {
			return stats, fmt.Errorf("%w after %d passes", ErrNotConverged, stats.Passes)
		}
		res, err := e.Pass(doc)
		if err != nil {
			return stats, err
		}
		stats.Passes++
		switch res.Action {
		case ActionSplit:
			stats.Splits++
		case ActionMove:
			stats.Moves++
		default:
			stats.Overflowing = res.Overflowing
			return stats, nil
		}
	}
}
