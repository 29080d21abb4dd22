// Package pageflow keeps an edited rich-text document split into fixed-size
// pages. See pkg/api for the editing session.
package pageflow

import (
	"github.com/gompdf/pageflow/pkg/api"
)

// Version is the release of this module.
const Version = "0.1.0"

type Editor = api.Editor
type Options = api.Options
type Option = api.Option
type Edit = api.Edit
type Document = api.Document
type Position = api.Position
type Path = api.Path
type Stats = api.Stats

func NewEditor(opts ...Option) (*Editor, error)           { return api.NewEditor(opts...) }
func Open(content string, opts ...Option) (*Editor, error) { return api.Open(content, opts...) }
func DefaultOptions() Options                              { return api.DefaultOptions() }

// PaginateText splits plain text into page-sized strings.
func PaginateText(s string, opts ...Option) ([]string, error) { return api.PaginateText(s, opts...) }

var (
	WithPageSize         = api.WithPageSize
	WithPageSizeLetter   = api.WithPageSizeLetter
	WithPageSizeA4       = api.WithPageSizeA4
	WithMargin           = api.WithMargin
	WithFont             = api.WithFont
	WithFontSize         = api.WithFontSize
	WithLineHeight       = api.WithLineHeight
	WithParagraphSpacing = api.WithParagraphSpacing
	WithDebounce         = api.WithDebounce
	WithMaxIterations    = api.WithMaxIterations
	WithHistoryLimit     = api.WithHistoryLimit
	WithMetrics          = api.WithMetrics
	WithLogger           = api.WithLogger
	OnChange             = api.OnChange
	WithTitle            = api.WithTitle
	WithAuthor           = api.WithAuthor
	WithPageNumbers      = api.WithPageNumbers
	WithDebugDrawBoxes   = api.WithDebugDrawBoxes
)

var (
	InsertText   = api.InsertText
	InsertTextAt = api.InsertTextAt
	DeleteRange  = api.DeleteRange
	DeleteTextAt = api.DeleteTextAt
	BreakBlock   = api.BreakBlock
	SetBold      = api.SetBold
)

var ErrClosed = api.ErrClosed
