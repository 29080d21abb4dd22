package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gompdf/pageflow"
	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/importer"
	"github.com/gompdf/pageflow/internal/layout"
	"github.com/gompdf/pageflow/internal/res"
)

var (
	verbose       bool
	fontName      string
	pageSize      string
	margin        float64
	fontSize      float64
	maxIterations int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pageflow",
	Short: "Split rich-text documents into fixed-size pages",
	Long: `Pageflow lays out paragraphs on fixed-size pages and repairs overflowing
pages one step at a time, splitting paragraphs at word boundaries or moving
them to the next page until every page fits.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&fontName, "font", "helvetica", "Font: helvetica, times, courier or go")
	rootCmd.PersistentFlags().StringVar(&pageSize, "page-size", "letter", "Page size: letter, legal, a3, a4 or a5")
	rootCmd.PersistentFlags().Float64Var(&margin, "margin", 50, "Page margin in CSS pixels")
	rootCmd.PersistentFlags().Float64Var(&fontSize, "font-size", 16, "Font size in CSS pixels")
	rootCmd.PersistentFlags().IntVar(&maxIterations, "max-iterations", 10000, "Maximum reflow passes per document")
}

// editorOptions turns the persistent flags into editor options.
func editorOptions(extra ...pageflow.Option) ([]pageflow.Option, error) {
	ps, err := layout.LookupPageSize(pageSize)
	if err != nil {
		return nil, err
	}
	opts := []pageflow.Option{
		pageflow.WithPageSize(ps.Width, ps.Height),
		pageflow.WithMargin(margin),
		pageflow.WithFont(fontName),
		pageflow.WithFontSize(fontSize),
		pageflow.WithMaxIterations(maxIterations),
		pageflow.WithLogger(slog.Default()),
	}
	return append(opts, extra...), nil
}

// loadDocument reads a path or URL and imports it by extension.
func loadDocument(ctx context.Context, ref string) (*doctree.Document, error) {
	r, err := res.NewLoader("").Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return importer.Import(r)
}

// openEditor loads ref into a new editor.
func openEditor(ctx context.Context, ref string, extra ...pageflow.Option) (*pageflow.Editor, error) {
	doc, err := loadDocument(ctx, ref)
	if err != nil {
		return nil, err
	}
	opts, err := editorOptions(extra...)
	if err != nil {
		return nil, err
	}
	e, err := pageflow.NewEditor(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.LoadDocument(doc); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}
