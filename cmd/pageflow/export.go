package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gompdf/pageflow"
	"github.com/gompdf/pageflow/internal/pagination"
)

var (
	exportOutput      string
	exportTitle       string
	exportAuthor      string
	exportPageNumbers bool
	exportDebugBoxes  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <input>",
	Short: "Reflow a document and write it as PDF or HTML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := args[0]
		out := exportOutput
		if out == "" {
			base := filepath.Base(in)
			out = strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
		}

		e, err := openEditor(cmd.Context(), in,
			pageflow.WithTitle(exportTitle),
			pageflow.WithAuthor(exportAuthor),
			pageflow.WithPageNumbers(exportPageNumbers),
			pageflow.WithDebugDrawBoxes(exportDebugBoxes),
		)
		if err != nil {
			fatal("Error loading "+in, err)
		}
		defer e.Close()

		if _, err := e.Reflow(cmd.Context()); err != nil && !errors.Is(err, pagination.ErrNotConverged) {
			fatal("Error reflowing "+in, err)
		}

		f, err := os.Create(out)
		if err != nil {
			fatal("Error creating output", err)
		}
		switch strings.ToLower(filepath.Ext(out)) {
		case ".html", ".htm":
			err = e.ExportHTML(f)
		default:
			err = e.ExportPDF(f)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fatal("Error writing "+out, err)
		}
		fmt.Printf("Wrote %d pages to %s\n", e.PageCount(), out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (.pdf or .html); defaults to <input>.pdf")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "Document title")
	exportCmd.Flags().StringVar(&exportAuthor, "author", "", "Document author")
	exportCmd.Flags().BoolVar(&exportPageNumbers, "page-numbers", true, "Print page numbers")
	exportCmd.Flags().BoolVar(&exportDebugBoxes, "debug-boxes", false, "Outline layout boxes")
}
