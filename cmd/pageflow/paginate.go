package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/gompdf/pageflow"
	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/pagination"
)

var (
	paginateJSON bool
	paginateYAML bool
	paginateFlat bool
	paginateOut  string
)

var paginateCmd = &cobra.Command{
	Use:   "paginate [files or globs...]",
	Short: "Reflow documents and print their pages",
	Long: `Paginate imports each file (.json, .yaml, .txt, .md, .html, .pdf, .docx),
reflows it until every page fits and prints the text of every page.
Arguments may be URLs or doublestar globs such as 'docs/**/*.md'.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputs, err := expandInputs(args)
		if err != nil {
			fatal("Error expanding inputs", err)
		}
		if paginateOut != "" && len(inputs) != 1 {
			fatal("Error", fmt.Errorf("--out needs exactly one input, got %d", len(inputs)))
		}

		ctx := cmd.Context()
		for _, in := range inputs {
			if err := paginateOne(ctx, in, len(inputs) > 1); err != nil {
				fatal("Error paginating "+in, err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(paginateCmd)
	paginateCmd.Flags().BoolVar(&paginateJSON, "json", false, "Print the paginated block tree as JSON")
	paginateCmd.Flags().BoolVar(&paginateYAML, "yaml", false, "Print the paginated block tree as YAML")
	paginateCmd.Flags().BoolVar(&paginateFlat, "flat", false, "Paginate the plain text without paragraphs")
	paginateCmd.Flags().StringVarP(&paginateOut, "out", "o", "", "Write the paginated tree to a .json or .yaml file")
}

// expandInputs resolves glob arguments. URLs and plain paths pass through.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if strings.Contains(arg, "://") || strings.HasPrefix(arg, "data:") || !strings.ContainsAny(arg, "*?[{") {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func paginateOne(ctx context.Context, in string, header bool) error {
	if paginateFlat {
		doc, err := loadDocument(ctx, in)
		if err != nil {
			return err
		}
		opts, err := editorOptions()
		if err != nil {
			return err
		}
		pages, err := pageflow.PaginateText(doc.Text(), opts...)
		if err != nil {
			return err
		}
		if header {
			fmt.Printf("==> %s <==\n", in)
		}
		printPages(pages)
		return nil
	}

	e, err := openEditor(ctx, in)
	if err != nil {
		return err
	}
	defer e.Close()

	stats, err := e.Reflow(ctx)
	if errors.Is(err, pagination.ErrNotConverged) {
		slog.Warn("reflow stopped before converging", "file", in, "passes", stats.Passes)
	} else if err != nil {
		return err
	}
	slog.Debug("reflowed", "file", in, "passes", stats.Passes, "splits", stats.Splits, "moves", stats.Moves)
	for _, p := range stats.Overflowing {
		slog.Warn("page still overflows", "file", in, "page", p+1)
	}

	doc := e.Document()
	if paginateOut != "" {
		return writeTree(paginateOut, doc)
	}
	if header {
		fmt.Printf("==> %s <==\n", in)
	}
	switch {
	case paginateJSON:
		fmt.Println(e.Content())
	case paginateYAML:
		data, err := doctree.EncodeYAML(doc)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	default:
		printPages(e.Pages())
	}
	return nil
}

func printPages(pages []string) {
	for i, p := range pages {
		fmt.Printf("--- page %d/%d ---\n%s\n", i+1, len(pages), p)
	}
}

func writeTree(path string, doc *doctree.Document) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = doctree.EncodeYAML(doc)
	default:
		data, err = doctree.Encode(doc)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
