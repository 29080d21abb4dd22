package importer

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gompdf/pageflow/internal/doctree"
)

// MarkdownImporter handles Markdown using goldmark. Paragraphs, headings,
// list items and code blocks become paragraphs; strong emphasis and headings
// become bold runs.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, name string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []*doctree.Block
	emit := func(runs []doctree.Run) {
		b := doctree.NewBlock(trimRuns(runs)...)
		if !b.IsEmpty() {
			blocks = append(blocks, b)
		}
	}

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			emit(inlineRuns(n, src, false, nil))
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			emit(inlineRuns(n, src, true, nil))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			emit([]doctree.Run{{Text: strings.TrimRight(blockLines(n, src), "\n")}})
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return doctree.FromBlocks(blocks), nil
}

func inlineRuns(n ast.Node, src []byte, bold bool, out []doctree.Run) []doctree.Run {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			out = append(out, doctree.Run{Text: string(c.Segment.Value(src)), Bold: bold})
			switch {
			case c.HardLineBreak():
				out = append(out, doctree.Run{Text: "\n", Bold: bold})
			case c.SoftLineBreak():
				out = append(out, doctree.Run{Text: " ", Bold: bold})
			}
		case *ast.String:
			out = append(out, doctree.Run{Text: string(c.Value), Bold: bold})
		case *ast.Emphasis:
			out = inlineRuns(c, src, bold || c.Level >= 2, out)
		case *ast.AutoLink:
			out = append(out, doctree.Run{Text: string(c.Label(src)), Bold: bold})
		case *ast.RawHTML:
		default:
			out = inlineRuns(c, src, bold, out)
		}
	}
	return out
}

func blockLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(src))
	}
	return sb.String()
}

// trimRuns drops whitespace at both ends of a paragraph.
func trimRuns(runs []doctree.Run) []doctree.Run {
	for len(runs) > 0 {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " \t\n")
		if runs[0].Text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 {
		last := len(runs) - 1
		runs[last].Text = strings.TrimRight(runs[last].Text, " \t\n")
		if runs[last].Text != "" {
			break
		}
		runs = runs[:last]
	}
	return runs
}
