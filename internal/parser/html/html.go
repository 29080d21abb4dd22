package html

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/pageflow/internal/doctree"
)

// Parser converts HTML into paragraphs
type Parser struct {
	// SkipTags lists elements whose content is dropped
	SkipTags map[string]bool
}

// Document is the result of parsing an HTML source
type Document struct {
	Title  string
	Blocks []*doctree.Block
}

// Tree returns the parsed paragraphs as a single-page document.
func (d *Document) Tree() *doctree.Document {
	return doctree.FromBlocks(d.Blocks)
}

var defaultSkip = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

// Elements that start and end a paragraph.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"td": true, "th": true, "dt": true, "dd": true, "section": true, "article": true,
	"tr": true, "ul": true, "ol": true, "table": true, "hr": true, "address": true,
}

var boldTags = map[string]bool{
	"b": true, "strong": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{SkipTags: defaultSkip}
}

// ParseString parses HTML from a string
func (p *Parser) ParseString(content string) (*Document, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses HTML from an io.Reader
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{Title: findTitle(node)}
	b := &builder{}
	root := findBody(node)
	if root == nil {
		root = node
	}
	p.walk(root, b, state{})
	b.flush()
	doc.Blocks = b.blocks
	return doc, nil
}

type state struct {
	bold bool
	pre  bool
}

func (p *Parser) walk(n *html.Node, b *builder, st state) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data, st)
		return
	case html.ElementNode:
		if p.SkipTags[n.Data] {
			return
		}
		if n.DataAtom == atom.Br {
			b.lineBreak(st.bold)
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.flush()
	}
	if boldTags[n.Data] {
		st.bold = true
	}
	if n.DataAtom == atom.Pre {
		st.pre = true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, b, st)
	}
	if block {
		b.flush()
	}
}

// builder accumulates runs for the paragraph being read. Outside <pre>,
// whitespace collapses to one space and is dropped at paragraph edges.
type builder struct {
	blocks []*doctree.Block
	runs   []doctree.Run
	cur    strings.Builder
	bold   bool

	space     bool
	spaceBold bool
	started   bool
}

func (b *builder) text(s string, st state) {
	if st.pre {
		b.write(s, st.bold)
		return
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			if b.started && !b.space {
				b.space = true
				b.spaceBold = st.bold
			}
			continue
		}
		if b.space {
			b.write(" ", b.spaceBold)
			b.space = false
		}
		b.write(string(r), st.bold)
	}
}

func (b *builder) lineBreak(bold bool) {
	b.write("\n", bold)
	b.space = false
}

func (b *builder) write(s string, bold bool) {
	if s == "" {
		return
	}
	if bold != b.bold && b.cur.Len() > 0 {
		b.runs = append(b.runs, doctree.Run{Text: b.cur.String(), Bold: b.bold})
		b.cur.Reset()
	}
	b.bold = bold
	b.cur.WriteString(s)
	b.started = true
}

func (b *builder) flush() {
	if b.cur.Len() > 0 {
		b.runs = append(b.runs, doctree.Run{Text: b.cur.String(), Bold: b.bold})
	}
	if b.started {
		b.blocks = append(b.blocks, doctree.NewBlock(b.runs...))
	}
	b.runs = nil
	b.cur.Reset()
	b.bold = false
	b.space = false
	b.started = false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// Render writes doc as an HTML page: one <section> per page, one <p> per
// block, bold runs in <b> and hard breaks as <br>.
func Render(w io.Writer, doc *doctree.Document, title string) error {
	root := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if title != "" {
		t := element(atom.Title)
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}
	root.AppendChild(head)

	body := element(atom.Body)
	for i, page := range doc.Pages {
		section := element(atom.Section)
		section.Attr = []html.Attribute{
			{Key: "class", Val: "page"},
			{Key: "data-page", Val: fmt.Sprint(i + 1)},
		}
		for _, block := range page.Blocks {
			section.AppendChild(renderBlock(block))
		}
		body.AppendChild(section)
	}
	root.AppendChild(body)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	if err := html.Render(&buf, root); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func renderBlock(b *doctree.Block) *html.Node {
	p := element(atom.P)
	for _, run := range b.Runs {
		parent := p
		if run.Bold {
			parent = element(atom.B)
			p.AppendChild(parent)
		}
		for i, line := range strings.Split(run.Text, "\n") {
			if i > 0 {
				parent.AppendChild(element(atom.Br))
			}
			if line != "" {
				parent.AppendChild(&html.Node{Type: html.TextNode, Data: line})
			}
		}
	}
	return p
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
