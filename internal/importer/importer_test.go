package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pageflow/internal/doctree"
	"github.com/gompdf/pageflow/internal/res"
)

func importString(t *testing.T, name, src string) *doctree.Document {
	t.Helper()
	imp, err := ForFile(name)
	require.NoError(t, err)
	doc, err := imp.Import(strings.NewReader(src), name)
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
	return doc
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.json", "a.YAML", "a.yml", "a.txt", "a.md", "a.html", "a.htm", "a.pdf", "a.docx"} {
		assert.True(t, IsSupported(name), name)
		_, err := ForFile(name)
		assert.NoError(t, err, name)
	}
	_, err := ForFile("a.csv")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, IsSupported("noext"))
	assert.Contains(t, Extensions(), ".docx")
}

func TestTextImporter(t *testing.T) {
	doc := importString(t, "a.txt", "first line\nsecond line\n\n\n  \nnext paragraph  \r\n")
	assert.Equal(t, []string{"first line\nsecond line", "next paragraph"}, doc.Paragraphs())
	assert.Equal(t, 1, doc.PageCount())

	assert.Equal(t, doctree.New(), importString(t, "empty.txt", ""))
}

func TestImportNormalizesToNFC(t *testing.T) {
	doc := importString(t, "a.txt", "cafe\u0301")
	assert.Equal(t, "caf\u00e9", doc.Text())
	assert.Equal(t, 4, doc.Pages[0].Blocks[0].Len())
}

func TestTreeImporters(t *testing.T) {
	src := `[{"type":"page","children":[{"type":"paragraph","children":[{"text":"Hi","bold":true}]}]}]`
	doc := importString(t, "a.json", src)
	assert.True(t, doc.Pages[0].Blocks[0].Runs[0].Bold)

	imp, _ := ForFile("a.json")
	_, err := imp.Import(strings.NewReader("plain"), "a.json")
	assert.ErrorIs(t, err, doctree.ErrInvalid)

	lenient := &TreeImporter{}
	doc, err = lenient.Import(strings.NewReader("plain"), "a.json")
	require.NoError(t, err)
	assert.Equal(t, "plain", doc.Text())

	y, err := doctree.EncodeYAML(doctree.FromText("from yaml"))
	require.NoError(t, err)
	doc = importString(t, "a.yaml", string(y))
	assert.Equal(t, "from yaml", doc.Text())
}

func TestMarkdownImporter(t *testing.T) {
	src := "# Title\n\nSome **bold** and *em* text\ncontinued.\n\n- one\n- two\n\n---\n\n```\ncode  line\n```\n"
	doc := importString(t, "a.md", src)

	assert.Equal(t, []string{"Title", "Some bold and em text continued.", "one", "two", "code  line"}, doc.Paragraphs())
	blocks := doc.Pages[0].Blocks
	assert.Equal(t, []doctree.Run{{Text: "Title", Bold: true}}, blocks[0].Runs)
	assert.Equal(t, []doctree.Run{
		{Text: "Some "},
		{Text: "bold", Bold: true},
		{Text: " and em text continued."},
	}, blocks[1].Runs)
}

func TestHTMLImporter(t *testing.T) {
	doc := importString(t, "a.html", "<p>one <strong>two</strong></p><div>three</div>")
	assert.Equal(t, []string{"one two", "three"}, doc.Paragraphs())
	assert.True(t, doc.Pages[0].Blocks[0].Runs[1].Bold)
}

func TestDOCXImporter(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	p := w.AddParagraph()
	p.AddText("plain ")
	p.AddText("bold").Bold()
	w.AddParagraph()
	w.AddParagraph().AddText("two\nlines")
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	doc := importString(t, "a.docx", buf.String())
	assert.Equal(t, []string{"plain bold", "two\nlines"}, doc.Paragraphs())
	assert.Equal(t, []doctree.Run{{Text: "plain "}, {Text: "bold", Bold: true}}, doc.Pages[0].Blocks[0].Runs)

	_, err = (&DOCXImporter{}).Import(strings.NewReader("not a zip"), "a.docx")
	assert.Error(t, err)
}

func TestPDFImporter(t *testing.T) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(72, 72, "Hello   world")
	pdf.AddPage()
	pdf.Text(72, 72, "Second page")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	doc := importString(t, "a.pdf", buf.String())
	assert.Equal(t, []string{"Hello world", "Second page"}, doc.Paragraphs())

	_, err := (&PDFImporter{}).Import(strings.NewReader("%PDF-garbage"), "a.pdf")
	assert.Error(t, err)
}

func TestImportResource(t *testing.T) {
	l := res.NewLoader("")
	r, err := l.Load(context.Background(), "data:text/markdown,**hi**%20there")
	require.NoError(t, err)

	doc, err := Import(r)
	require.NoError(t, err)
	assert.Equal(t, "hi there", doc.Text())
	assert.True(t, doc.Pages[0].Blocks[0].Runs[0].Bold)

	r, err = l.Load(context.Background(), "data:image/png;base64,AAAA")
	require.NoError(t, err)
	_, err = Import(r)
	assert.ErrorIs(t, err, ErrUnsupported)
}
