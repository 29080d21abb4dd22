package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pageflow/internal/doctree"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	for _, name := range []string{"top.md", "a/one.md", "a/b/two.md", "a/skip.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	got, err := expandInputs([]string{filepath.Join(dir, "**", "*.md"), "https://example.com/doc.md"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "top.md"),
		filepath.Join(dir, "a", "one.md"),
		filepath.Join(dir, "a", "b", "two.md"),
		"https://example.com/doc.md",
	}, got)

	_, err = expandInputs([]string{filepath.Join(dir, "*.pdf")})
	assert.Error(t, err)
}

func TestOpenEditorAndWriteTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(src, []byte(strings.Repeat("lorem ipsum dolor sit amet ", 400)), 0o644))

	e, err := openEditor(context.Background(), src)
	require.NoError(t, err)
	defer e.Close()
	_, err = e.Reflow(context.Background())
	require.NoError(t, err)
	require.Greater(t, e.PageCount(), 1)

	out := filepath.Join(dir, "doc.yaml")
	require.NoError(t, writeTree(out, e.Document()))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc, err := doctree.DecodeYAML(data)
	require.NoError(t, err)
	assert.Equal(t, e.PageCount(), doc.PageCount())
}
