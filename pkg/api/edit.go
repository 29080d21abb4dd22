package api

import "github.com/gompdf/pageflow/internal/doctree"

// Edit is a user edit applied to the document by Editor.Apply.
type Edit func(doc *Document) error

// InsertText types s at pos.
func InsertText(pos Position, s string) Edit {
	return func(doc *Document) error { return doc.InsertText(pos, s) }
}

// DeleteRange deletes the characters between from and to.
func DeleteRange(from, to Position) Edit {
	return func(doc *Document) error { return doc.DeleteRange(from, to) }
}

// BreakBlock starts a new paragraph at pos.
func BreakBlock(pos Position) Edit {
	return func(doc *Document) error { return doc.BreakBlock(pos) }
}

// SetBold sets or clears bold over [from, to).
func SetBold(from, to Position, bold bool) Edit {
	return func(doc *Document) error { return doc.SetBold(from, to, bold) }
}

// InsertTextAt types s at a flat rune offset into the document text.
func InsertTextAt(offset int, s string) Edit {
	return func(doc *Document) error {
		pos, err := doc.PositionAt(offset)
		if err != nil {
			return err
		}
		return doc.InsertText(pos, s)
	}
}

// DeleteTextAt deletes n runes starting at a flat offset. Paragraph
// boundaries hold no characters, so a deletion that covers whole paragraphs
// only merges the paragraphs it cuts into.
func DeleteTextAt(offset, n int) Edit {
	return func(doc *Document) error {
		if n == 0 {
			return nil
		}
		from, err := startPosition(doc, offset)
		if err != nil {
			return err
		}
		to, err := doc.PositionAt(offset + n)
		if err != nil {
			return err
		}
		return doc.DeleteRange(from, to)
	}
}

// startPosition resolves a flat offset like PositionAt, except that a block
// boundary belongs to the later block.
func startPosition(doc *Document, offset int) (doctree.Position, error) {
	pos, err := doc.PositionAt(offset)
	if err != nil {
		return pos, err
	}
	b, err := doc.Block(pos.Path)
	if err != nil || pos.Offset < b.Len() {
		return pos, err
	}
	next := pos
	doc.Walk(func(p doctree.Path, _ *doctree.Block) bool {
		if pos.Path.Before(p) {
			next = doctree.Position{Path: p}
			return false
		}
		return true
	})
	return next, nil
}
