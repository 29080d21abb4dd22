package doctree

import (
	"fmt"
	"unicode/utf8"
)

// The operations below are the user-facing edits of an editing session. They
// validate their arguments before touching the tree, so a returned error means
// the document is unchanged.

// InsertText inserts text at pos, inheriting the formatting of the run the
// caret sits in.
func (d *Document) InsertText(pos Position, text string) error {
	b, err := d.Block(pos.Path)
	if err != nil {
		return err
	}
	run, ro, err := b.Locate(pos.Offset)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	r := b.Runs[run]
	cut := byteOffset(r.Text, ro)
	b.Runs[run].Text = r.Text[:cut] + text + r.Text[cut:]
	b.normalize()
	return nil
}

// DeleteRange removes the characters between from and to. When the range
// spans several blocks the first and last are merged and the blocks between
// them are removed. A page emptied by the deletion keeps one empty block;
// pages themselves are never removed.
func (d *Document) DeleteRange(from, to Position) error {
	if err := d.checkRange(from, to); err != nil {
		return err
	}
	first, _ := d.Block(from.Path)
	last, _ := d.Block(to.Path)

	fr, fo, _ := first.Locate(from.Offset)
	lr, lo, _ := last.Locate(to.Offset)
	head, _, err := first.SplitAt(fr, fo)
	if err != nil {
		return err
	}
	_, tail, err := last.SplitAt(lr, lo)
	if err != nil {
		return err
	}
	first.Runs = NewBlock(append(head.Runs, tail.Runs...)...).Runs

	if from.Path == to.Path {
		return nil
	}

	var doomed []Path
	d.Walk(func(p Path, _ *Block) bool {
		if from.Path.Before(p) && !to.Path.Before(p) {
			doomed = append(doomed, p)
		}
		return !to.Path.Before(p)
	})
	for i := len(doomed) - 1; i >= 0; i-- {
		if _, err := d.RemoveBlock(doomed[i]); err != nil {
			return err
		}
	}
	d.refillEmptyPages()
	return nil
}

// BreakBlock splits the block at pos into two paragraphs on the same page,
// the way pressing Enter does.
func (d *Document) BreakBlock(pos Position) error {
	b, err := d.Block(pos.Path)
	if err != nil {
		return err
	}
	run, ro, err := b.Locate(pos.Offset)
	if err != nil {
		return err
	}
	return d.SplitBlock(pos.Path, run, ro)
}

// SetBold applies or clears bold formatting over [from, to).
func (d *Document) SetBold(from, to Position, bold bool) error {
	if err := d.checkRange(from, to); err != nil {
		return err
	}
	d.Walk(func(p Path, b *Block) bool {
		if p.Before(from.Path) {
			return true
		}
		if to.Path.Before(p) {
			return false
		}
		start, end := 0, b.Len()
		if p == from.Path {
			start = from.Offset
		}
		if p == to.Path {
			end = to.Offset
		}
		setBoldRange(b, start, end, bold)
		return true
	})
	return nil
}

func (d *Document) checkRange(from, to Position) error {
	for _, pos := range []Position{from, to} {
		b, err := d.Block(pos.Path)
		if err != nil {
			return err
		}
		if pos.Offset < 0 || pos.Offset > b.Len() {
			return fmt.Errorf("%w: offset %d outside block %s of length %d", ErrPath, pos.Offset, pos.Path, b.Len())
		}
	}
	if to.Path.Before(from.Path) || (to.Path == from.Path && to.Offset < from.Offset) {
		return fmt.Errorf("%w: range end %v precedes start %v", ErrPath, to, from)
	}
	return nil
}

func (d *Document) refillEmptyPages() {
	for _, p := range d.Pages {
		if len(p.Blocks) == 0 {
			p.Blocks = []*Block{NewTextBlock("")}
		}
	}
}

// setBoldRange rewrites b's runs so that [start, end) carries the given
// weight and everything else keeps its formatting.
func setBoldRange(b *Block, start, end int, bold bool) {
	if start >= end {
		return
	}
	out := make([]Run, 0, len(b.Runs)+2)
	offset := 0
	for _, r := range b.Runs {
		l := r.Len()
		rs, re := offset, offset+l
		offset = re
		if re <= start || rs >= end {
			out = append(out, r)
			continue
		}
		a := max(start, rs) - rs
		z := min(end, re) - rs
		ab := byteOffset(r.Text, a)
		zb := byteOffset(r.Text, z)
		out = append(out,
			Run{Text: r.Text[:ab], Bold: r.Bold},
			Run{Text: r.Text[ab:zb], Bold: bold},
			Run{Text: r.Text[zb:], Bold: r.Bold},
		)
	}
	b.Runs = out
	b.normalize()
}

// RuneLen is a convenience for callers computing positions from strings.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
