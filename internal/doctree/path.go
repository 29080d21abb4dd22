package doctree

import (
	"errors"
	"fmt"
)

// ErrPath is returned when a path or offset does not address the tree.
var ErrPath = errors.New("doctree: invalid path")

// Path addresses a block by page index and block index within the page.
type Path struct {
	Page  int `json:"page"`
	Block int `json:"block"`
}

func (p Path) String() string {
	return fmt.Sprintf("[%d,%d]", p.Page, p.Block)
}

// Before reports whether p precedes o in document order.
func (p Path) Before(o Path) bool {
	if p.Page != o.Page {
		return p.Page < o.Page
	}
	return p.Block < o.Block
}

// Position addresses a caret position: a rune offset inside a block.
type Position struct {
	Path
	Offset int `json:"offset"`
}

// Page returns the page at index i.
func (d *Document) Page(i int) (*Page, error) {
	if i < 0 || i >= len(d.Pages) {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPath, i, len(d.Pages))
	}
	return d.Pages[i], nil
}

// Block returns the block addressed by p.
func (d *Document) Block(p Path) (*Block, error) {
	page, err := d.Page(p.Page)
	if err != nil {
		return nil, err
	}
	if p.Block < 0 || p.Block >= len(page.Blocks) {
		return nil, fmt.Errorf("%w: block %s, page holds %d", ErrPath, p, len(page.Blocks))
	}
	return page.Blocks[p.Block], nil
}

// InsertPage inserts an empty page at index at (0 <= at <= PageCount).
func (d *Document) InsertPage(at int) (*Page, error) {
	if at < 0 || at > len(d.Pages) {
		return nil, fmt.Errorf("%w: cannot insert page at %d of %d", ErrPath, at, len(d.Pages))
	}
	p := &Page{}
	d.Pages = append(d.Pages, nil)
	copy(d.Pages[at+1:], d.Pages[at:])
	d.Pages[at] = p
	return p, nil
}

// InsertBlock inserts b at path p. p.Block may equal the page's block count.
func (d *Document) InsertBlock(p Path, b *Block) error {
	page, err := d.Page(p.Page)
	if err != nil {
		return err
	}
	if p.Block < 0 || p.Block > len(page.Blocks) {
		return fmt.Errorf("%w: cannot insert block at %s, page holds %d", ErrPath, p, len(page.Blocks))
	}
	page.Blocks = append(page.Blocks, nil)
	copy(page.Blocks[p.Block+1:], page.Blocks[p.Block:])
	page.Blocks[p.Block] = b
	return nil
}

// RemoveBlock detaches the block at p and returns it. The page may be left
// without blocks; callers that expose this to users refill it.
func (d *Document) RemoveBlock(p Path) (*Block, error) {
	b, err := d.Block(p)
	if err != nil {
		return nil, err
	}
	page := d.Pages[p.Page]
	page.Blocks = append(page.Blocks[:p.Block], page.Blocks[p.Block+1:]...)
	return b, nil
}

// MoveBlock detaches the block at from and inserts it at to. to is resolved
// after the removal.
func (d *Document) MoveBlock(from, to Path) error {
	if _, err := d.Block(from); err != nil {
		return err
	}
	dst, err := d.Page(to.Page)
	if err != nil {
		return err
	}
	limit := len(dst.Blocks)
	if from.Page == to.Page {
		limit--
	}
	if to.Block < 0 || to.Block > limit {
		return fmt.Errorf("%w: cannot move block to %s", ErrPath, to)
	}
	b, _ := d.RemoveBlock(from)
	return d.InsertBlock(to, b)
}

// SplitBlock cuts the block at p at the given run coordinate. The head stays
// at p and the tail becomes its next sibling on the same page.
func (d *Document) SplitBlock(p Path, run, runOffset int) error {
	b, err := d.Block(p)
	if err != nil {
		return err
	}
	head, tail, err := b.SplitAt(run, runOffset)
	if err != nil {
		return err
	}
	// Keep the head's identity so mounted layouts still resolve it.
	b.Runs = head.Runs
	return d.InsertBlock(Path{Page: p.Page, Block: p.Block + 1}, tail)
}

// OffsetOf converts a position into a flat rune offset over Text().
func (d *Document) OffsetOf(pos Position) (int, error) {
	b, err := d.Block(pos.Path)
	if err != nil {
		return 0, err
	}
	if pos.Offset < 0 || pos.Offset > b.Len() {
		return 0, fmt.Errorf("%w: offset %d outside block of length %d", ErrPath, pos.Offset, b.Len())
	}
	total := 0
	d.Walk(func(p Path, blk *Block) bool {
		if p == pos.Path {
			return false
		}
		total += blk.Len()
		return true
	})
	return total + pos.Offset, nil
}

// PositionAt converts a flat rune offset into a position. An offset on a
// block boundary resolves to the end of the earlier block.
func (d *Document) PositionAt(offset int) (Position, error) {
	if offset < 0 {
		return Position{}, fmt.Errorf("%w: negative offset %d", ErrPath, offset)
	}
	var (
		pos   Position
		found bool
		last  Path
	)
	remaining := offset
	d.Walk(func(p Path, b *Block) bool {
		last = p
		l := b.Len()
		if remaining <= l {
			pos = Position{Path: p, Offset: remaining}
			found = true
			return false
		}
		remaining -= l
		return true
	})
	if !found {
		return Position{}, fmt.Errorf("%w: offset %d past end of document (last block %s)", ErrPath, offset, last)
	}
	return pos, nil
}

// LastPosition returns the position after the last character.
func (d *Document) LastPosition() Position {
	for pi := len(d.Pages) - 1; pi >= 0; pi-- {
		if n := len(d.Pages[pi].Blocks); n > 0 {
			b := d.Pages[pi].Blocks[n-1]
			return Position{Path: Path{Page: pi, Block: n - 1}, Offset: b.Len()}
		}
	}
	return Position{}
}
