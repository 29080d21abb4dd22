package text

import "unicode"

// TokenKind classifies a segment of a paragraph.
type TokenKind int

const (
	Word TokenKind = iota
	Space
	Newline
)

func (k TokenKind) String() string {
	switch k {
	case Word:
		return "word"
	case Space:
		return "space"
	case Newline:
		return "newline"
	}
	return "unknown"
}

// Token is a maximal run of word or space runes, or a single hard line
// break. Start and End are rune offsets into the segmented string.
type Token struct {
	Kind       TokenKind
	Start, End int
}

// IsSpace reports whether r separates words. A hard line break is a space.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// Tokens segments s into words, spaces and line breaks. Unlike HTML
// whitespace handling nothing is collapsed or trimmed: the tokens cover s
// exactly, so offsets map one to one onto the source text.
func Tokens(s string) []Token {
	var (
		out  []Token
		cur  = Token{Kind: -1}
		i    int
		emit = func() {
			if cur.Kind >= 0 && cur.End > cur.Start {
				out = append(out, cur)
			}
		}
	)
	for _, r := range s {
		kind := Word
		switch {
		case r == '\n':
			kind = Newline
		case IsSpace(r):
			kind = Space
		}
		if kind != cur.Kind || kind == Newline {
			emit()
			cur = Token{Kind: kind, Start: i}
		}
		i++
		cur.End = i
	}
	emit()
	return out
}
