package xmldiff

import (
	"regexp"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
)

// Token is an opaque symbol in the diff alphabet. Identical words map to
// identical tokens across both documents.
type Token int

// sentinelToken marks a node boundary in a token sequence.
const sentinelToken Token = 0

// DefaultWordSeparator splits text on whitespace runs or a single
// non-word character, so a changed word is treated atomically by the
// diff.
var DefaultWordSeparator = regexp.MustCompile(`\s+|[^\s\w]`)

// splitFunc cuts sentinel-free text into tokens. Separators are tokens
// too; the pieces concatenate back to the input exactly.
type splitFunc func(text string) []string

// regexpSplitter keeps separator matches as their own tokens, mirroring a
// delimiter-capturing split.
func regexpSplitter(sep *regexp.Regexp) splitFunc {
	return func(text string) []string {
		var out []string
		last := 0
		for _, m := range sep.FindAllStringIndex(text, -1) {
			if m[0] > last {
				out = append(out, text[last:m[0]])
			}
			if m[1] > m[0] {
				out = append(out, text[m[0]:m[1]])
			}
			last = m[1]
		}
		if last < len(text) {
			out = append(out, text[last:])
		}
		return out
	}
}

// unicodeSplitter segments text into words per UAX #29. The segmenter
// already emits whitespace and punctuation runs as their own segments, so
// the pieces cover the input completely.
func unicodeSplitter() splitFunc {
	return func(text string) []string {
		var out []string
		iter := words.FromString(text)
		for iter.Next() {
			out = append(out, iter.Value())
		}
		return out
	}
}

// vocabulary lazily assigns surrogate symbols to distinct words. One
// instance is shared by both documents of a pass so equal words encode to
// equal tokens. Token 0 is reserved for the node-boundary sentinel.
type vocabulary struct {
	ids   map[string]Token
	words []string
}

func newVocabulary() *vocabulary {
	return &vocabulary{
		ids:   map[string]Token{string(sentinel): sentinelToken},
		words: []string{string(sentinel)},
	}
}

func (v *vocabulary) id(word string) Token {
	if t, ok := v.ids[word]; ok {
		return t
	}
	t := Token(len(v.words))
	v.ids[word] = t
	v.words = append(v.words, word)
	return t
}

func (v *vocabulary) word(t Token) string { return v.words[t] }

// encode maps a flattened document to its token sequence. Every span's
// text becomes word tokens followed by one sentinel token. A span whose
// text contains the reserved sentinel code point is a document we cannot
// represent, reported as ErrReservedRune.
func encode(doc *FlatDoc, v *vocabulary, split splitFunc) ([]Token, error) {
	var out []Token
	for i := 0; i < doc.spans.len(); i++ {
		text := doc.spanText(i)
		if strings.ContainsRune(text, sentinel) {
			return nil, ErrReservedRune
		}
		for _, w := range split(text) {
			out = append(out, v.id(w))
		}
		out = append(out, sentinelToken)
	}
	return out, nil
}

// hunk is one decoded diff entry. Its text never contains a sentinel;
// boundary records that a node boundary followed the text (or, after
// hunks merge, fell inside it), which the simplifier uses to refuse
// coalescing across nodes.
type hunk struct {
	op       Op
	text     string
	boundary bool
}

// decode maps an edit script over the encoded sequences back to text
// hunks, splitting entries at sentinel tokens so no hunk crosses a node
// boundary.
func decode(edits []Edit, a, b []Token, v *vocabulary) ([]hunk, error) {
	var hunks []hunk
	var sb strings.Builder
	i1, i2 := 0, 0

	flush := func(op Op, boundary bool) {
		if sb.Len() == 0 {
			// A boundary with nothing pending closes the previous hunk.
			if boundary && len(hunks) > 0 {
				hunks[len(hunks)-1].boundary = true
			}
			return
		}
		hunks = append(hunks, hunk{op: op, text: sb.String(), boundary: boundary})
		sb.Reset()
	}

	for _, e := range edits {
		if e.N < 0 {
			return nil, ErrBadDiffOp
		}
		var run []Token
		switch e.Op {
		case OpDelete:
			if i1+e.N > len(a) {
				return nil, ErrBadDiffOp
			}
			run = a[i1 : i1+e.N]
			i1 += e.N
		case OpInsert:
			if i2+e.N > len(b) {
				return nil, ErrBadDiffOp
			}
			run = b[i2 : i2+e.N]
			i2 += e.N
		case OpEqual:
			if i1+e.N > len(a) || i2+e.N > len(b) {
				return nil, ErrBadDiffOp
			}
			run = b[i2 : i2+e.N]
			i1 += e.N
			i2 += e.N
		default:
			return nil, ErrBadDiffOp
		}
		for _, tk := range run {
			if tk == sentinelToken {
				flush(e.Op, true)
				continue
			}
			sb.WriteString(v.word(tk))
		}
		flush(e.Op, false)
	}
	if i1 != len(a) || i2 != len(b) {
		return nil, ErrBadDiffOp
	}
	return hunks, nil
}
