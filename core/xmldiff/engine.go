package xmldiff

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op identifies the type of edit operation.
type Op int

const (
	// OpEqual means the tokens are unchanged.
	OpEqual Op = iota
	// OpDelete means tokens were removed from the left sequence.
	OpDelete
	// OpInsert means tokens were added to the right sequence.
	OpInsert
)

// String returns a string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "Equal"
	case OpDelete:
		return "Delete"
	case OpInsert:
		return "Insert"
	default:
		return "Unknown"
	}
}

// Edit is one step of an edit script: an operation and the number of
// tokens it consumes.
type Edit struct {
	Op Op
	N  int
}

// Engine computes an edit script between two token sequences. The counts
// of Delete+Equal edits must partition a completely and in order, and
// Insert+Equal likewise partition b. Implementations are swappable; the
// reconciler treats the algorithm as a black box.
type Engine interface {
	Diff(a, b []Token) ([]Edit, error)
}

// matchPatchEngine adapts sergi/go-diff's diff-match-patch to the Engine
// contract. Token IDs are mapped to distinct runes so the character-level
// algorithm effectively diffs at token granularity; the mapping never
// leaves this adapter.
type matchPatchEngine struct {
	semantic bool
}

// NewMatchPatchEngine returns the default diff engine. When semantic is
// true the edit script is passed through semantic cleanup, which coalesces
// small scattered changes at the cost of a minimally-sized script.
func NewMatchPatchEngine(semantic bool) Engine {
	return &matchPatchEngine{semantic: semantic}
}

func (e *matchPatchEngine) Diff(a, b []Token) ([]Edit, error) {
	sa, err := tokenString(a)
	if err != nil {
		return nil, err
	}
	sb, err := tokenString(b)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMain(sa, sb, false)
	if e.semantic {
		diffs = dmp.DiffCleanupSemantic(diffs)
	}

	edits := make([]Edit, 0, len(diffs))
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = OpEqual
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		default:
			return nil, fmt.Errorf("%w: %v", ErrBadDiffOp, d.Type)
		}
		edits = append(edits, Edit{Op: op, N: utf8.RuneCountInString(d.Text)})
	}
	return edits, nil
}

// tokenString encodes token IDs as a string of distinct runes, skipping
// the surrogate block. Documents with more distinct tokens than assignable
// runes cannot use this engine.
func tokenString(toks []Token) (string, error) {
	var sb strings.Builder
	sb.Grow(len(toks))
	for _, t := range toks {
		r := rune(t) + 1 // reserve NUL
		if r >= 0xD800 {
			r += 0x800
		}
		if r > unicode.MaxRune {
			return "", fmt.Errorf("%w: %d distinct tokens", ErrVocabulary, int(t))
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
