package xmldiff

import (
	"errors"
	"testing"
	"unicode"
)

func toks(ids ...int) []Token {
	out := make([]Token, len(ids))
	for i, id := range ids {
		out[i] = Token(id)
	}
	return out
}

// checkPartition verifies an edit script's counts partition both inputs.
func checkPartition(t *testing.T, edits []Edit, na, nb int) {
	t.Helper()
	var ca, cb int
	for _, e := range edits {
		if e.N < 0 {
			t.Fatalf("negative count in %+v", e)
		}
		if e.Op == OpEqual || e.Op == OpDelete {
			ca += e.N
		}
		if e.Op == OpEqual || e.Op == OpInsert {
			cb += e.N
		}
	}
	if ca != na || cb != nb {
		t.Fatalf("edits consume %d/%d tokens, want %d/%d: %+v", ca, cb, na, nb, edits)
	}
}

// TestEngineEqualSequences verifies identical inputs produce one Equal
// edit covering everything.
func TestEngineEqualSequences(t *testing.T) {
	e := NewMatchPatchEngine(false)
	a := toks(1, 2, 3, 4)

	edits, err := e.Diff(a, a)
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 1 || edits[0].Op != OpEqual || edits[0].N != 4 {
		t.Fatalf("edits = %+v, want one Equal of 4", edits)
	}
}

// TestEngineDisjointSequences verifies inputs with no common tokens are
// a full delete plus a full insert.
func TestEngineDisjointSequences(t *testing.T) {
	e := NewMatchPatchEngine(false)
	a := toks(1, 2)
	b := toks(3, 4)

	edits, err := e.Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, edits, len(a), len(b))
	for _, ed := range edits {
		if ed.Op == OpEqual && ed.N > 0 {
			t.Fatalf("unexpected Equal in %+v", edits)
		}
	}
}

// TestEnginePartition verifies the partition contract on an overlapping
// input, with and without semantic cleanup.
func TestEnginePartition(t *testing.T) {
	a := toks(1, 2, 3, 4, 5, 6)
	b := toks(1, 9, 3, 4, 8, 6, 7)
	for _, semantic := range []bool{false, true} {
		edits, err := NewMatchPatchEngine(semantic).Diff(a, b)
		if err != nil {
			t.Fatal(err)
		}
		checkPartition(t, edits, len(a), len(b))
	}
}

// TestEngineEmptySides verifies empty inputs on either side.
func TestEngineEmptySides(t *testing.T) {
	e := NewMatchPatchEngine(false)

	edits, err := e.Diff(nil, toks(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, edits, 0, 2)

	edits, err = e.Diff(toks(1, 2), nil)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, edits, 2, 0)
}

// TestTokenStringDistinct verifies the rune mapping is injective over the
// surrogate gap and rejects overflow.
func TestTokenStringDistinct(t *testing.T) {
	ids := []int{0, 1, 0xD7FE, 0xD7FF, 0xD800, 0xD801}
	s, err := tokenString(toks(ids...))
	if err != nil {
		t.Fatal(err)
	}
	seen := map[rune]bool{}
	for _, r := range s {
		if r == 0 || (r >= 0xD800 && r < 0xE000) {
			t.Errorf("mapped rune %U is reserved or a surrogate", r)
		}
		if seen[r] {
			t.Errorf("rune %U assigned twice", r)
		}
		seen[r] = true
	}
	if len(seen) != len(ids) {
		t.Errorf("got %d distinct runes, want %d", len(seen), len(ids))
	}

	if _, err := tokenString(toks(int(unicode.MaxRune))); !errors.Is(err, ErrVocabulary) {
		t.Errorf("overflow err = %v, want ErrVocabulary", err)
	}
}
