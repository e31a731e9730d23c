package xmldiff

import "math"

// defaultCoalesceExponent is the simplifier threshold exponent. Observed
// values in the wild range from 1.4 to 2; only output granularity depends
// on it, never coverage.
const defaultCoalesceExponent = 1.5

// simplify coalesces noisy diffs: a small unchanged run sandwiched between
// two larger changes is absorbed into the changes, so the output reads as
// few coherent regions instead of many fragments. It keeps a lookback
// window of at most three pending hunks and rewrites the tail of the
// window to a fixed point before admitting the next hunk. Total text
// coverage per side is preserved exactly.
func simplify(hunks []hunk, exponent float64) []hunk {
	if exponent == 0 {
		exponent = defaultCoalesceExponent
	}
	s := simplifier{exponent: exponent}
	for _, h := range hunks {
		s.push(h)
	}
	return s.finish()
}

type simplifier struct {
	exponent float64
	pending  []hunk
	out      []hunk
}

func (s *simplifier) push(h hunk) {
	s.pending = append(s.pending, h)
	for s.rewrite() {
	}
	for len(s.pending) > 3 {
		s.out = append(s.out, s.pending[0])
		s.pending = s.pending[1:]
	}
}

func (s *simplifier) finish() []hunk {
	s.out = append(s.out, s.pending...)
	s.pending = nil
	return s.out
}

func opposite(op Op) Op {
	if op == OpDelete {
		return OpInsert
	}
	return OpDelete
}

// rewrite applies one round of the window rules and reports whether
// anything changed.
func (s *simplifier) rewrite() bool {
	changed := false

	// Absorb a short equal run between two changes. An equal run that
	// ends at a node boundary is never absorbed: collapsing it would
	// produce a region crossing nodes the tree walk kept apart.
	if n := len(s.pending); n >= 3 {
		last, mid, third := s.pending[n-1], s.pending[n-2], s.pending[n-3]
		if last.op != OpEqual && mid.op == OpEqual {
			threshold := math.Inf(1)
			if !mid.boundary {
				threshold = math.Pow(float64(len(mid.text)-1), s.exponent)
			}
			if float64(len(third.text)+len(last.text)) > threshold {
				switch third.op {
				case last.op:
					// <DEL:a><EQ:b><DEL:c> -> <DEL:abc><INS:b>
					s.pending[n-3] = hunk{op: last.op, text: third.text + mid.text + last.text, boundary: last.boundary}
					s.pending[n-2] = hunk{op: opposite(last.op), text: mid.text, boundary: mid.boundary}
					s.pending = s.pending[:n-1]
					changed = true
				case opposite(last.op):
					// <DEL:a><EQ:b><INS:c> -> <DEL:ab><INS:bc>
					s.pending[n-3] = hunk{op: third.op, text: third.text + mid.text, boundary: mid.boundary}
					s.pending[n-2] = hunk{op: last.op, text: mid.text + last.text, boundary: last.boundary}
					s.pending = s.pending[:n-1]
					changed = true
				}
			}
		}
	}

	// Collapse alternating <DEL:a><INS:b><DEL:c> into <DEL:ac><INS:b>.
	if n := len(s.pending); n >= 3 {
		last, mid, third := s.pending[n-1], s.pending[n-2], s.pending[n-3]
		if last.op != OpEqual && third.op == last.op && mid.op == opposite(last.op) {
			s.pending[n-3] = hunk{op: third.op, text: third.text + last.text, boundary: last.boundary}
			s.pending = s.pending[:n-1]
			changed = true
		}
	}

	// Merge two adjacent runs of the same op.
	if n := len(s.pending); n >= 2 && s.pending[n-2].op == s.pending[n-1].op {
		// A boundary anywhere in the merged text still forbids
		// absorbing it, so the flags combine with OR.
		s.pending[n-2] = hunk{
			op:       s.pending[n-1].op,
			text:     s.pending[n-2].text + s.pending[n-1].text,
			boundary: s.pending[n-2].boundary || s.pending[n-1].boundary,
		}
		s.pending = s.pending[:n-1]
		changed = true
	}

	return changed
}
