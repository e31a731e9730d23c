package xmldiff

import "fmt"

// WrapperFactory creates the annotation elements spliced into a tree. The
// node must be allocated detached in t; the reinjector attaches it and
// records its role.
type WrapperFactory interface {
	Create(t *Tree, role Role) NodeID
}

// TagFactory is the default WrapperFactory: it creates empty elements
// named Removed or Added according to the role.
type TagFactory struct {
	Removed string
	Added   string
}

// Create allocates a detached annotation element.
func (f TagFactory) Create(t *Tree, role Role) NodeID {
	tag := f.Removed
	if role == RoleAdded {
		tag = f.Added
	}
	return t.New(tag)
}

// createFunc is the internal wrapper constructor; merge insertion swaps in
// a variant that pre-populates the node with copied content.
type createFunc func(t *Tree, role Role) (NodeID, error)

// markRange wraps the flattened-text range [offset, offset+length) in
// annotation nodes, one per span it touches, mutating the tree. Spans
// wholly before the range are permanently discarded, except that the
// final span is always retained (even at zero length) to anchor
// end-of-document insertions. A zero-length range performs a pure
// insertion at a span start. The wrappers created are returned in
// document order for use by merge propagation.
func (d *FlatDoc) markRange(offset, length int, role Role, create createFunc) ([]NodeID, error) {
	for d.spans.len() > 1 && d.spans.front().end() <= offset {
		d.spans.popFront()
	}

	var created []NodeID
	for d.spans.len() > 0 {
		front := d.spans.front()
		var hit bool
		if length == 0 {
			// Pure insertion. Spans are contiguous, so after the drop
			// loop the front span covers the offset; splice into it even
			// mid-span. The retained final span additionally anchors
			// insertions up to the end of the document.
			hit = front.start <= offset && offset <= front.end()
		} else {
			hit = front.start < offset+length && offset < front.end()
		}
		if !hit {
			break
		}

		w, err := d.wrapSpan(front, offset, length, role, create)
		if err != nil {
			return nil, err
		}
		created = append(created, w)

		// wrapSpan advanced the span past the consumed text, so the
		// original end is front.end() still.
		if front.end() <= offset+length {
			sole := d.spans.len() == 1
			if !sole {
				d.spans.popFront()
			}
			d.normalize(w)
			if sole {
				break
			}
			continue
		}
		// The range ended inside this span; later regions may still
		// address the remainder.
		break
	}

	if len(created) == 0 && length > 0 {
		return nil, &RegionError{Offset: offset, Length: length, Err: ErrUnlocatable}
	}
	return created, nil
}

// wrapSpan splices a wrapper around the intersection of the range and the
// front span, then rewrites the span in place to describe the text left
// after the wrapper (now the wrapper's own trailing text), so later
// regions keep resolving against the mutated tree.
func (d *FlatDoc) wrapSpan(sp *span, offset, length int, role Role, create createFunc) (NodeID, error) {
	rel := offset - sp.start
	if rel < 0 {
		length += rel
		rel = 0
	}
	inside := length
	if rem := sp.length - rel; inside > rem {
		inside = rem
	}

	t := d.tree
	w, err := create(t, role)
	if err != nil {
		return InvalidNode, err
	}
	t.nodes[w].role = role

	node := t.Node(sp.node)
	text := node.Text
	if sp.seg == segTail {
		text = node.Tail
	}
	if len(text) != sp.length {
		return InvalidNode, fmt.Errorf("span desynchronized at %d: %w", sp.start, ErrUnlocatable)
	}

	wn := t.Node(w)
	if inside > 0 {
		// For a zero-length merge insertion the caller pre-populated the
		// wrapper; don't overwrite its content.
		wn.Text = text[rel : rel+inside]
	}
	wn.Tail = text[rel+inside:]

	if sp.seg == segText {
		node.Text = text[:rel]
		t.InsertFirstChild(sp.node, w)
	} else {
		node.Tail = text[:rel]
		t.InsertAfter(sp.node, w)
	}

	sp.start += rel + inside
	sp.length -= rel + inside
	sp.node = w
	sp.seg = segTail
	return w, nil
}

// insertContent performs a merge-mode insertion: a zero-length mark whose
// wrapper is pre-populated with deep copies of the source wrappers'
// content. The source wrappers come from the markRange call on the other
// document; a role disagreement between source and destination is an
// internal inconsistency.
func (d *FlatDoc) insertContent(offset int, src *Tree, content []NodeID, role Role, fac WrapperFactory) error {
	create := func(t *Tree, r Role) (NodeID, error) {
		w := fac.Create(t, r)
		for _, s := range content {
			if got := src.Node(s).Role(); got != r {
				return InvalidNode, fmt.Errorf("copying %v content into %v wrapper: %w", got, r, ErrRoleMismatch)
			}
			t.appendContent(w, src, s)
		}
		return w, nil
	}
	_, err := d.markRange(offset, 0, role, create)
	return err
}

// normalize reduces the markup around a wrapper that fully consumed a
// span: adjacent same-kind wrappers merge, and a wrapper subsuming its
// whole parent is hoisted over it. Both rewrites preserve the flattened
// text exactly; only tree shape changes.
func (d *FlatDoc) normalize(w NodeID) {
	for {
		if d.mergeWithPrevious(w) {
			continue
		}
		if d.percolateUp(w) {
			continue
		}
		return
	}
}

// mergeWithPrevious folds the wrapper's preceding sibling into the front
// of the wrapper when both mark the same kind of change and nothing (no
// trailing text) separates them.
func (d *FlatDoc) mergeWithPrevious(w NodeID) bool {
	t := d.tree
	parent := t.Parent(w)
	if parent == InvalidNode {
		return false
	}
	idx := t.childIndex(parent, w)
	if idx == 0 {
		return false
	}
	prev := t.Children(parent)[idx-1]
	pn := t.Node(prev)
	wn := t.Node(w)
	if pn.role == RoleNone || pn.role != wn.role || pn.Tag != wn.Tag || pn.Tail != "" {
		return false
	}

	// Document order inside the merged wrapper: prev's text, prev's
	// children, then w's text and children. When prev has children, w's
	// leading text reattaches as the last moved child's trailing text.
	moved := append([]NodeID(nil), t.Children(prev)...)
	if len(moved) > 0 {
		t.Node(moved[len(moved)-1]).Tail += wn.Text
		wn.Text = pn.Text
	} else {
		wn.Text = pn.Text + wn.Text
	}
	// The emptied wrapper may still sit in a merge content list; leaving
	// text behind would duplicate it on propagation.
	pn.Text = ""
	pn.children = nil
	wn.children = append(moved, wn.children...)
	for _, c := range moved {
		t.nodes[c].parent = w
	}
	t.RemoveChild(parent, prev)
	return true
}

// percolateUp hoists the wrapper over a parent it fully subsumes: the
// wrapper takes the parent's place (and trailing text) in the grandparent
// and the emptied parent is nested inside the wrapper. Requires that the
// wrapper is the parent's only child with no text outside it, and that
// reattaching the parent's trailing text cannot orphan a pending span.
func (d *FlatDoc) percolateUp(w NodeID) bool {
	t := d.tree
	parent := t.Parent(w)
	if parent == InvalidNode || parent == t.Root() {
		return false
	}
	wn := t.Node(w)
	pn := t.Node(parent)
	if len(pn.children) != 1 || pn.children[0] != w {
		return false
	}
	if wn.Tail != "" || pn.Text != "" {
		return false
	}
	retarget := false
	if pn.Tail != "" {
		if d.spans.len() == 0 {
			return false
		}
		f := d.spans.front()
		if f.node != parent || f.seg != segTail || f.length != len(pn.Tail) {
			return false
		}
		retarget = true
	}
	grand := t.Parent(parent)
	if grand == InvalidNode {
		return false
	}

	pn.children = nil
	t.ReplaceChild(grand, parent, w)
	t.AppendChild(w, parent)
	wn.Tail = pn.Tail
	pn.Tail = ""
	if retarget {
		f := d.spans.front()
		f.node = w
		f.seg = segTail
	}
	return true
}
