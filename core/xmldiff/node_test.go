package xmldiff

import (
	"reflect"
	"testing"
)

// TestTreeBuild verifies tree construction and parent links.
func TestTreeBuild(t *testing.T) {
	tr := NewTree("doc")
	a := tr.AddChild(tr.Root(), "a")
	b := tr.AddChild(tr.Root(), "b")
	c := tr.AddChild(a, "c")

	if got := tr.Children(tr.Root()); !reflect.DeepEqual(got, []NodeID{a, b}) {
		t.Errorf("root children = %v, want [%d %d]", got, a, b)
	}
	if tr.Parent(c) != a {
		t.Errorf("Parent(c) = %d, want %d", tr.Parent(c), a)
	}
	if tr.Parent(tr.Root()) != InvalidNode {
		t.Errorf("Parent(root) = %d, want InvalidNode", tr.Parent(tr.Root()))
	}
	if tr.Len() != 4 {
		t.Errorf("Len = %d, want 4", tr.Len())
	}
}

// TestInsertFirstChild verifies insertion at the head of the child list.
func TestInsertFirstChild(t *testing.T) {
	tr := NewTree("doc")
	a := tr.AddChild(tr.Root(), "a")
	b := tr.New("b")
	tr.InsertFirstChild(tr.Root(), b)

	if got := tr.Children(tr.Root()); !reflect.DeepEqual(got, []NodeID{b, a}) {
		t.Errorf("children = %v, want [%d %d]", got, b, a)
	}
	if tr.Parent(b) != tr.Root() {
		t.Errorf("Parent(b) = %d, want root", tr.Parent(b))
	}
}

// TestInsertAfter verifies sibling insertion in the middle and at the end.
func TestInsertAfter(t *testing.T) {
	tr := NewTree("doc")
	a := tr.AddChild(tr.Root(), "a")
	c := tr.AddChild(tr.Root(), "c")
	b := tr.New("b")
	tr.InsertAfter(a, b)
	d := tr.New("d")
	tr.InsertAfter(c, d)

	if got := tr.Children(tr.Root()); !reflect.DeepEqual(got, []NodeID{a, b, c, d}) {
		t.Errorf("children = %v, want [%d %d %d %d]", got, a, b, c, d)
	}
}

// TestRemoveAndReplaceChild verifies detachment and in-place replacement.
func TestRemoveAndReplaceChild(t *testing.T) {
	tr := NewTree("doc")
	a := tr.AddChild(tr.Root(), "a")
	b := tr.AddChild(tr.Root(), "b")

	tr.RemoveChild(tr.Root(), a)
	if tr.Parent(a) != InvalidNode {
		t.Errorf("Parent(a) = %d after removal, want InvalidNode", tr.Parent(a))
	}
	if got := tr.Children(tr.Root()); !reflect.DeepEqual(got, []NodeID{b}) {
		t.Errorf("children = %v, want [%d]", got, b)
	}

	r := tr.New("r")
	tr.ReplaceChild(tr.Root(), b, r)
	if got := tr.Children(tr.Root()); !reflect.DeepEqual(got, []NodeID{r}) {
		t.Errorf("children = %v, want [%d]", got, r)
	}
	if tr.Parent(b) != InvalidNode {
		t.Errorf("Parent(b) = %d after replacement, want InvalidNode", tr.Parent(b))
	}
}

// TestCopySubtree verifies deep copies carry tags, attributes, text and
// roles across trees without sharing state.
func TestCopySubtree(t *testing.T) {
	src := NewTree("doc")
	a := src.AddChild(src.Root(), "a")
	src.Node(a).Text = "hello"
	src.Node(a).Attr = []Attr{{Name: "id", Value: "x"}}
	b := src.AddChild(a, "b")
	src.Node(b).Tail = "tail"
	src.Node(b).role = RoleAdded

	dst := NewTree("doc")
	cp := dst.copySubtree(src, a)

	n := dst.Node(cp)
	if n.Tag != "a" || n.Text != "hello" {
		t.Errorf("copy = %+v, want tag a text hello", n)
	}
	if !reflect.DeepEqual(n.Attr, []Attr{{Name: "id", Value: "x"}}) {
		t.Errorf("copy attrs = %v", n.Attr)
	}
	kids := dst.Children(cp)
	if len(kids) != 1 {
		t.Fatalf("copy children = %v, want one", kids)
	}
	child := dst.Node(kids[0])
	if child.Tag != "b" || child.Tail != "tail" || child.Role() != RoleAdded {
		t.Errorf("copied child = %+v, want tag b tail %q role added", child, "tail")
	}

	// Mutating the copy must not touch the source.
	n.Attr[0].Value = "y"
	if src.Node(a).Attr[0].Value != "x" {
		t.Error("copy shares attribute storage with source")
	}
}

// TestAppendContent verifies leading text lands on the destination's Text
// when it has no children and on the last child's Tail when it does.
func TestAppendContent(t *testing.T) {
	src := NewTree("doc")
	s := src.AddChild(src.Root(), "s")
	src.Node(s).Text = "lead "
	src.AddChild(s, "em")

	dst := NewTree("doc")
	w := dst.AddChild(dst.Root(), "ins")

	dst.appendContent(w, src, s)
	if got := dst.Node(w).Text; got != "lead " {
		t.Errorf("Text = %q, want %q", got, "lead ")
	}
	if kids := dst.Children(w); len(kids) != 1 || dst.Node(kids[0]).Tag != "em" {
		t.Fatalf("children = %v, want one em element", dst.Children(w))
	}

	// Second append: text attaches to the existing last child's tail.
	dst.appendContent(w, src, s)
	kids := dst.Children(w)
	if len(kids) != 2 {
		t.Fatalf("children = %v, want two", kids)
	}
	if got := dst.Node(kids[0]).Tail; got != "lead " {
		t.Errorf("first child Tail = %q, want %q", got, "lead ")
	}
}

// TestRoleString covers the Role names used in logs and errors.
func TestRoleString(t *testing.T) {
	for _, tt := range []struct {
		role Role
		want string
	}{
		{RoleNone, "none"},
		{RoleRemoved, "removed"},
		{RoleAdded, "added"},
	} {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}
