package xmldiff

import "testing"

// TestFlattenSingleNode verifies text and span production for a leaf
// document.
func TestFlattenSingleNode(t *testing.T) {
	tr := NewTree("p")
	tr.Node(tr.Root()).Text = "Hello world"

	d := Flatten(tr)
	if got := d.Text(); got != "Hello world" {
		t.Errorf("Text() = %q, want %q", got, "Hello world")
	}
	if d.spans.len() != 1 {
		t.Fatalf("spans = %d, want 1", d.spans.len())
	}
	sp := d.spans.at(0)
	if sp.start != 0 || sp.length != len("Hello world") || sp.node != tr.Root() || sp.seg != segText {
		t.Errorf("span = %+v", sp)
	}
}

// TestFlattenDocumentOrder verifies leading text, children and trailing
// text are flattened in document order with one span each.
func TestFlattenDocumentOrder(t *testing.T) {
	tr := NewTree("p")
	tr.Node(tr.Root()).Text = "one "
	b := tr.AddChild(tr.Root(), "b")
	tr.Node(b).Text = "two"
	tr.Node(b).Tail = " three"

	d := Flatten(tr)
	if got := d.Text(); got != "one two three" {
		t.Errorf("Text() = %q, want %q", got, "one two three")
	}
	if d.spans.len() != 3 {
		t.Fatalf("spans = %d, want 3", d.spans.len())
	}
	wantStarts := []int{0, 4, 7}
	for i, want := range wantStarts {
		if got := d.spans.at(i).start; got != want {
			t.Errorf("span %d start = %d, want %d", i, got, want)
		}
	}
	if sp := d.spans.at(2); sp.node != b || sp.seg != segTail {
		t.Errorf("span 2 = %+v, want tail of <b>", sp)
	}
}

// TestFlattenSkipsWhitespace verifies whitespace-only runs produce no
// span: they are not semantically meaningful and are never diffed.
func TestFlattenSkipsWhitespace(t *testing.T) {
	tr := NewTree("p")
	tr.Node(tr.Root()).Text = "\n  "
	b := tr.AddChild(tr.Root(), "b")
	tr.Node(b).Text = "kept"
	tr.Node(b).Tail = "\t"

	d := Flatten(tr)
	if got := d.Text(); got != "kept" {
		t.Errorf("Text() = %q, want %q", got, "kept")
	}
	if d.spans.len() != 1 {
		t.Errorf("spans = %d, want 1", d.spans.len())
	}
}

// TestFlattenEmptyDocument verifies the synthetic zero-length span that
// anchors merge insertions into an empty document.
func TestFlattenEmptyDocument(t *testing.T) {
	tr := NewTree("p")
	d := Flatten(tr)
	if d.spans.len() != 1 {
		t.Fatalf("spans = %d, want 1 synthetic span", d.spans.len())
	}
	sp := d.spans.at(0)
	if sp.start != 0 || sp.length != 0 || sp.node != tr.Root() || sp.seg != segText {
		t.Errorf("synthetic span = %+v", sp)
	}
	if d.Text() != "" {
		t.Errorf("Text() = %q, want empty", d.Text())
	}
}

// TestSpanText verifies buffered span text extraction around the
// sentinels.
func TestSpanText(t *testing.T) {
	tr := NewTree("p")
	tr.Node(tr.Root()).Text = "ab"
	b := tr.AddChild(tr.Root(), "b")
	tr.Node(b).Text = "cd"

	d := Flatten(tr)
	if got := d.spanText(0); got != "ab" {
		t.Errorf("spanText(0) = %q, want %q", got, "ab")
	}
	if got := d.spanText(1); got != "cd" {
		t.Errorf("spanText(1) = %q, want %q", got, "cd")
	}
}
