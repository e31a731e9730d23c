package xmldiff

import "strings"

// sentinel is appended after every span's text in the flattened buffer.
// It keeps the last word of one node from gluing onto the first word of
// the next when elements are written without whitespace between them. It
// is a private-use code point and must never occur in document text.
const sentinel = '\ue000'

// segment identifies which text slot of a node a span describes.
type segment int

const (
	segText segment = iota // leading text, before the first child
	segTail                // trailing text, after the node's end
)

// span maps a range of the flattened text back to a node's text segment.
// Offsets are in sentinel-free byte coordinates.
type span struct {
	start  int
	length int
	node   NodeID
	seg    segment
}

func (s span) end() int { return s.start + s.length }

// spanDeque is a list of value-semantic span records, drained from the
// front as change regions are replayed onto the tree.
type spanDeque struct {
	recs []span
}

func (d *spanDeque) len() int      { return len(d.recs) }
func (d *spanDeque) front() *span  { return &d.recs[0] }
func (d *spanDeque) popFront()     { d.recs = d.recs[1:] }
func (d *spanDeque) push(s span)   { d.recs = append(d.recs, s) }
func (d *spanDeque) at(i int) span { return d.recs[i] }

// FlatDoc is one document's flattened form: the text buffer (with a
// sentinel after every span) plus the ordered span list. It is the unit
// of state a reconciliation pass drains while annotating the tree.
type FlatDoc struct {
	tree  *Tree
	buf   string
	spans spanDeque
}

// Flatten walks the tree in document order and produces its flattened
// form. Empty and whitespace-only text runs carry no meaning for the
// comparison and yield no span. A document with no spans at all gets one
// zero-length span anchored on the root's leading text, so that merge
// insertions into an empty document still have a target.
func Flatten(t *Tree) *FlatDoc {
	f := &flattener{doc: &FlatDoc{tree: t}}
	f.walk(t.Root())
	f.doc.buf = f.buf.String()
	if f.doc.spans.len() == 0 {
		f.doc.spans.push(span{start: 0, length: 0, node: t.Root(), seg: segText})
	}
	return f.doc
}

// Tree returns the tree this document was flattened from.
func (d *FlatDoc) Tree() *Tree { return d.tree }

// Text returns the flattened text with the sentinels removed. This is the
// text the diff actually runs over and the coordinate space of all change
// regions.
func (d *FlatDoc) Text() string {
	return strings.ReplaceAll(d.buf, string(sentinel), "")
}

// sentinelLen is the UTF-8 width of the sentinel rune.
const sentinelLen = len(string(sentinel))

// spanText returns the buffered text of the i-th span. Valid only before
// reinjection starts mutating the deque: span i is preceded in the buffer
// by exactly i sentinels.
func (d *FlatDoc) spanText(i int) string {
	sp := d.spans.at(i)
	off := sp.start + i*sentinelLen
	return d.buf[off : off+sp.length]
}

type flattener struct {
	doc       *FlatDoc
	buf       strings.Builder
	charcount int
}

func (f *flattener) walk(id NodeID) {
	n := f.doc.tree.Node(id)
	f.append(n.Text, id, segText)
	for _, c := range f.doc.tree.Children(id) {
		f.walk(c)
	}
	f.append(n.Tail, id, segTail)
}

func (f *flattener) append(text string, id NodeID, seg segment) {
	if text == "" || strings.TrimSpace(text) == "" {
		return
	}
	f.buf.WriteString(text)
	f.buf.WriteRune(sentinel)
	f.doc.spans.push(span{start: f.charcount, length: len(text), node: id, seg: seg})
	f.charcount += len(text)
}
