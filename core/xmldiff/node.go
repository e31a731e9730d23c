package xmldiff

// NodeID indexes a node within a Tree's arena. Node identity is stable for
// the life of the tree; removed nodes keep their slot but are detached.
type NodeID int

// InvalidNode is the parent of the root and the zero of "no node".
const InvalidNode NodeID = -1

// Role identifies which side of a change an annotation wrapper marks.
type Role int

const (
	// RoleNone marks ordinary document nodes.
	RoleNone Role = iota
	// RoleRemoved marks content present only in the left document.
	RoleRemoved
	// RoleAdded marks content present only in the right document.
	RoleAdded
)

// String returns a string representation of the Role.
func (r Role) String() string {
	switch r {
	case RoleRemoved:
		return "removed"
	case RoleAdded:
		return "added"
	default:
		return "none"
	}
}

// Attr is an element attribute, carried for round-tripping only.
// Attributes are never diffed.
type Attr struct {
	Name  string
	Value string
}

// Node is an element in a Tree. Text is the leading text (before the first
// child); Tail is the trailing text (after this node's end, before the next
// sibling). Fields are mutable through the pointer returned by Tree.Node.
type Node struct {
	Tag  string
	Attr []Attr
	Text string
	Tail string

	parent   NodeID
	children []NodeID
	role     Role
}

// Role reports the annotation role the node was created with, or RoleNone
// for ordinary document nodes.
func (n *Node) Role() Role { return n.role }

// Tree is an arena of nodes with parent links kept as indices. Index 0 is
// always the root element.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree holding a single root element.
func NewTree(rootTag string) *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, Node{Tag: rootTag, parent: InvalidNode})
	return t
}

// Root returns the root element's ID.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of node slots in the arena, detached slots
// included.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a pointer into the arena. The pointer is invalidated by the
// next node allocation.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Parent returns id's parent, or InvalidNode for the root and detached
// nodes.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns id's child list. The returned slice is owned by the
// tree and must not be retained across mutations.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

// New allocates a detached element.
func (t *Tree) New(tag string) NodeID {
	t.nodes = append(t.nodes, Node{Tag: tag, parent: InvalidNode})
	return NodeID(len(t.nodes) - 1)
}

// AddChild allocates an element and appends it to parent's children.
func (t *Tree) AddChild(parent NodeID, tag string) NodeID {
	id := t.New(tag)
	t.AppendChild(parent, id)
	return id
}

// AppendChild attaches child as parent's last child.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.nodes[child].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, child)
}

// InsertFirstChild attaches child as parent's first child.
func (t *Tree) InsertFirstChild(parent, child NodeID) {
	t.nodes[child].parent = parent
	p := &t.nodes[parent]
	p.children = append(p.children, InvalidNode)
	copy(p.children[1:], p.children)
	p.children[0] = child
}

// InsertAfter attaches node as the sibling immediately following sibling.
func (t *Tree) InsertAfter(sibling, node NodeID) {
	parent := t.nodes[sibling].parent
	idx := t.childIndex(parent, sibling)
	p := &t.nodes[parent]
	p.children = append(p.children, InvalidNode)
	copy(p.children[idx+2:], p.children[idx+1:])
	p.children[idx+1] = node
	t.nodes[node].parent = parent
}

// RemoveChild detaches child from parent. The node remains allocated in
// the arena.
func (t *Tree) RemoveChild(parent, child NodeID) {
	idx := t.childIndex(parent, child)
	p := &t.nodes[parent]
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	t.nodes[child].parent = InvalidNode
}

// ReplaceChild puts repl into old's position under parent and detaches old.
func (t *Tree) ReplaceChild(parent, old, repl NodeID) {
	idx := t.childIndex(parent, old)
	t.nodes[parent].children[idx] = repl
	t.nodes[repl].parent = parent
	t.nodes[old].parent = InvalidNode
}

func (t *Tree) childIndex(parent, child NodeID) int {
	for i, c := range t.nodes[parent].children {
		if c == child {
			return i
		}
	}
	// Arena invariant broken; a child always appears in its parent's list.
	panic("xmldiff: node is not a child of its parent")
}

// copySubtree deep-copies src's node id (tag, attributes, text, tail, role
// and all descendants) into t and returns the detached copy.
func (t *Tree) copySubtree(src *Tree, id NodeID) NodeID {
	sn := src.Node(id)
	cp := t.New(sn.Tag)
	n := t.Node(cp)
	n.Attr = append([]Attr(nil), sn.Attr...)
	n.Text = sn.Text
	n.Tail = sn.Tail
	n.role = sn.role
	for _, c := range src.Children(id) {
		t.AppendChild(cp, t.copySubtree(src, c))
	}
	return cp
}

// appendContent appends src's node content (leading text and children, but
// not its tail) to dst, preserving document order.
func (t *Tree) appendContent(dst NodeID, src *Tree, id NodeID) {
	sn := src.Node(id)
	if sn.Text != "" {
		if kids := t.Children(dst); len(kids) > 0 {
			t.Node(kids[len(kids)-1]).Tail += sn.Text
		} else {
			t.Node(dst).Text += sn.Text
		}
	}
	for _, c := range src.Children(id) {
		t.AppendChild(dst, t.copySubtree(src, c))
	}
}
