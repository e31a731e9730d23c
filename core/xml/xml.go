// Package xml parses XML documents into diffable trees and serializes
// them back. It is the boundary collaborator of core/xmldiff: the engine
// only ever sees pre-parsed trees.
//
// Security Notes:
//   - XXE (External Entity) attacks are mitigated by the xmlquery parser,
//     which uses Go's xml.Decoder and does not fetch external entities.
package xml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/xmldiff/core/encoding"
	"github.com/FocuswithJustin/xmldiff/core/xmldiff"
)

// Document is a parsed XML document together with its diffable tree. The
// tree is the mutable view the reconciler annotates; Serialize renders it
// back to markup.
type Document struct {
	root *xmlquery.Node
	tree *xmldiff.Tree
}

// Parse parses XML data and builds the diffable tree rooted at the
// document element. Comments and processing instructions are dropped;
// text layout inside elements is preserved byte for byte.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	elem := firstElement(root)
	if elem == nil {
		return nil, fmt.Errorf("parsing XML: no document element")
	}
	return &Document{root: elem, tree: buildTree(elem)}, nil
}

// Tree returns the document's diffable tree.
func (d *Document) Tree() *xmldiff.Tree { return d.tree }

// Select returns a new Document rooted at the first element matching the
// XPath expression. The returned document has its own tree; annotating it
// does not touch the receiver's tree.
func (d *Document) Select(expr string) (*Document, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil || node.Type != xmlquery.ElementNode {
		return nil, fmt.Errorf("xpath %q: no matching element", expr)
	}
	return &Document{root: node, tree: buildTree(node)}, nil
}

// Serialize renders a tree as XML. Only element structure, attributes and
// text survive; that is everything the diffable tree carries.
func Serialize(t *xmldiff.Tree) []byte {
	var sb strings.Builder
	writeNode(&sb, t, t.Root())
	return []byte(sb.String())
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func tagName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// buildTree converts an xmlquery element into an arena tree. xmlquery
// keeps text as child nodes; the diffable tree wants lxml-style leading
// text on the element and trailing text on the preceding sibling, so text
// runs are folded onto whichever node they follow.
func buildTree(elem *xmlquery.Node) *xmldiff.Tree {
	t := xmldiff.NewTree(tagName(elem))
	setAttrs(t, t.Root(), elem)
	buildChildren(t, t.Root(), elem)
	return t
}

func buildChildren(t *xmldiff.Tree, id xmldiff.NodeID, x *xmlquery.Node) {
	last := xmldiff.InvalidNode
	for c := x.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if last != xmldiff.InvalidNode {
				t.Node(last).Tail += c.Data
			} else {
				t.Node(id).Text += c.Data
			}
		case xmlquery.ElementNode:
			child := t.AddChild(id, tagName(c))
			setAttrs(t, child, c)
			buildChildren(t, child, c)
			last = child
		}
	}
}

func setAttrs(t *xmldiff.Tree, id xmldiff.NodeID, x *xmlquery.Node) {
	n := t.Node(id)
	for _, a := range x.Attr {
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + a.Name.Local
		}
		n.Attr = append(n.Attr, xmldiff.Attr{Name: name, Value: a.Value})
	}
}

// writeNode serializes one element; trailing text belongs to the parent's
// child loop so the root's tail is never emitted.
func writeNode(sb *strings.Builder, t *xmldiff.Tree, id xmldiff.NodeID) {
	n := t.Node(id)
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	for _, a := range n.Attr {
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(encoding.EscapeXMLAttr(a.Value))
		sb.WriteString(`"`)
	}

	children := t.Children(id)
	if n.Text == "" && len(children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteString(">")
	sb.WriteString(encoding.EscapeXMLText(n.Text))
	for _, c := range children {
		writeNode(sb, t, c)
		sb.WriteString(encoding.EscapeXMLText(t.Node(c).Tail))
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}
