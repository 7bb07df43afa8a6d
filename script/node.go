// Package script turns raw audio-script markup into a node tree the
// interpreter can walk: preprocessing of shorthand syntax, lenient HTML-style
// parsing, and a minimal parent-owns-children tree.
package script

// NodeType discriminates tree nodes.
type NodeType int

const (
	// TextNode holds raw character data in Data.
	TextNode NodeType = iota
	// ElementNode holds a lowercase tag name in Data plus attributes and
	// ordered children.
	ElementNode
)

// Node is one node of the parsed script tree. Ownership is strictly parent to
// children; nodes hold no back-references.
type Node struct {
	Type     NodeType
	Data     string
	Attrs    map[string]string
	Children []*Node
}

// Attr returns the named attribute value.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Count reports the number of nodes in the subtree rooted at n, including n
// itself, via pre-order traversal.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
