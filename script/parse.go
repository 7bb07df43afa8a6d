package script

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoRoot is returned when the parsed document lacks the synthetic root
// element. It indicates a parser bug rather than bad input, since parsing is
// lenient and the root is injected here.
var ErrNoRoot = errors.New("script: no root element in parsed document")

// Parse runs the preprocessed script through a lenient HTML parser and
// converts the result to a script tree. The input is wrapped in a synthetic
// <root> element so sibling top-level content shares a single parent; the
// returned node is that root element.
//
// Parsing never fails on malformed markup. Stray closing tags are dropped and
// unclosed elements are closed at end of input, matching how browsers treat
// unknown elements.
func Parse(markup string) (*Node, error) {
	doc, err := html.Parse(strings.NewReader("<root>" + markup + "</root>"))
	if err != nil {
		return nil, err
	}

	root := findElement(doc, "root")
	if root == nil {
		return nil, ErrNoRoot
	}
	return convert(root), nil
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// convert maps an html.Node subtree onto the script tree, keeping only
// element and text nodes. Comments and other node kinds are discarded.
func convert(n *html.Node) *Node {
	node := &Node{Data: n.Data}
	switch n.Type {
	case html.TextNode:
		node.Type = TextNode
		return node
	case html.ElementNode:
		node.Type = ElementNode
		node.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			node.Attrs[a.Key] = a.Val
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode && c.Type != html.TextNode {
			continue
		}
		node.Children = append(node.Children, convert(c))
	}
	return node
}
