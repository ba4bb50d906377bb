package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headingAtoms are the element kinds accepted as a node's display heading,
// in preference order.
var headingAtoms = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// findAll returns every descendant element of the given kind carrying the
// given class, in document order. An empty class matches any element of the
// kind.
func findAll(root *html.Node, tag atom.Atom, class string) []*html.Node {
	var found []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag && (class == "" || hasClass(n, class)) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}

	return found
}

// findClass returns the first descendant element carrying the given class
// regardless of element kind, or nil.
func findClass(root *html.Node, class string) *html.Node {
	var found *html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}

	return found
}

// firstHeading returns the first h1..h6 descendant, or nil.
func firstHeading(root *html.Node) *html.Node {
	for _, heading := range headingAtoms {
		if nodes := findAll(root, heading, ""); len(nodes) > 0 {
			return nodes[0]
		}
	}
	return nil
}

// hasClass reports whether the element's class attribute contains the given
// class token.
func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(getAttr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// innerText collects the text content of a node's subtree in document
// order. Script and style bodies are skipped.
func innerText(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}

	return b.String()
}
