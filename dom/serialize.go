package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OuterHTML serializes the element and its descendants. Trees the HTML
// serializer rejects, such as a void element with children, are an error.
func (e *Element) OuterHTML() (string, error) {
	return renderNodes(e.AsNode())
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() (string, error) {
	return renderNodes(e.AsNode().ChildNodes().Slice()...)
}

// Serialize renders any node, including a document, as HTML. It is meant
// for diagnostics and snapshot comparisons.
func Serialize(n *Node) (string, error) {
	if n.nodeType == DocumentNode || n.nodeType == DocumentFragmentNode {
		return renderNodes(n.ChildNodes().Slice()...)
	}
	return renderNodes(n)
}

func renderNodes(nodes ...*Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		hn := toHTMLNode(n)
		if hn == nil {
			continue
		}
		if err := html.Render(&buf, hn); err != nil {
			return "", fmt.Errorf("render %s: %w", n.NodeName(), err)
		}
	}
	return buf.String(), nil
}

// toHTMLNode builds a detached x/net/html tree mirroring n so that the
// html package can do the escaping and void-element handling.
func toHTMLNode(n *Node) *html.Node {
	var hn *html.Node
	switch n.nodeType {
	case TextNode, CDATASectionNode:
		hn = &html.Node{Type: html.TextNode, Data: n.NodeValue()}
	case CommentNode:
		hn = &html.Node{Type: html.CommentNode, Data: n.NodeValue()}
	case DocumentTypeNode:
		hn = &html.Node{Type: html.DoctypeNode, Data: n.nodeName}
	case ElementNode:
		el := (*Element)(n)
		name := el.LocalName()
		ns := parserNamespace(el.NamespaceURI())
		if ns == "" {
			name = strings.ToLower(name)
		}
		hn = &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name)), Namespace: ns}
		for _, a := range el.elementData.attrs {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.name, Val: a.value})
		}
	default:
		return nil
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if hc := toHTMLNode(c); hc != nil {
			hn.AppendChild(hc)
		}
	}
	return hn
}
