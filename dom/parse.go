package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses a complete HTML document.
func ParseHTML(htmlContent string) (*Document, error) {
	return ParseHTMLReader(strings.NewReader(htmlContent))
}

// ParseHTMLReader parses a complete HTML document from r.
func ParseHTMLReader(r io.Reader) (*Document, error) {
	netDoc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	convertChildren(netDoc, doc.AsNode(), doc)
	return doc, nil
}

// ParseHTMLFragment parses markup as the children of an HTML element named
// contextTag and returns the resulting nodes, owned by doc but not attached.
func ParseHTMLFragment(doc *Document, contextTag, fragment string) ([]*Node, error) {
	contextTag = strings.ToLower(contextTag)
	if contextTag == "" {
		contextTag = "body"
	}
	return parseFragment(doc, &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}, fragment)
}

// ParseHTMLFragmentFor parses markup in the context of el, so that content
// of an svg or math element is parsed as foreign content.
func ParseHTMLFragmentFor(el *Element, fragment string) ([]*Node, error) {
	ns := parserNamespace(el.NamespaceURI())
	if ns == "" {
		return ParseHTMLFragment(el.ownerDoc, el.LocalName(), fragment)
	}
	return parseFragment(el.ownerDoc, &html.Node{
		Type:      html.ElementNode,
		Data:      el.LocalName(),
		DataAtom:  atom.Lookup([]byte(el.LocalName())),
		Namespace: ns,
	}, fragment)
}

func parseFragment(doc *Document, context *html.Node, fragment string) ([]*Node, error) {
	netNodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, err
	}
	var nodes []*Node
	for _, nn := range netNodes {
		if n := convertNode(nn, doc); n != nil {
			if nn.Type == html.ElementNode {
				convertChildren(nn, n, doc)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func convertChildren(src *html.Node, parent *Node, doc *Document) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DocumentNode {
			convertChildren(c, parent, doc)
			continue
		}
		node := convertNode(c, doc)
		if node == nil {
			continue
		}
		parent.AppendChild(node)
		if c.Type == html.ElementNode {
			convertChildren(c, node, doc)
		}
	}
}

// convertNode creates the dom counterpart of a single x/net/html node
// without its children.
func convertNode(c *html.Node, doc *Document) *Node {
	switch c.Type {
	case html.TextNode:
		return doc.CreateTextNode(c.Data)
	case html.CommentNode:
		return doc.CreateComment(c.Data)
	case html.DoctypeNode:
		return doc.createDoctype(c.Data)
	case html.ElementNode:
		el := doc.createElement(namespaceURI(c.Namespace), c.Data)
		for _, a := range c.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.elementData.set(el.normalizeName(name), a.Val)
		}
		return el.AsNode()
	}
	return nil
}

// namespaceURI maps x/net/html's short namespace names to URIs.
func namespaceURI(ns string) string {
	switch ns {
	case "svg":
		return SVGNamespace
	case "math":
		return MathMLNamespace
	}
	return HTMLNamespace
}

func parserNamespace(uri string) string {
	switch uri {
	case SVGNamespace:
		return "svg"
	case MathMLNamespace:
		return "math"
	}
	return ""
}
