package dom

import (
	"strings"
)

// Document is the root node of a tree. Each document owns one Selection.
type Document Node

// Element namespaces produced by the HTML parser.
const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// NewDocument creates an empty HTML document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{contentType: "text/html"}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// IsHTML reports whether the document is an HTML (not XML) document.
func (d *Document) IsHTML() bool {
	return d.documentData.contentType == "text/html"
}

// DocumentElement returns the root element, usually <html>.
func (d *Document) DocumentElement() *Element {
	for c := d.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// Body returns the <body> child of the root element.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

// Head returns the <head> child of the root element.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

func (d *Document) rootChild(localName string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for _, el := range root.Children() {
		if strings.EqualFold(el.LocalName(), localName) {
			return el
		}
	}
	return nil
}

// CreateElement creates an element, ignoring invalid names.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates an element in the HTML namespace. HTML
// documents store the local name lower-cased and report an upper-cased
// tag name.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	return d.CreateElementNS(HTMLNamespace, tagName)
}

// CreateElementNS creates an element in namespace. Only HTML elements get
// the HTML document's case folding; SVG and MathML names keep their case.
func (d *Document) CreateElementNS(namespace, qualifiedName string) (*Element, error) {
	if !isValidElementName(qualifiedName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}
	return d.createElement(namespace, qualifiedName), nil
}

// createElement skips name validation. The parser uses it because it
// accepts tag names createElement would reject.
func (d *Document) createElement(namespace, qualifiedName string) *Element {
	if namespace == "" {
		namespace = HTMLNamespace
	}
	localName, qualified := qualifiedName, qualifiedName
	if i := strings.IndexByte(qualifiedName, ':'); i > 0 && namespace != HTMLNamespace {
		localName = qualifiedName[i+1:]
	}
	if namespace == HTMLNamespace && d.IsHTML() {
		localName = strings.ToLower(qualifiedName)
		qualified = strings.ToUpper(qualifiedName)
	}
	node := newNode(ElementNode, qualified, d)
	node.elementData = &elementData{
		localName:    localName,
		tagName:      qualified,
		namespaceURI: namespace,
	}
	return (*Element)(node)
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.nodeValue = &data
	return node
}

// CreateComment creates a comment node.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.nodeValue = &data
	return node
}

// CreateDocumentFragment creates an empty fragment; inserting it moves its
// children.
func (d *Document) CreateDocumentFragment() *Node {
	return newNode(DocumentFragmentNode, "#document-fragment", d)
}

func (d *Document) createDoctype(name string) *Node {
	return newNode(DocumentTypeNode, name, d)
}

// GetElementById returns the first element in tree order with the given id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	stack := []*Node{d.AsNode()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.nodeType == ElementNode && (*Element)(n).Id() == id {
			return (*Element)(n)
		}
		for c := n.lastChild; c != nil; c = c.prevSibling {
			stack = append(stack, c)
		}
	}
	return nil
}

// GetElementsByTagName returns the elements with the given local name in
// tree order. "*" matches every element.
func (d *Document) GetElementsByTagName(name string) []*Element {
	name = strings.ToLower(name)
	var out []*Element
	stack := []*Node{d.AsNode()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.nodeType == ElementNode {
			el := (*Element)(n)
			if name == "*" || el.LocalName() == name {
				out = append(out, el)
			}
		}
		for c := n.lastChild; c != nil; c = c.prevSibling {
			stack = append(stack, c)
		}
	}
	return out
}

// CreateRange creates a collapsed range at the start of the document.
func (d *Document) CreateRange() *Range {
	return NewRange(d)
}

// GetSelection returns the document's selection, creating it on first use.
func (d *Document) GetSelection() *Selection {
	if d.documentData.selection == nil {
		d.documentData.selection = NewSelection(d)
	}
	return d.documentData.selection
}
