package dom

import (
	"strings"
)

// Element is a Node of type ElementNode.
type Element Node

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// TagName returns the qualified name, upper-cased for HTML elements in an
// HTML document.
func (e *Element) TagName() string {
	return e.elementData.tagName
}

// LocalName returns the local name as it was created (lower case in HTML).
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// NamespaceURI returns the element namespace.
func (e *Element) NamespaceURI() string {
	return e.elementData.namespaceURI
}

func (e *Element) isHTMLElementInHTMLDocument() bool {
	doc := e.ownerDoc
	return e.elementData.namespaceURI == HTMLNamespace && doc != nil && doc.IsHTML()
}

// normalizeName applies the HTML-document attribute name lowercasing rule.
func (e *Element) normalizeName(name string) string {
	if e.isHTMLElementInHTMLDocument() {
		return strings.ToLower(name)
	}
	return name
}

// Id returns the id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// ClassName returns the class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// GetAttribute returns the attribute value, or "" when it is absent.
// Use HasAttribute to tell an empty value from a missing attribute.
func (e *Element) GetAttribute(name string) string {
	if a := e.elementData.lookup(e.normalizeName(name)); a != nil {
		return a.value
	}
	return ""
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	return e.elementData.lookup(e.normalizeName(name)) != nil
}

// SetAttribute sets an attribute, ignoring invalid names.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets an attribute and returns InvalidCharacterError
// for names that are not valid attribute local names.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !isValidAttributeName(name) {
		return ErrInvalidCharacter("The string contains invalid characters.")
	}
	e.elementData.set(e.normalizeName(name), value)
	return nil
}

// RemoveAttribute removes the attribute if present.
func (e *Element) RemoveAttribute(name string) {
	e.elementData.remove(e.normalizeName(name))
}

// Attributes returns the attributes in insertion order.
func (e *Element) Attributes() []*Attr {
	out := make([]*Attr, len(e.elementData.attrs))
	copy(out, e.elementData.attrs)
	return out
}

// AttributeNames returns attribute names in insertion order.
func (e *Element) AttributeNames() []string {
	names := make([]string, 0, len(e.elementData.attrs))
	for _, a := range e.elementData.attrs {
		names = append(names, a.name)
	}
	return names
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			out = append(out, (*Element)(c))
		}
	}
	return out
}

// PreviousElementSibling returns the closest preceding element sibling.
func (e *Element) PreviousElementSibling() *Element {
	for s := e.prevSibling; s != nil; s = s.prevSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// NextElementSibling returns the closest following element sibling.
func (e *Element) NextElementSibling() *Element {
	for s := e.nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// TextContent returns the text of all descendant text nodes.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// isValidAttributeName follows the "valid attribute local name" rule:
// non-empty, no ASCII whitespace, NULL, '/', '=' or '>'.
func isValidAttributeName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "\t\n\f\r \x00/=>")
}

// isValidElementName is a loose check for createElement: non-empty and free
// of characters that cannot appear in a tag name.
func isValidElementName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "\t\n\f\r \x00/<>=\"'")
}
