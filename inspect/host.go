// Package inspect answers read-only questions about a host document's
// current selection, such as which element contains it and whether a given
// element lies inside that container.
//
// The host is reached only through Provider, so the same queries run
// against the in-memory dom package and against a live browser.
package inspect

// Node is the part of a host tree node the inspector reads.
type Node interface {
	// IsElement reports whether the node is an element (nodeType 1).
	IsElement() bool
	NodeName() string
	// ChildNodes returns the children in document order.
	ChildNodes() []Node
	HasAttribute(name string) bool
	GetAttribute(name string) string
}

// Range is a host range.
type Range interface {
	// CommonAncestorContainer returns the lowest node containing both
	// boundary points.
	CommonAncestorContainer() Node
}

// Selection is a host selection.
type Selection interface {
	// IsCollapsed is true when the selection is empty or a caret.
	IsCollapsed() bool
	RangeCount() int
	RangeAt(index int) (Range, error)
}

// Provider returns the host's current selection. A nil Selection with a
// nil error means there is no selection; an error is a host failure.
type Provider interface {
	Selection() (Selection, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() (Selection, error)

// Selection calls f.
func (f ProviderFunc) Selection() (Selection, error) {
	return f()
}
