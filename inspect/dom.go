package inspect

import (
	"github.com/chrisuehlinger/selinspect/dom"
)

// Document returns a Provider reading doc's selection.
func Document(doc *dom.Document) Provider {
	return documentProvider{doc: doc}
}

type documentProvider struct {
	doc *dom.Document
}

func (p documentProvider) Selection() (Selection, error) {
	return domSelection{sel: p.doc.GetSelection()}, nil
}

type domSelection struct {
	sel *dom.Selection
}

func (s domSelection) IsCollapsed() bool { return s.sel.IsCollapsed() }
func (s domSelection) RangeCount() int   { return s.sel.RangeCount() }

func (s domSelection) RangeAt(index int) (Range, error) {
	r, err := s.sel.GetRangeAt(index)
	if err != nil {
		return nil, err
	}
	return domRange{r: r}, nil
}

type domRange struct {
	r *dom.Range
}

func (r domRange) CommonAncestorContainer() Node {
	return WrapNode(r.r.CommonAncestorContainer())
}

// WrapNode adapts a dom node. It returns nil for a nil node.
func WrapNode(n *dom.Node) Node {
	if n == nil {
		return nil
	}
	return domNode{n: n}
}

// UnwrapNode returns the dom node behind a Node produced by this package,
// or nil for nodes from other hosts.
func UnwrapNode(n Node) *dom.Node {
	if dn, ok := n.(domNode); ok {
		return dn.n
	}
	return nil
}

// UnwrapRange returns the dom range behind a Range produced by Document.
func UnwrapRange(r Range) *dom.Range {
	if dr, ok := r.(domRange); ok {
		return dr.r
	}
	return nil
}

type domNode struct {
	n *dom.Node
}

func (d domNode) IsElement() bool  { return d.n.NodeType() == dom.ElementNode }
func (d domNode) NodeName() string { return d.n.NodeName() }

func (d domNode) ChildNodes() []Node {
	children := d.n.ChildNodes().Slice()
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = domNode{n: c}
	}
	return out
}

func (d domNode) HasAttribute(name string) bool {
	if !d.IsElement() {
		return false
	}
	return (*dom.Element)(d.n).HasAttribute(name)
}

func (d domNode) GetAttribute(name string) string {
	if !d.IsElement() {
		return ""
	}
	return (*dom.Element)(d.n).GetAttribute(name)
}
