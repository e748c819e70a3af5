package inspect

// fakeNode is a synthetic host node for tests that do not need a document.
type fakeNode struct {
	name     string
	element  bool
	attrs    map[string]string
	children []*fakeNode
}

func el(name string, attrs map[string]string, children ...*fakeNode) *fakeNode {
	return &fakeNode{name: name, element: true, attrs: attrs, children: children}
}

// other builds a non-element node such as a comment or a text node.
func other(name string, children ...*fakeNode) *fakeNode {
	return &fakeNode{name: name, children: children}
}

func (f *fakeNode) IsElement() bool  { return f.element }
func (f *fakeNode) NodeName() string { return f.name }

func (f *fakeNode) ChildNodes() []Node {
	out := make([]Node, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}
	return out
}

func (f *fakeNode) HasAttribute(name string) bool {
	_, ok := f.attrs[name]
	return ok
}

func (f *fakeNode) GetAttribute(name string) string {
	return f.attrs[name]
}

type fakeRange struct {
	container Node
}

func (r fakeRange) CommonAncestorContainer() Node { return r.container }

type fakeSelection struct {
	collapsed bool
	ranges    []Range
	rangeErr  error
}

func (s *fakeSelection) IsCollapsed() bool { return s.collapsed }
func (s *fakeSelection) RangeCount() int   { return len(s.ranges) }

func (s *fakeSelection) RangeAt(index int) (Range, error) {
	if s.rangeErr != nil {
		return nil, s.rangeErr
	}
	return s.ranges[index], nil
}

// selecting returns a Provider whose selection spans container.
func selecting(container Node) Provider {
	sel := &fakeSelection{ranges: []Range{fakeRange{container: container}}}
	return ProviderFunc(func() (Selection, error) { return sel, nil })
}
