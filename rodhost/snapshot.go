package rodhost

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chrisuehlinger/selinspect/dom"
	"github.com/chrisuehlinger/selinspect/inspect"
)

// snapshotJS serializes window.getSelection() and the common ancestor
// container of its first range.
const snapshotJS = `() => {
	const sel = window.getSelection();
	if (!sel) return JSON.stringify({present: false});
	const out = {present: true, collapsed: sel.isCollapsed, rangeCount: sel.rangeCount, text: sel.toString()};
	if (sel.rangeCount > 0) {
		const c = sel.getRangeAt(0).commonAncestorContainer;
		const node = {nodeType: c.nodeType, nodeName: c.nodeName, namespaceURI: c.namespaceURI || "", attributes: {}, innerHTML: "", text: ""};
		if (c.nodeType === Node.ELEMENT_NODE) {
			for (const a of c.attributes) node.attributes[a.name] = a.value;
			node.innerHTML = c.innerHTML;
		} else if (c.nodeType === Node.DOCUMENT_NODE) {
			node.innerHTML = c.documentElement ? c.documentElement.outerHTML : "";
		} else {
			node.text = c.textContent || "";
		}
		out.container = node;
	}
	return JSON.stringify(out);
}`

// Snapshot is a point-in-time copy of a page's selection. It implements
// inspect.Selection.
type Snapshot struct {
	Present   bool     `json:"present"`
	Collapsed bool     `json:"collapsed"`
	Ranges    int      `json:"rangeCount"`
	Text      string   `json:"text"`
	Container *RawNode `json:"container,omitempty"`

	root *dom.Node
}

// RawNode is the wire form of the common ancestor container.
type RawNode struct {
	NodeType   int               `json:"nodeType"`
	NodeName   string            `json:"nodeName"`
	Namespace  string            `json:"namespaceURI,omitempty"`
	Attributes map[string]string `json:"attributes"`
	InnerHTML  string            `json:"innerHTML"`
	Text       string            `json:"text"`
}

// Decode parses a snapshot and rebuilds its container as a dom subtree.
func Decode(raw []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("rodhost: decode snapshot: %w", err)
	}
	if s.Container != nil {
		n, err := s.Container.build()
		if err != nil {
			return nil, err
		}
		s.root = n
	}
	return &s, nil
}

// ContainerNode returns the rebuilt common ancestor container, or nil.
func (s *Snapshot) ContainerNode() *dom.Node { return s.root }

// Type returns "None", "Caret" or "Range" like Selection.type.
func (s *Snapshot) Type() string {
	switch {
	case s.RangeCount() == 0:
		return "None"
	case s.Collapsed:
		return "Caret"
	}
	return "Range"
}

// IsCollapsed reports the page's isCollapsed.
func (s *Snapshot) IsCollapsed() bool { return s.Collapsed }

// RangeCount reports the page's rangeCount.
func (s *Snapshot) RangeCount() int {
	if !s.Present {
		return 0
	}
	return s.Ranges
}

// RangeAt returns the first range. Only its common ancestor is captured.
func (s *Snapshot) RangeAt(index int) (inspect.Range, error) {
	if index != 0 || s.RangeCount() == 0 || s.root == nil {
		return nil, dom.ErrIndexSize(fmt.Sprintf("Index %d out of range", index))
	}
	return snapshotRange{container: s.root}, nil
}

type snapshotRange struct {
	container *dom.Node
}

func (r snapshotRange) CommonAncestorContainer() inspect.Node {
	return inspect.WrapNode(r.container)
}

func (c *RawNode) build() (*dom.Node, error) {
	switch dom.NodeType(c.NodeType) {
	case dom.ElementNode:
		doc := dom.NewDocument()
		el, err := doc.CreateElementNS(c.namespace(), c.NodeName)
		if err != nil {
			return nil, fmt.Errorf("rodhost: container %q: %w", c.NodeName, err)
		}
		for name, value := range c.Attributes {
			if err := el.SetAttributeWithError(name, value); err != nil {
				return nil, fmt.Errorf("rodhost: attribute %q: %w", name, err)
			}
		}
		children, err := dom.ParseHTMLFragmentFor(el, c.InnerHTML)
		if err != nil {
			return nil, fmt.Errorf("rodhost: parse container contents: %w", err)
		}
		frag := doc.CreateDocumentFragment()
		for _, child := range children {
			frag.AppendChild(child)
		}
		el.AsNode().AppendChild(frag)
		return el.AsNode(), nil
	case dom.DocumentNode:
		doc, err := dom.ParseHTML(c.InnerHTML)
		if err != nil {
			return nil, fmt.Errorf("rodhost: parse document: %w", err)
		}
		return doc.AsNode(), nil
	case dom.TextNode, dom.CDATASectionNode:
		return dom.NewDocument().CreateTextNode(c.Text), nil
	case dom.CommentNode:
		return dom.NewDocument().CreateComment(c.Text), nil
	}
	return nil, fmt.Errorf("rodhost: unsupported container %s (type %d)", strings.ToLower(c.NodeName), c.NodeType)
}

// namespace returns the element's namespace. Older snapshots carry none;
// an HTML page only reports a lower-case nodeName for foreign elements.
func (c *RawNode) namespace() string {
	switch {
	case c.Namespace != "":
		return c.Namespace
	case c.NodeName == strings.ToUpper(c.NodeName):
		return dom.HTMLNamespace
	case strings.EqualFold(c.NodeName, "math"):
		return dom.MathMLNamespace
	}
	return dom.SVGNamespace
}
