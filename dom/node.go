package dom

import (
	"strings"
)

// Node is a node in the document tree. Element and Document share its
// layout and are obtained through pointer conversion.
type Node struct {
	nodeType   NodeType
	nodeName   string
	nodeValue  *string // nil for elements, documents and fragments
	ownerDoc   *Document
	parentNode *Node
	childNodes *NodeList

	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Only one of these is set, depending on nodeType.
	elementData  *elementData
	documentData *documentData
}

type elementData struct {
	localName    string
	tagName      string
	namespaceURI string
	attrs        []*Attr
}

type documentData struct {
	contentType string
	selection   *Selection
}

func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	n := &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
	n.childNodes = newNodeList(n)
	return n
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node: the upper-cased tag name for HTML
// elements, "#text" for text, "#comment" for comments, "#document" for documents.
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the character data of text-like nodes and "" otherwise.
func (n *Node) NodeValue() string {
	if n.nodeValue != nil {
		return *n.nodeValue
	}
	return ""
}

// OwnerDocument returns the Document that owns this node, or nil for a Document.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// ChildNodes returns a live NodeList of child nodes.
func (n *Node) ChildNodes() *NodeList {
	return n.childNodes
}

func (n *Node) FirstChild() *Node      { return n.firstChild }
func (n *Node) LastChild() *Node       { return n.lastChild }
func (n *Node) PreviousSibling() *Node { return n.prevSibling }
func (n *Node) NextSibling() *Node     { return n.nextSibling }

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// IsConnected returns true if the node's root is a Document.
func (n *Node) IsConnected() bool {
	return n.GetRootNode().nodeType == DocumentNode
}

// GetRootNode returns the topmost ancestor of the node, or the node itself.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// Contains reports whether other is an inclusive descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parentNode {
		if p == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated data of all descendant text nodes.
// Documents have no text content.
func (n *Node) TextContent() string {
	switch {
	case n.nodeType == DocumentNode:
		return ""
	case n.nodeType.isCharacterData():
		return n.NodeValue()
	}
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		switch c.nodeType {
		case TextNode, CDATASectionNode:
			sb.WriteString(c.NodeValue())
		case ElementNode:
			c.collectText(sb)
		}
	}
}

// AppendChild appends child, detaching it from its current parent first.
// Invalid insertions are ignored; use AppendChildWithError to observe them.
func (n *Node) AppendChild(child *Node) *Node {
	out, _ := n.AppendChildWithError(child)
	return out
}

// AppendChildWithError appends child and reports a HierarchyRequestError
// when the insertion would break the tree.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts newChild before refChild, or at the end when refChild is nil.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	out, _ := n.InsertBeforeWithError(newChild, refChild)
	return out
}

// InsertBeforeWithError is InsertBefore with validation errors reported.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validateInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	if refChild == newChild {
		refChild = newChild.nextSibling
	}
	if newChild.parentNode != nil {
		newChild.parentNode.unlink(newChild)
	}

	if newChild.nodeType == DocumentFragmentNode {
		for c := newChild.firstChild; c != nil; c = newChild.firstChild {
			newChild.unlink(c)
			n.link(c, refChild)
		}
		return newChild, nil
	}
	n.link(newChild, refChild)
	return newChild, nil
}

func (n *Node) validateInsertion(child, refChild *Node) error {
	if child == nil {
		return ErrNotFound("Node is null")
	}
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
	default:
		return ErrHierarchyRequest("The parent cannot have children.")
	}
	if child.Contains(n) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	switch child.nodeType {
	case DocumentNode:
		return ErrHierarchyRequest("A Document cannot be inserted.")
	case DocumentTypeNode:
		if n.nodeType != DocumentNode {
			return ErrHierarchyRequest("A doctype can only be a child of a Document.")
		}
	case TextNode:
		if n.nodeType == DocumentNode {
			return ErrHierarchyRequest("Text cannot be a child of a Document.")
		}
	}
	if refChild != nil && refChild.parentNode != n {
		return ErrNotFound("The reference node is not a child of this node.")
	}
	return nil
}

// link attaches an orphan child before ref (or at the end).
func (n *Node) link(child, ref *Node) {
	child.parentNode = n
	if n.ownerDoc != nil {
		child.ownerDoc = n.ownerDoc
	} else if n.nodeType == DocumentNode {
		child.ownerDoc = (*Document)(n)
	}

	if ref == nil {
		child.prevSibling = n.lastChild
		child.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
		return
	}

	child.nextSibling = ref
	child.prevSibling = ref.prevSibling
	if ref.prevSibling != nil {
		ref.prevSibling.nextSibling = child
	} else {
		n.firstChild = child
	}
	ref.prevSibling = child
}

func (n *Node) unlink(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// RemoveChild removes child from n. Invalid removals are ignored.
func (n *Node) RemoveChild(child *Node) *Node {
	out, _ := n.RemoveChildWithError(child)
	return out
}

// RemoveChildWithError removes child and returns NotFoundError when child
// does not belong to n.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.unlink(child)
	return child, nil
}
