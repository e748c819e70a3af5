package dom

import "strings"

// Range is a pair of boundary points in one document. Offsets into
// character data count bytes; offsets into other nodes count children.
//
// Ranges are not updated when the tree is mutated.
type Range struct {
	startContainer *Node
	startOffset    int
	endContainer   *Node
	endOffset      int
	ownerDocument  *Document
}

// NewRange creates a range collapsed at (doc, 0).
func NewRange(doc *Document) *Range {
	return &Range{
		startContainer: doc.AsNode(),
		endContainer:   doc.AsNode(),
		ownerDocument:  doc,
	}
}

func (r *Range) StartContainer() *Node { return r.startContainer }
func (r *Range) StartOffset() int      { return r.startOffset }
func (r *Range) EndContainer() *Node   { return r.endContainer }
func (r *Range) EndOffset() int        { return r.endOffset }

// Collapsed reports whether the start and end points coincide.
func (r *Range) Collapsed() bool {
	return r.startContainer == r.endContainer && r.startOffset == r.endOffset
}

// CommonAncestorContainer returns the deepest node that is an inclusive
// ancestor of both boundary containers.
func (r *Range) CommonAncestorContainer() *Node {
	startAncestors := make(map[*Node]struct{})
	for n := r.startContainer; n != nil; n = n.parentNode {
		startAncestors[n] = struct{}{}
	}
	for n := r.endContainer; n != nil; n = n.parentNode {
		if _, ok := startAncestors[n]; ok {
			return n
		}
	}
	return nil
}

func (r *Range) checkBoundary(node *Node, offset int) error {
	if node == nil {
		return ErrNotFound("Node is null")
	}
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The supplied node is a DocumentType which is not a valid boundary point.")
	}
	if offset < 0 || offset > nodeLength(node) {
		return ErrIndexSize("The offset is out of range.")
	}
	return nil
}

// SetStart moves the start point. If the start ends up after the end, or in
// another tree, the range collapses to the new start.
func (r *Range) SetStart(node *Node, offset int) error {
	if err := r.checkBoundary(node, offset); err != nil {
		return err
	}
	r.startContainer, r.startOffset = node, offset
	if node.GetRootNode() != r.endContainer.GetRootNode() ||
		comparePoints(r.startContainer, r.startOffset, r.endContainer, r.endOffset) > 0 {
		r.endContainer, r.endOffset = node, offset
	}
	return nil
}

// SetEnd moves the end point. If the end ends up before the start, or in
// another tree, the range collapses to the new end.
func (r *Range) SetEnd(node *Node, offset int) error {
	if err := r.checkBoundary(node, offset); err != nil {
		return err
	}
	r.endContainer, r.endOffset = node, offset
	if node.GetRootNode() != r.startContainer.GetRootNode() ||
		comparePoints(r.startContainer, r.startOffset, r.endContainer, r.endOffset) > 0 {
		r.startContainer, r.startOffset = node, offset
	}
	return nil
}

func parentIndex(node *Node) (*Node, int, error) {
	if node == nil {
		return nil, 0, ErrNotFound("Node is null")
	}
	parent := node.parentNode
	if parent == nil {
		return nil, 0, ErrInvalidNodeType("The node has no parent.")
	}
	return parent, indexOfChild(parent, node), nil
}

// SetStartBefore places the start immediately before node.
func (r *Range) SetStartBefore(node *Node) error {
	parent, i, err := parentIndex(node)
	if err != nil {
		return err
	}
	return r.SetStart(parent, i)
}

// SetStartAfter places the start immediately after node.
func (r *Range) SetStartAfter(node *Node) error {
	parent, i, err := parentIndex(node)
	if err != nil {
		return err
	}
	return r.SetStart(parent, i+1)
}

// SetEndBefore places the end immediately before node.
func (r *Range) SetEndBefore(node *Node) error {
	parent, i, err := parentIndex(node)
	if err != nil {
		return err
	}
	return r.SetEnd(parent, i)
}

// SetEndAfter places the end immediately after node.
func (r *Range) SetEndAfter(node *Node) error {
	parent, i, err := parentIndex(node)
	if err != nil {
		return err
	}
	return r.SetEnd(parent, i+1)
}

// Collapse moves one boundary point onto the other.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.endContainer, r.endOffset = r.startContainer, r.startOffset
		return
	}
	r.startContainer, r.startOffset = r.endContainer, r.endOffset
}

// SelectNode makes the range span exactly node.
func (r *Range) SelectNode(node *Node) error {
	parent, i, err := parentIndex(node)
	if err != nil {
		return err
	}
	r.startContainer, r.startOffset = parent, i
	r.endContainer, r.endOffset = parent, i+1
	return nil
}

// SelectNodeContents makes the range span the contents of node.
func (r *Range) SelectNodeContents(node *Node) error {
	if node == nil {
		return ErrNotFound("Node is null")
	}
	if node.nodeType == DocumentTypeNode {
		return ErrInvalidNodeType("The supplied node is a DocumentType.")
	}
	r.startContainer, r.startOffset = node, 0
	r.endContainer, r.endOffset = node, nodeLength(node)
	return nil
}

// CloneRange returns an independent copy of r.
func (r *Range) CloneRange() *Range {
	c := *r
	return &c
}

// ToString returns the text data enclosed by the range.
func (r *Range) ToString() string {
	if r.Collapsed() {
		return ""
	}
	if r.startContainer == r.endContainer && r.startContainer.nodeType.isCharacterData() {
		if r.startContainer.nodeType != TextNode && r.startContainer.nodeType != CDATASectionNode {
			return ""
		}
		return r.startContainer.NodeValue()[r.startOffset:r.endOffset]
	}

	var sb strings.Builder
	root := r.CommonAncestorContainer()
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.nodeType == TextNode || n.nodeType == CDATASectionNode {
			data := n.NodeValue()
			switch {
			case n == r.startContainer:
				sb.WriteString(data[r.startOffset:])
			case n == r.endContainer:
				sb.WriteString(data[:r.endOffset])
			case comparePoints(n, 0, r.startContainer, r.startOffset) >= 0 &&
				comparePoints(n, len(data), r.endContainer, r.endOffset) <= 0:
				sb.WriteString(data)
			}
			continue
		}
		for c := n.lastChild; c != nil; c = c.prevSibling {
			stack = append(stack, c)
		}
	}
	return sb.String()
}

// comparePoints orders two boundary points in tree order: -1 if a is
// before b, 0 if equal, 1 if after.
func comparePoints(nodeA *Node, offsetA int, nodeB *Node, offsetB int) int {
	if nodeA == nodeB {
		switch {
		case offsetA < offsetB:
			return -1
		case offsetA > offsetB:
			return 1
		}
		return 0
	}

	if isAncestor(nodeA, nodeB) {
		child := nodeB
		for child.parentNode != nodeA {
			child = child.parentNode
		}
		if indexOfChild(nodeA, child) < offsetA {
			return 1
		}
		return -1
	}

	if isAncestor(nodeB, nodeA) {
		return -comparePoints(nodeB, offsetB, nodeA, offsetA)
	}

	return compareTreeOrder(nodeA, nodeB)
}

// compareTreeOrder orders two nodes neither of which contains the other.
func compareTreeOrder(a, b *Node) int {
	pathA := ancestorsFromRoot(a)
	pathB := ancestorsFromRoot(b)
	for i := 1; i < len(pathA) && i < len(pathB); i++ {
		if pathA[i] == pathB[i] {
			continue
		}
		if pathA[i-1] != pathB[i-1] {
			break
		}
		if indexOfChild(pathA[i-1], pathA[i]) < indexOfChild(pathA[i-1], pathB[i]) {
			return -1
		}
		return 1
	}
	return 0
}

func ancestorsFromRoot(n *Node) []*Node {
	var path []*Node
	for ; n != nil; n = n.parentNode {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// nodeLength is the DOM "length" of a node: data length for character
// data, child count otherwise.
func nodeLength(node *Node) int {
	switch node.nodeType {
	case DocumentTypeNode:
		return 0
	case TextNode, CDATASectionNode, CommentNode, ProcessingInstructionNode:
		return len(node.NodeValue())
	}
	return node.childNodes.Length()
}

func indexOfChild(parent, child *Node) int {
	i := 0
	for c := parent.firstChild; c != nil; c = c.nextSibling {
		if c == child {
			return i
		}
		i++
	}
	return -1
}

// isAncestor reports whether ancestor is a proper ancestor of node.
func isAncestor(ancestor, node *Node) bool {
	for p := node.parentNode; p != nil; p = p.parentNode {
		if p == ancestor {
			return true
		}
	}
	return false
}
