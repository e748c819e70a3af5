package dom

// NodeList is a live view over the children of a node.
type NodeList struct {
	parent *Node
}

func newNodeList(parent *Node) *NodeList {
	return &NodeList{parent: parent}
}

// Length returns the number of children.
func (nl *NodeList) Length() int {
	count := 0
	for c := nl.parent.firstChild; c != nil; c = c.nextSibling {
		count++
	}
	return count
}

// Item returns the child at index, or nil when out of bounds.
func (nl *NodeList) Item(index int) *Node {
	if index < 0 {
		return nil
	}
	i := 0
	for c := nl.parent.firstChild; c != nil; c = c.nextSibling {
		if i == index {
			return c
		}
		i++
	}
	return nil
}

// Slice returns a snapshot of the children in document order.
func (nl *NodeList) Slice() []*Node {
	var out []*Node
	for c := nl.parent.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}
