package dom

// Selection is a document's user selection. Like most browsers it holds at
// most one range.
type Selection struct {
	document *Document
	rng      *Range
	backward bool
}

// NewSelection creates an empty selection for doc.
func NewSelection(doc *Document) *Selection {
	return &Selection{document: doc}
}

// AnchorNode returns the node the selection was started from, or nil when
// empty. For a backward selection that is the range's end container.
func (s *Selection) AnchorNode() *Node {
	node, _ := s.anchor()
	return node
}

// AnchorOffset returns the anchor offset, or 0 when empty.
func (s *Selection) AnchorOffset() int {
	_, offset := s.anchor()
	return offset
}

// FocusNode returns the node the selection was extended to, or nil when
// empty.
func (s *Selection) FocusNode() *Node {
	node, _ := s.focus()
	return node
}

// FocusOffset returns the focus offset, or 0 when empty.
func (s *Selection) FocusOffset() int {
	_, offset := s.focus()
	return offset
}

// IsBackward reports whether the focus precedes the anchor.
func (s *Selection) IsBackward() bool {
	return s.rng != nil && s.backward
}

func (s *Selection) anchor() (*Node, int) {
	switch {
	case s.rng == nil:
		return nil, 0
	case s.backward:
		return s.rng.endContainer, s.rng.endOffset
	}
	return s.rng.startContainer, s.rng.startOffset
}

func (s *Selection) focus() (*Node, int) {
	switch {
	case s.rng == nil:
		return nil, 0
	case s.backward:
		return s.rng.startContainer, s.rng.startOffset
	}
	return s.rng.endContainer, s.rng.endOffset
}

func (s *Selection) set(r *Range, backward bool) {
	s.rng = r
	s.backward = backward && r != nil
}

// IsCollapsed is true for an empty selection and for a caret.
func (s *Selection) IsCollapsed() bool {
	return s.rng == nil || s.rng.Collapsed()
}

// RangeCount returns 0 or 1.
func (s *Selection) RangeCount() int {
	if s.rng == nil {
		return 0
	}
	return 1
}

// Type returns "None", "Caret" or "Range".
func (s *Selection) Type() string {
	switch {
	case s.rng == nil:
		return "None"
	case s.rng.Collapsed():
		return "Caret"
	}
	return "Range"
}

// GetRangeAt returns the range at index; only index 0 of a non-empty
// selection is valid.
func (s *Selection) GetRangeAt(index int) (*Range, error) {
	if s.rng == nil || index != 0 {
		return nil, ErrIndexSize("Index out of range")
	}
	return s.rng, nil
}

// AddRange sets r as the selection's range if it has none yet. Later
// additions are ignored.
func (s *Selection) AddRange(r *Range) {
	if r == nil || s.rng != nil {
		return
	}
	s.set(r, false)
}

// RemoveRange removes r, returning NotFoundError if it is not selected.
func (s *Selection) RemoveRange(r *Range) error {
	if r == nil || r != s.rng {
		return ErrNotFound("The given range is not in the selection")
	}
	s.set(nil, false)
	return nil
}

// RemoveAllRanges empties the selection.
func (s *Selection) RemoveAllRanges() {
	s.set(nil, false)
}

// Collapse replaces the selection with a caret at (node, offset). A nil
// node empties the selection.
func (s *Selection) Collapse(node *Node, offset int) error {
	if node == nil {
		s.set(nil, false)
		return nil
	}
	r := NewRange(s.document)
	if err := r.SetStart(node, offset); err != nil {
		return err
	}
	r.Collapse(true)
	s.set(r, false)
	return nil
}

// CollapseToStart collapses onto the start of the range.
func (s *Selection) CollapseToStart() error {
	if s.rng == nil {
		return ErrInvalidState("No ranges in selection")
	}
	return s.Collapse(s.rng.startContainer, s.rng.startOffset)
}

// CollapseToEnd collapses onto the end of the range.
func (s *Selection) CollapseToEnd() error {
	if s.rng == nil {
		return ErrInvalidState("No ranges in selection")
	}
	return s.Collapse(s.rng.endContainer, s.rng.endOffset)
}

// Extend moves the focus to (node, offset), keeping the anchor. The range
// is updated in place. A focus before the anchor makes the selection
// backward; a focus in another tree collapses the selection onto it.
func (s *Selection) Extend(node *Node, offset int) error {
	if node == nil {
		return ErrNotFound("Node is null")
	}
	if s.rng == nil {
		return ErrInvalidState("No ranges in selection")
	}
	r := s.rng
	if err := r.checkBoundary(node, offset); err != nil {
		return err
	}
	anchorNode, anchorOffset := s.anchor()
	switch {
	case anchorNode.GetRootNode() != node.GetRootNode():
		r.startContainer, r.startOffset = node, offset
		r.endContainer, r.endOffset = node, offset
		s.backward = false
	case comparePoints(anchorNode, anchorOffset, node, offset) <= 0:
		r.startContainer, r.startOffset = anchorNode, anchorOffset
		r.endContainer, r.endOffset = node, offset
		s.backward = false
	default:
		r.startContainer, r.startOffset = node, offset
		r.endContainer, r.endOffset = anchorNode, anchorOffset
		s.backward = true
	}
	return nil
}

// SelectAllChildren selects the contents of node.
func (s *Selection) SelectAllChildren(node *Node) error {
	r := NewRange(s.document)
	if err := r.SelectNodeContents(node); err != nil {
		return err
	}
	s.set(r, false)
	return nil
}

// SetBaseAndExtent selects from (anchorNode, anchorOffset) to
// (focusNode, focusOffset). A backward selection is stored as the range
// from focus to anchor and keeps reporting its anchor first.
func (s *Selection) SetBaseAndExtent(anchorNode *Node, anchorOffset int, focusNode *Node, focusOffset int) error {
	if anchorNode == nil || focusNode == nil {
		return ErrNotFound("Node is null")
	}
	backward := false
	startNode, startOffset, endNode, endOffset := anchorNode, anchorOffset, focusNode, focusOffset
	if anchorNode.GetRootNode() == focusNode.GetRootNode() &&
		comparePoints(anchorNode, anchorOffset, focusNode, focusOffset) > 0 {
		startNode, endNode = focusNode, anchorNode
		startOffset, endOffset = focusOffset, anchorOffset
		backward = true
	}
	r := NewRange(s.document)
	if err := r.SetStart(startNode, startOffset); err != nil {
		return err
	}
	if err := r.SetEnd(endNode, endOffset); err != nil {
		return err
	}
	s.set(r, backward)
	return nil
}

// ToString returns the selected text.
func (s *Selection) ToString() string {
	if s.rng == nil {
		return ""
	}
	return s.rng.ToString()
}
