// Package dom is a small in-memory DOM: enough of the DOM Living Standard to
// hold a parsed HTML document, place ranges in it and keep a selection.
// https://dom.spec.whatwg.org/
package dom

// NodeType represents the type of a Node as defined by the DOM standard.
type NodeType uint16

const (
	ElementNode               NodeType = 1
	AttributeNode             NodeType = 2
	TextNode                  NodeType = 3
	CDATASectionNode          NodeType = 4
	ProcessingInstructionNode NodeType = 7
	CommentNode               NodeType = 8
	DocumentNode              NodeType = 9
	DocumentTypeNode          NodeType = 10
	DocumentFragmentNode      NodeType = 11
)

// String returns the constant name used by the Node interface in scripts.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case AttributeNode:
		return "ATTRIBUTE_NODE"
	case TextNode:
		return "TEXT_NODE"
	case CDATASectionNode:
		return "CDATA_SECTION_NODE"
	case ProcessingInstructionNode:
		return "PROCESSING_INSTRUCTION_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	case DocumentTypeNode:
		return "DOCUMENT_TYPE_NODE"
	case DocumentFragmentNode:
		return "DOCUMENT_FRAGMENT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}

// isCharacterData reports whether nodes of this type carry text data
// whose length is measured in characters rather than children.
func (nt NodeType) isCharacterData() bool {
	switch nt {
	case TextNode, CDATASectionNode, CommentNode, ProcessingInstructionNode:
		return true
	}
	return false
}
