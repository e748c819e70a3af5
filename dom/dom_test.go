package dom

import (
	"testing"
)

func TestNodeType_String(t *testing.T) {
	if ElementNode.String() != "ELEMENT_NODE" {
		t.Errorf("Expected ELEMENT_NODE, got %s", ElementNode.String())
	}
	if NodeType(99).String() != "UNKNOWN_NODE" {
		t.Errorf("Expected UNKNOWN_NODE, got %s", NodeType(99).String())
	}
}

func TestDocument_CreateElement(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("Div")

	if div.TagName() != "DIV" {
		t.Errorf("Expected tagName DIV, got %s", div.TagName())
	}
	if div.LocalName() != "div" {
		t.Errorf("Expected localName div, got %s", div.LocalName())
	}
	if div.AsNode().NodeName() != "DIV" {
		t.Errorf("Expected nodeName DIV, got %s", div.AsNode().NodeName())
	}
	if div.AsNode().OwnerDocument() != doc {
		t.Error("Element should be owned by the document")
	}

	if _, err := doc.CreateElementWithError("bad name"); !IsDOMError(err, "InvalidCharacterError") {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
}

func TestElement_Attributes(t *testing.T) {
	doc := NewDocument()
	span := doc.CreateElement("span")

	span.SetAttribute("CLASS", "x")
	span.SetAttribute("id", "y")

	if !span.HasAttribute("class") {
		t.Error("class attribute should be present")
	}
	if span.GetAttribute("Class") != "x" {
		t.Errorf("Expected class x, got %q", span.GetAttribute("Class"))
	}
	if span.Id() != "y" {
		t.Errorf("Expected id y, got %q", span.Id())
	}
	if span.HasAttribute("title") {
		t.Error("title attribute should be absent")
	}

	span.SetAttribute("id", "z")
	names := span.AttributeNames()
	if len(names) != 2 || names[0] != "class" || names[1] != "id" {
		t.Errorf("Unexpected attribute names %v", names)
	}
	if span.Id() != "z" {
		t.Errorf("Expected id z after overwrite, got %q", span.Id())
	}

	span.RemoveAttribute("class")
	if span.HasAttribute("class") {
		t.Error("class attribute should be removed")
	}

	if err := span.SetAttributeWithError("a=b", "v"); !IsDOMError(err, "InvalidCharacterError") {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
}

func TestElement_EmptyAttributeValue(t *testing.T) {
	doc := NewDocument()
	input := doc.CreateElement("input")
	input.SetAttribute("disabled", "")

	if !input.HasAttribute("disabled") {
		t.Error("disabled should be present with an empty value")
	}
	if input.GetAttribute("disabled") != "" {
		t.Errorf("Expected empty value, got %q", input.GetAttribute("disabled"))
	}
}

func TestNode_AppendChild(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	a := doc.CreateTextNode("a")
	b := doc.CreateTextNode("b")

	div.AsNode().AppendChild(a)
	div.AsNode().AppendChild(b)

	if div.AsNode().FirstChild() != a || div.AsNode().LastChild() != b {
		t.Fatal("children not linked in order")
	}
	if a.NextSibling() != b || b.PreviousSibling() != a {
		t.Error("sibling pointers not linked")
	}
	if div.AsNode().ChildNodes().Length() != 2 {
		t.Errorf("Expected 2 children, got %d", div.AsNode().ChildNodes().Length())
	}
	if div.TextContent() != "ab" {
		t.Errorf("Expected textContent 'ab', got %q", div.TextContent())
	}

	// Re-appending moves the node to the end.
	div.AsNode().AppendChild(a)
	if div.AsNode().FirstChild() != b || div.AsNode().LastChild() != a {
		t.Error("re-appended child should move to the end")
	}
}

func TestNode_InsertBefore(t *testing.T) {
	doc := NewDocument()
	ul := doc.CreateElement("ul")
	first := doc.CreateElement("li")
	last := doc.CreateElement("li")
	ul.AsNode().AppendChild(last.AsNode())
	ul.AsNode().InsertBefore(first.AsNode(), last.AsNode())

	if ul.AsNode().ChildNodes().Item(0) != first.AsNode() {
		t.Error("first should be inserted before last")
	}
	if ul.AsNode().ChildNodes().Item(2) != nil {
		t.Error("Item out of bounds should be nil")
	}

	other := doc.CreateElement("ol")
	if _, err := ul.AsNode().InsertBeforeWithError(doc.CreateTextNode("x"), other.AsNode()); !IsDOMError(err, "NotFoundError") {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestNode_HierarchyErrors(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	outer.AsNode().AppendChild(inner.AsNode())

	if _, err := inner.AsNode().AppendChildWithError(outer.AsNode()); !IsDOMError(err, "HierarchyRequestError") {
		t.Errorf("Expected HierarchyRequestError for cycle, got %v", err)
	}

	text := doc.CreateTextNode("t")
	if _, err := text.AppendChildWithError(doc.CreateTextNode("u")); !IsDOMError(err, "HierarchyRequestError") {
		t.Errorf("Expected HierarchyRequestError for text parent, got %v", err)
	}

	if _, err := doc.AsNode().AppendChildWithError(doc.CreateTextNode("u")); !IsDOMError(err, "HierarchyRequestError") {
		t.Errorf("Expected HierarchyRequestError for text under document, got %v", err)
	}
}

func TestNode_RemoveChild(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	a := doc.CreateTextNode("a")
	b := doc.CreateTextNode("b")
	c := doc.CreateTextNode("c")
	div.AsNode().AppendChild(a)
	div.AsNode().AppendChild(b)
	div.AsNode().AppendChild(c)

	div.AsNode().RemoveChild(b)
	if a.NextSibling() != c || c.PreviousSibling() != a {
		t.Error("siblings should be relinked after removal")
	}
	if b.ParentNode() != nil {
		t.Error("removed node should have no parent")
	}

	if _, err := div.AsNode().RemoveChildWithError(b); !IsDOMError(err, "NotFoundError") {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestNode_DocumentFragment(t *testing.T) {
	doc := NewDocument()
	frag := doc.CreateDocumentFragment()
	frag.AppendChild(doc.CreateElement("b").AsNode())
	frag.AppendChild(doc.CreateElement("i").AsNode())

	p := doc.CreateElement("p")
	p.AsNode().AppendChild(frag)

	if len(p.Children()) != 2 {
		t.Errorf("Expected 2 children moved from fragment, got %d", len(p.Children()))
	}
	if frag.HasChildNodes() {
		t.Error("fragment should be empty after insertion")
	}
}

func TestNode_ContainsAndConnected(t *testing.T) {
	doc, err := ParseHTML(`<div id="d"><p id="p">x</p></div>`)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	d := doc.GetElementById("d")
	p := doc.GetElementById("p")

	if !d.AsNode().Contains(p.AsNode()) {
		t.Error("div should contain p")
	}
	if !d.AsNode().Contains(d.AsNode()) {
		t.Error("Contains is inclusive")
	}
	if p.AsNode().Contains(d.AsNode()) {
		t.Error("p should not contain div")
	}
	if !p.AsNode().IsConnected() {
		t.Error("parsed node should be connected")
	}
	if doc.CreateElement("em").AsNode().IsConnected() {
		t.Error("detached node should not be connected")
	}
}

func TestDocument_GetElementsByTagName(t *testing.T) {
	doc, err := ParseHTML(`<div><p id="a"><span>x</span></p><P id="b"></P></div>`)
	if err != nil {
		t.Fatal(err)
	}

	ps := doc.GetElementsByTagName("P")
	if len(ps) != 2 || ps[0].Id() != "a" || ps[1].Id() != "b" {
		t.Fatalf("GetElementsByTagName(P) = %v", ps)
	}
	// html, head, body, div, p, span, p
	if all := doc.GetElementsByTagName("*"); len(all) != 7 {
		t.Errorf("GetElementsByTagName(*) returned %d elements, want 7", len(all))
	}
	if none := doc.GetElementsByTagName("table"); len(none) != 0 {
		t.Errorf("GetElementsByTagName(table) = %v", none)
	}
}

func TestElement_ElementSiblings(t *testing.T) {
	doc, err := ParseHTML(`<ul><li id="a">1</li> text <!--c--><li id="b">2</li></ul>`)
	if err != nil {
		t.Fatal(err)
	}
	a := doc.GetElementById("a")
	b := doc.GetElementById("b")

	if got := a.NextElementSibling(); got != b {
		t.Errorf("a.NextElementSibling() = %v, want b", got)
	}
	if got := b.PreviousElementSibling(); got != a {
		t.Errorf("b.PreviousElementSibling() = %v, want a", got)
	}
	if a.PreviousElementSibling() != nil || b.NextElementSibling() != nil {
		t.Error("expected no element siblings at the ends")
	}
}
