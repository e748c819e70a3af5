package css

import (
	"strconv"
	"strings"

	"github.com/chrisuehlinger/selinspect/dom"
)

// MatchElement reports whether any complex selector matches el.
func (s *Selector) MatchElement(el *dom.Element) bool {
	for _, cs := range s.ComplexSelectors {
		if cs.MatchElement(el) {
			return true
		}
	}
	return false
}

// MatchElement matches right to left, starting at the subject compound.
func (cs *ComplexSelector) MatchElement(el *dom.Element) bool {
	if len(cs.Compounds) == 0 {
		return false
	}
	return cs.matchFrom(len(cs.Compounds)-1, el)
}

// matchFrom matches Compounds[:i+1] with Compounds[i] against el. Descendant
// and subsequent-sibling combinators backtrack over every candidate.
func (cs *ComplexSelector) matchFrom(i int, el *dom.Element) bool {
	if !cs.Compounds[i].MatchElement(el) {
		return false
	}
	if i == 0 {
		return true
	}

	switch cs.Compounds[i-1].Combinator {
	case CombinatorDescendant:
		for anc := el.AsNode().ParentElement(); anc != nil; anc = anc.AsNode().ParentElement() {
			if cs.matchFrom(i-1, anc) {
				return true
			}
		}
	case CombinatorChild:
		if parent := el.AsNode().ParentElement(); parent != nil {
			return cs.matchFrom(i-1, parent)
		}
	case CombinatorNextSibling:
		if prev := el.PreviousElementSibling(); prev != nil {
			return cs.matchFrom(i-1, prev)
		}
	case CombinatorSubsequentSibling:
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if cs.matchFrom(i-1, prev) {
				return true
			}
		}
	}
	return false
}

// MatchElement reports whether every simple selector of c matches el.
func (c *CompoundSelector) MatchElement(el *dom.Element) bool {
	if c.Type != "" && c.Type != "*" && !strings.EqualFold(el.LocalName(), c.Type) {
		return false
	}
	for _, id := range c.IDs {
		if el.Id() != id {
			return false
		}
	}
	if len(c.Classes) > 0 {
		classes := strings.Fields(el.ClassName())
		for _, class := range c.Classes {
			if !containsString(classes, class) {
				return false
			}
		}
	}
	for _, attr := range c.AttributeMatchers {
		if !attr.matches(el) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !pc.matches(el) {
			return false
		}
	}
	return true
}

func (attr *AttributeMatcher) matches(el *dom.Element) bool {
	if !el.HasAttribute(attr.Name) {
		return false
	}
	if attr.Operator == AttrExists {
		return true
	}

	got, want := el.GetAttribute(attr.Name), attr.Value
	if attr.CaseInsensitive {
		got, want = strings.ToLower(got), strings.ToLower(want)
	}

	switch attr.Operator {
	case AttrEquals:
		return got == want
	case AttrIncludes:
		return want != "" && !strings.ContainsAny(want, " \t\n\r\f") && containsString(strings.Fields(got), want)
	case AttrDashMatch:
		return got == want || strings.HasPrefix(got, want+"-")
	case AttrPrefix:
		return want != "" && strings.HasPrefix(got, want)
	case AttrSuffix:
		return want != "" && strings.HasSuffix(got, want)
	case AttrSubstring:
		return want != "" && strings.Contains(got, want)
	}
	return false
}

func (pc *PseudoClass) matches(el *dom.Element) bool {
	switch pc.Name {
	case "root":
		parent := el.AsNode().ParentNode()
		return parent != nil && parent.NodeType() == dom.DocumentNode
	case "empty":
		for c := el.AsNode().FirstChild(); c != nil; c = c.NextSibling() {
			if c.NodeType() == dom.ElementNode || (c.NodeType() == dom.TextNode && c.NodeValue() != "") {
				return false
			}
		}
		return true
	case "first-child":
		return el.PreviousElementSibling() == nil
	case "last-child":
		return el.NextElementSibling() == nil
	case "only-child":
		return el.PreviousElementSibling() == nil && el.NextElementSibling() == nil
	case "first-of-type":
		return siblingIndex(el, false, true) == 1
	case "last-of-type":
		return siblingIndex(el, true, true) == 1
	case "only-of-type":
		return siblingIndex(el, false, true) == 1 && siblingIndex(el, true, true) == 1
	case "nth-child":
		return matchNth(pc.Argument, siblingIndex(el, false, false))
	case "nth-last-child":
		return matchNth(pc.Argument, siblingIndex(el, true, false))
	case "nth-of-type":
		return matchNth(pc.Argument, siblingIndex(el, false, true))
	case "nth-last-of-type":
		return matchNth(pc.Argument, siblingIndex(el, true, true))
	case "not":
		return pc.Selector != nil && !pc.Selector.MatchElement(el)
	}
	return false
}

// siblingIndex returns the 1-based position of el among its element
// siblings, counted from the end when fromLast is set and among elements
// with the same local name when ofType is set.
func siblingIndex(el *dom.Element, fromLast, ofType bool) int {
	index := 1
	next := (*dom.Element).PreviousElementSibling
	if fromLast {
		next = (*dom.Element).NextElementSibling
	}
	for sib := next(el); sib != nil; sib = next(sib) {
		if !ofType || sib.LocalName() == el.LocalName() {
			index++
		}
	}
	return index
}

func matchNth(arg string, index int) bool {
	a, b, ok := parseAnPlusB(arg)
	if !ok {
		return false
	}
	if a == 0 {
		return index == b
	}
	n := index - b
	return n%a == 0 && n/a >= 0
}

// parseAnPlusB parses "odd", "even", "3", "2n+1", "-n+3" and similar.
func parseAnPlusB(s string) (a, b int, ok bool) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	switch s {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	case "":
		return 0, 0, false
	}

	i := strings.IndexByte(s, 'n')
	if i < 0 {
		b, err := strconv.Atoi(s)
		return 0, b, err == nil
	}

	switch coef := s[:i]; coef {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(coef)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}

	if rest := s[i+1:]; rest != "" {
		if rest[0] != '+' && rest[0] != '-' {
			return 0, 0, false
		}
		v, err := strconv.Atoi(rest)
		if err != nil {
			return 0, 0, false
		}
		b = v
	}
	return a, b, true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// QuerySelector returns the first element in tree order below root that
// matches selector, or nil.
func QuerySelector(root *dom.Node, selector string) (*dom.Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	var found *dom.Element
	walkElements(root, func(el *dom.Element) bool {
		if sel.MatchElement(el) {
			found = el
			return false
		}
		return true
	})
	return found, nil
}

// QuerySelectorAll returns every element below root that matches selector,
// in tree order.
func QuerySelectorAll(root *dom.Node, selector string) ([]*dom.Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	var results []*dom.Element
	walkElements(root, func(el *dom.Element) bool {
		if sel.MatchElement(el) {
			results = append(results, el)
		}
		return true
	})
	return results, nil
}

// walkElements visits the element descendants of root in tree order until
// visit returns false.
func walkElements(root *dom.Node, visit func(*dom.Element) bool) {
	var stack []*dom.Node
	for c := root.LastChild(); c != nil; c = c.PreviousSibling() {
		stack = append(stack, c)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.NodeType() != dom.ElementNode {
			continue
		}
		if !visit((*dom.Element)(n)) {
			return
		}
		for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
			stack = append(stack, c)
		}
	}
}
