// Package css parses CSS selectors and matches them against dom elements.
package css

import (
	"fmt"
	"strings"
)

// Selector is a parsed selector list. It matches an element when any of
// its complex selectors does.
type Selector struct {
	ComplexSelectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors joined by combinators.
// The last compound is the subject.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors that all apply to one
// element.
type CompoundSelector struct {
	Type              string // "" or "*" for any element
	IDs               []string
	Classes           []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClass
	Combinator        Combinator // combinator to the next compound
}

// Combinator joins two compound selectors.
type Combinator int

const (
	CombinatorNone              Combinator = iota
	CombinatorDescendant                   // whitespace
	CombinatorChild                        // >
	CombinatorNextSibling                  // +
	CombinatorSubsequentSibling            // ~
)

// AttributeOperator is the comparison of an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

// AttributeMatcher is an attribute selector.
type AttributeMatcher struct {
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// PseudoClass is a structural pseudo-class. Argument holds the An+B text of
// :nth-child and friends; Selector the argument of :not.
type PseudoClass struct {
	Name     string
	Argument string
	Selector *Selector
}

// SyntaxError reports where a selector stopped parsing.
type SyntaxError struct {
	Selector string
	Offset   int
	Reason   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("css: invalid selector %q at offset %d: %s", e.Selector, e.Offset, e.Reason)
}

// ParseSelector parses a selector list such as "div > p.note, #main a[href]".
func ParseSelector(input string) (*Selector, error) {
	p := &selectorParser{input: input}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return sel, nil
}

type selectorParser struct {
	input string
	pos   int
}

func (p *selectorParser) eof() bool { return p.pos >= len(p.input) }

func (p *selectorParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *selectorParser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Selector: p.input, Offset: p.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *selectorParser) skipWhitespace() bool {
	start := p.pos
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
	return p.pos > start
}

// parseSelector parses a comma separated list up to the end of input or an
// unmatched ')'.
func (p *selectorParser) parseSelector() (*Selector, error) {
	sel := &Selector{}
	for {
		p.skipWhitespace()
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		sel.ComplexSelectors = append(sel.ComplexSelectors, complex)
		p.skipWhitespace()
		if p.peek() != ',' {
			return sel, nil
		}
		p.pos++
	}
}

func (p *selectorParser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}
	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		switch c := p.peek(); {
		case c == '>':
			compound.Combinator = CombinatorChild
		case c == '+':
			compound.Combinator = CombinatorNextSibling
		case c == '~':
			compound.Combinator = CombinatorSubsequentSibling
		case c == 0 || c == ',' || c == ')':
			return complex, nil
		case hadWhitespace:
			compound.Combinator = CombinatorDescendant
			continue
		default:
			return nil, p.errorf("unexpected %q", c)
		}
		p.pos++
		p.skipWhitespace()
	}
}

func (p *selectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	start := p.pos

	if p.peek() == '*' {
		p.pos++
		compound.Type = "*"
	} else if isNameStart(p.peek()) {
		compound.Type = strings.ToLower(p.parseIdent())
	}

	for {
		switch p.peek() {
		case '#':
			p.pos++
			id := p.parseName()
			if id == "" {
				return nil, p.errorf("expected id after '#'")
			}
			compound.IDs = append(compound.IDs, id)
		case '.':
			p.pos++
			class := p.parseIdent()
			if class == "" {
				return nil, p.errorf("expected class name after '.'")
			}
			compound.Classes = append(compound.Classes, class)
		case '[':
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)
		case ':':
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.PseudoClasses = append(compound.PseudoClasses, pc)
		default:
			if p.pos == start {
				if p.eof() {
					return nil, p.errorf("expected selector")
				}
				return nil, p.errorf("unexpected %q", p.peek())
			}
			return compound, nil
		}
	}
}

func (p *selectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.pos++ // [
	p.skipWhitespace()

	attr := &AttributeMatcher{Name: strings.ToLower(p.parseIdent())}
	if attr.Name == "" {
		return nil, p.errorf("expected attribute name")
	}
	p.skipWhitespace()

	if p.peek() == ']' {
		p.pos++
		attr.Operator = AttrExists
		return attr, nil
	}

	switch p.peek() {
	case '=':
		attr.Operator = AttrEquals
	case '~':
		attr.Operator = AttrIncludes
	case '|':
		attr.Operator = AttrDashMatch
	case '^':
		attr.Operator = AttrPrefix
	case '$':
		attr.Operator = AttrSuffix
	case '*':
		attr.Operator = AttrSubstring
	default:
		return nil, p.errorf("expected attribute operator")
	}
	p.pos++
	if attr.Operator != AttrEquals {
		if p.peek() != '=' {
			return nil, p.errorf("expected '='")
		}
		p.pos++
	}
	p.skipWhitespace()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	attr.Value = value
	p.skipWhitespace()

	if c := p.peek(); c == 'i' || c == 'I' {
		p.pos++
		attr.CaseInsensitive = true
		p.skipWhitespace()
	} else if c == 's' || c == 'S' {
		p.pos++
		p.skipWhitespace()
	}

	if p.peek() != ']' {
		return nil, p.errorf("expected ']'")
	}
	p.pos++
	return attr, nil
}

// parseValue reads a quoted string or an identifier.
func (p *selectorParser) parseValue() (string, error) {
	quote := p.peek()
	if quote != '"' && quote != '\'' {
		v := p.parseIdent()
		if v == "" {
			return "", p.errorf("expected attribute value")
		}
		return v, nil
	}
	p.pos++
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		switch c {
		case quote:
			return sb.String(), nil
		case '\\':
			if !p.eof() {
				sb.WriteByte(p.peek())
				p.pos++
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}

var structuralPseudoClasses = map[string]bool{
	"root":          true,
	"empty":         true,
	"first-child":   true,
	"last-child":    true,
	"only-child":    true,
	"first-of-type": true,
	"last-of-type":  true,
	"only-of-type":  true,
}

func (p *selectorParser) parsePseudoClass() (*PseudoClass, error) {
	p.pos++ // :
	if p.peek() == ':' {
		return nil, p.errorf("pseudo-elements never match elements")
	}
	name := strings.ToLower(p.parseIdent())
	if name == "" {
		return nil, p.errorf("expected pseudo-class name")
	}
	pc := &PseudoClass{Name: name}

	if p.peek() != '(' {
		if !structuralPseudoClasses[name] {
			return nil, p.errorf("unsupported pseudo-class :%s", name)
		}
		return pc, nil
	}
	p.pos++ // (

	switch name {
	case "not":
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		pc.Selector = sel
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		end := strings.IndexByte(p.input[p.pos:], ')')
		if end < 0 {
			return nil, p.errorf("expected ')'")
		}
		pc.Argument = strings.TrimSpace(p.input[p.pos : p.pos+end])
		if _, _, ok := parseAnPlusB(pc.Argument); !ok {
			return nil, p.errorf("invalid An+B %q", pc.Argument)
		}
		p.pos += end
	default:
		return nil, p.errorf("unsupported pseudo-class :%s()", name)
	}

	p.skipWhitespace()
	if p.peek() != ')' {
		return nil, p.errorf("expected ')'")
	}
	p.pos++
	return pc, nil
}

// parseIdent reads a CSS identifier, honouring backslash escapes of single
// characters.
func (p *selectorParser) parseIdent() string {
	if p.eof() {
		return ""
	}
	if c := p.peek(); !isNameStart(c) && c != '-' && c != '\\' {
		return ""
	}
	return p.parseName()
}

func (p *selectorParser) parseName() string {
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		if c == '\\' && p.pos+1 < len(p.input) {
			sb.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if !isNameChar(c) {
			break
		}
		sb.WriteByte(c)
		p.pos++
	}
	return sb.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-'
}
