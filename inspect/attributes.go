package inspect

// Attributes maps an attribute name to the value it must have.
type Attributes map[string]string

// Match reports whether el carries every attribute in a with a byte-equal
// value. A nil or empty filter matches any element.
func (a Attributes) Match(el Node) bool {
	for name, want := range a {
		if !el.HasAttribute(name) || el.GetAttribute(name) != want {
			return false
		}
	}
	return true
}
