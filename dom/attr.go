package dom

// Attr is a single name/value pair on an Element.
type Attr struct {
	name  string
	value string
}

// Name returns the qualified attribute name.
func (a *Attr) Name() string { return a.name }

// Value returns the attribute value.
func (a *Attr) Value() string { return a.value }

func (ed *elementData) lookup(name string) *Attr {
	for _, a := range ed.attrs {
		if a.name == name {
			return a
		}
	}
	return nil
}

func (ed *elementData) set(name, value string) {
	if a := ed.lookup(name); a != nil {
		a.value = value
		return
	}
	ed.attrs = append(ed.attrs, &Attr{name: name, value: value})
}

func (ed *elementData) remove(name string) {
	for i, a := range ed.attrs {
		if a.name == name {
			ed.attrs = append(ed.attrs[:i], ed.attrs[i+1:]...)
			return
		}
	}
}
