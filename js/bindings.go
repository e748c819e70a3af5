package js

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/selinspect/css"
	"github.com/chrisuehlinger/selinspect/dom"
	"github.com/chrisuehlinger/selinspect/inspect"
)

// Binder exposes one dom.Document to a Runtime. It hands out the same
// JavaScript object every time a given node or range is returned.
type Binder struct {
	runtime   *Runtime
	document  *dom.Document
	inspector *inspect.Inspector

	nodes   map[*dom.Node]*goja.Object
	goNodes map[*goja.Object]*dom.Node
	ranges  map[*dom.Range]*goja.Object
}

// NewBinder creates a binder for runtime.
func NewBinder(runtime *Runtime) *Binder {
	return &Binder{
		runtime: runtime,
		nodes:   make(map[*dom.Node]*goja.Object),
		goNodes: make(map[*goja.Object]*dom.Node),
		ranges:  make(map[*dom.Range]*goja.Object),
	}
}

// BindDocument installs document, getSelection, Node and the selection
// helpers selRange, selContainer and isInSel as globals.
func (b *Binder) BindDocument(doc *dom.Document) {
	b.runtime.mu.Lock()
	defer b.runtime.mu.Unlock()

	b.document = doc
	b.inspector = inspect.New(inspect.Document(doc), inspect.WithLogger(b.runtime.logger))
	vm := b.runtime.vm

	vm.Set("Node", b.nodeConstants())
	vm.Set("document", b.bindDocumentObject(doc))

	getSelection := func(call goja.FunctionCall) goja.Value {
		return b.bindSelection(doc.GetSelection())
	}
	window := vm.NewObject()
	window.Set("getSelection", getSelection)
	vm.Set("window", window)
	vm.Set("getSelection", getSelection)

	vm.Set("selRange", b.selRange)
	vm.Set("selContainer", b.selContainer)
	vm.Set("isInSel", b.isInSel)
}

func (b *Binder) nodeConstants() *goja.Object {
	obj := b.runtime.vm.NewObject()
	for _, nt := range []dom.NodeType{
		dom.ElementNode, dom.AttributeNode, dom.TextNode, dom.CDATASectionNode,
		dom.ProcessingInstructionNode, dom.CommentNode, dom.DocumentNode,
		dom.DocumentTypeNode, dom.DocumentFragmentNode,
	} {
		obj.Set(nt.String(), int(nt))
	}
	return obj
}

func (b *Binder) selRange(call goja.FunctionCall) goja.Value {
	r, err := b.inspector.SelRange()
	if err != nil {
		b.throw(err)
	}
	return b.BindRange(inspect.UnwrapRange(r))
}

func (b *Binder) selContainer(call goja.FunctionCall) goja.Value {
	n, err := b.inspector.SelContainer()
	if err != nil {
		b.throw(err)
	}
	if n == nil {
		return goja.Null()
	}
	return b.BindNode(inspect.UnwrapNode(n))
}

func (b *Binder) isInSel(call goja.FunctionCall) goja.Value {
	vm := b.runtime.vm
	attrs, ok := b.attributeFilter(call.Argument(1))
	if !ok {
		// A non-string required value can never equal an attribute value.
		return vm.ToValue(false)
	}
	found, err := b.inspector.IsInSel(call.Argument(0).String(), attrs)
	if err != nil {
		b.throw(err)
	}
	return vm.ToValue(found)
}

// attributeFilter converts the optional attributes argument. ok is false
// when some required value is not a string.
func (b *Binder) attributeFilter(v goja.Value) (attrs inspect.Attributes, ok bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, true
	}
	obj := v.ToObject(b.runtime.vm)
	attrs = make(inspect.Attributes)
	for _, key := range obj.Keys() {
		s, isString := obj.Get(key).Export().(string)
		if !isString {
			return nil, false
		}
		attrs[key] = s
	}
	return attrs, true
}

// throw raises err as a JavaScript exception named after the DOM
// exception or the inspector error it represents.
func (b *Binder) throw(err error) {
	name := "Error"
	var de *dom.DOMError
	switch {
	case errors.As(err, &de):
		name = de.Name
	case errors.Is(err, inspect.ErrNoSelection):
		name = "NoSelectionError"
	}
	vm := b.runtime.vm
	exc, cerr := vm.New(vm.Get("Error"), vm.ToValue(err.Error()))
	if cerr != nil {
		panic(vm.NewGoError(err))
	}
	exc.Set("name", name)
	panic(exc)
}

func (b *Binder) bindDocumentObject(doc *dom.Document) *goja.Object {
	obj := b.BindNode(doc.AsNode())
	obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		el := doc.GetElementById(call.Argument(0).String())
		if el == nil {
			return goja.Null()
		}
		return b.BindNode(el.AsNode())
	})
	b.accessor(obj, "documentElement", func() goja.Value {
		return b.elementOrNull(doc.DocumentElement())
	})
	b.accessor(obj, "body", func() goja.Value {
		return b.elementOrNull(doc.Body())
	})
	obj.Set("createRange", func(call goja.FunctionCall) goja.Value {
		return b.BindRange(doc.CreateRange())
	})
	obj.Set("getSelection", func(call goja.FunctionCall) goja.Value {
		return b.bindSelection(doc.GetSelection())
	})
	return obj
}

func (b *Binder) elementOrNull(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.BindNode(el.AsNode())
}

func (b *Binder) nodeOrNull(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	return b.BindNode(n)
}

func (b *Binder) accessor(obj *goja.Object, name string, get func() goja.Value) {
	vm := b.runtime.vm
	obj.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value {
		return get()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// BindNode returns the JavaScript object for node.
func (b *Binder) BindNode(node *dom.Node) *goja.Object {
	if node == nil {
		return nil
	}
	if obj, ok := b.nodes[node]; ok {
		return obj
	}

	vm := b.runtime.vm
	obj := vm.NewObject()
	obj.Set("nodeType", int(node.NodeType()))
	obj.Set("nodeName", node.NodeName())
	b.accessor(obj, "nodeValue", func() goja.Value {
		if node.NodeType() == dom.ElementNode || node.NodeType() == dom.DocumentNode {
			return goja.Null()
		}
		return vm.ToValue(node.NodeValue())
	})
	b.accessor(obj, "textContent", func() goja.Value {
		if node.NodeType() == dom.DocumentNode {
			return goja.Null()
		}
		return vm.ToValue(node.TextContent())
	})
	b.accessor(obj, "parentNode", func() goja.Value {
		return b.nodeOrNull(node.ParentNode())
	})
	b.accessor(obj, "firstChild", func() goja.Value {
		return b.nodeOrNull(node.FirstChild())
	})
	b.accessor(obj, "nextSibling", func() goja.Value {
		return b.nodeOrNull(node.NextSibling())
	})
	b.accessor(obj, "childNodes", func() goja.Value {
		children := node.ChildNodes().Slice()
		items := make([]interface{}, len(children))
		for i, c := range children {
			items[i] = b.BindNode(c)
		}
		return vm.NewArray(items...)
	})
	if node.NodeType() == dom.ElementNode || node.NodeType() == dom.DocumentNode {
		b.bindQueries(obj, node)
	}
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		other := b.nodeFrom(call.Argument(0))
		return vm.ToValue(other != nil && node.Contains(other))
	})

	if node.NodeType() == dom.ElementNode {
		el := (*dom.Element)(node)
		obj.Set("tagName", el.TagName())
		obj.Set("localName", el.LocalName())
		obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(el.HasAttribute(call.Argument(0).String()))
		})
		obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
			name := call.Argument(0).String()
			if !el.HasAttribute(name) {
				return goja.Null()
			}
			return vm.ToValue(el.GetAttribute(name))
		})
		b.accessor(obj, "id", func() goja.Value { return vm.ToValue(el.Id()) })
		b.accessor(obj, "namespaceURI", func() goja.Value { return vm.ToValue(el.NamespaceURI()) })
		b.accessor(obj, "outerHTML", func() goja.Value { return b.markup(el.OuterHTML()) })
		b.accessor(obj, "innerHTML", func() goja.Value { return b.markup(el.InnerHTML()) })
	}

	b.nodes[node] = obj
	b.goNodes[obj] = node
	return obj
}

func (b *Binder) markup(s string, err error) goja.Value {
	if err != nil {
		b.throw(err)
	}
	return b.runtime.vm.ToValue(s)
}

// bindQueries adds querySelector and querySelectorAll scoped to node.
// Invalid selectors throw a SyntaxError.
func (b *Binder) bindQueries(obj *goja.Object, node *dom.Node) {
	vm := b.runtime.vm
	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		el, err := css.QuerySelector(node, call.Argument(0).String())
		if err != nil {
			b.throw(dom.ErrSyntax(err.Error()))
		}
		return b.elementOrNull(el)
	})
	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		els, err := css.QuerySelectorAll(node, call.Argument(0).String())
		if err != nil {
			b.throw(dom.ErrSyntax(err.Error()))
		}
		items := make([]interface{}, len(els))
		for i, el := range els {
			items[i] = b.BindNode(el.AsNode())
		}
		return vm.NewArray(items...)
	})
}

// nodeFrom maps a JavaScript value back to the node it was bound from.
func (b *Binder) nodeFrom(v goja.Value) *dom.Node {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return b.goNodes[obj]
}

// BindRange returns the JavaScript object for r.
func (b *Binder) BindRange(r *dom.Range) *goja.Object {
	if r == nil {
		return nil
	}
	if obj, ok := b.ranges[r]; ok {
		return obj
	}

	vm := b.runtime.vm
	obj := vm.NewObject()
	b.accessor(obj, "startContainer", func() goja.Value { return b.nodeOrNull(r.StartContainer()) })
	b.accessor(obj, "startOffset", func() goja.Value { return vm.ToValue(r.StartOffset()) })
	b.accessor(obj, "endContainer", func() goja.Value { return b.nodeOrNull(r.EndContainer()) })
	b.accessor(obj, "endOffset", func() goja.Value { return vm.ToValue(r.EndOffset()) })
	b.accessor(obj, "collapsed", func() goja.Value { return vm.ToValue(r.Collapsed()) })
	b.accessor(obj, "commonAncestorContainer", func() goja.Value {
		return b.nodeOrNull(r.CommonAncestorContainer())
	})
	obj.Set("setStart", func(call goja.FunctionCall) goja.Value {
		if err := r.SetStart(b.nodeFrom(call.Argument(0)), int(call.Argument(1).ToInteger())); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("setEnd", func(call goja.FunctionCall) goja.Value {
		if err := r.SetEnd(b.nodeFrom(call.Argument(0)), int(call.Argument(1).ToInteger())); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	b.nodeMethod(obj, "setStartBefore", r.SetStartBefore)
	b.nodeMethod(obj, "setStartAfter", r.SetStartAfter)
	b.nodeMethod(obj, "setEndBefore", r.SetEndBefore)
	b.nodeMethod(obj, "setEndAfter", r.SetEndAfter)
	b.nodeMethod(obj, "selectNode", r.SelectNode)
	b.nodeMethod(obj, "selectNodeContents", r.SelectNodeContents)
	obj.Set("collapse", func(call goja.FunctionCall) goja.Value {
		r.Collapse(call.Argument(0).ToBoolean())
		return goja.Undefined()
	})
	obj.Set("cloneRange", func(call goja.FunctionCall) goja.Value {
		return b.BindRange(r.CloneRange())
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(r.ToString())
	})

	b.ranges[r] = obj
	return obj
}

// nodeMethod defines a method taking a single node argument and throwing
// the DOM error fn returns.
func (b *Binder) nodeMethod(obj *goja.Object, name string, fn func(*dom.Node) error) {
	obj.Set(name, func(call goja.FunctionCall) goja.Value {
		if err := fn(b.nodeFrom(call.Argument(0))); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
}

// bindSelection builds a fresh view of sel; its properties read live state.
func (b *Binder) bindSelection(sel *dom.Selection) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()
	b.accessor(obj, "isCollapsed", func() goja.Value { return vm.ToValue(sel.IsCollapsed()) })
	b.accessor(obj, "rangeCount", func() goja.Value { return vm.ToValue(sel.RangeCount()) })
	b.accessor(obj, "type", func() goja.Value { return vm.ToValue(sel.Type()) })
	b.accessor(obj, "anchorNode", func() goja.Value { return b.nodeOrNull(sel.AnchorNode()) })
	b.accessor(obj, "anchorOffset", func() goja.Value { return vm.ToValue(sel.AnchorOffset()) })
	b.accessor(obj, "focusNode", func() goja.Value { return b.nodeOrNull(sel.FocusNode()) })
	b.accessor(obj, "focusOffset", func() goja.Value { return vm.ToValue(sel.FocusOffset()) })
	b.accessor(obj, "direction", func() goja.Value {
		switch {
		case sel.RangeCount() == 0 || sel.IsCollapsed():
			return vm.ToValue("none")
		case sel.IsBackward():
			return vm.ToValue("backward")
		}
		return vm.ToValue("forward")
	})

	obj.Set("getRangeAt", func(call goja.FunctionCall) goja.Value {
		r, err := sel.GetRangeAt(int(call.Argument(0).ToInteger()))
		if err != nil {
			b.throw(err)
		}
		return b.BindRange(r)
	})
	obj.Set("addRange", func(call goja.FunctionCall) goja.Value {
		if ro, ok := call.Argument(0).(*goja.Object); ok {
			for r, bound := range b.ranges {
				if bound == ro {
					sel.AddRange(r)
					break
				}
			}
		}
		return goja.Undefined()
	})
	obj.Set("removeRange", func(call goja.FunctionCall) goja.Value {
		var target *dom.Range
		if ro, ok := call.Argument(0).(*goja.Object); ok {
			for r, bound := range b.ranges {
				if bound == ro {
					target = r
					break
				}
			}
		}
		if err := sel.RemoveRange(target); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("removeAllRanges", func(call goja.FunctionCall) goja.Value {
		sel.RemoveAllRanges()
		return goja.Undefined()
	})
	obj.Set("collapse", func(call goja.FunctionCall) goja.Value {
		if err := sel.Collapse(b.nodeFrom(call.Argument(0)), int(call.Argument(1).ToInteger())); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("collapseToStart", func(call goja.FunctionCall) goja.Value {
		if err := sel.CollapseToStart(); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("collapseToEnd", func(call goja.FunctionCall) goja.Value {
		if err := sel.CollapseToEnd(); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("extend", func(call goja.FunctionCall) goja.Value {
		if err := sel.Extend(b.nodeFrom(call.Argument(0)), int(call.Argument(1).ToInteger())); err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	b.nodeMethod(obj, "selectAllChildren", sel.SelectAllChildren)
	obj.Set("setBaseAndExtent", func(call goja.FunctionCall) goja.Value {
		err := sel.SetBaseAndExtent(
			b.nodeFrom(call.Argument(0)), int(call.Argument(1).ToInteger()),
			b.nodeFrom(call.Argument(2)), int(call.Argument(3).ToInteger()),
		)
		if err != nil {
			b.throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(sel.ToString())
	})
	return obj
}
