package inspect

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrNoSelection is returned by SelRange when the host has no selection
// or the selection holds no range.
var ErrNoSelection = errors.New("inspect: no selection")

// Inspector runs selection queries against a Provider. It keeps no state
// between calls; every query re-reads the host.
type Inspector struct {
	provider Provider
	logger   *zap.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger used for debug tracing of queries.
func WithLogger(l *zap.Logger) Option {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l
		}
	}
}

// New returns an Inspector reading from p.
func New(p Provider, opts ...Option) *Inspector {
	i := &Inspector{
		provider: p,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SelRange returns the first range of the current selection. A collapsed
// selection still has a range and returns it.
func (i *Inspector) SelRange() (Range, error) {
	sel, err := i.provider.Selection()
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.RangeCount() == 0 {
		return nil, ErrNoSelection
	}
	return sel.RangeAt(0)
}

// SelContainer returns the common ancestor of the first range of a
// non-collapsed selection, or nil when there is nothing selected.
func (i *Inspector) SelContainer() (Node, error) {
	sel, err := i.provider.Selection()
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.IsCollapsed() || sel.RangeCount() == 0 {
		i.logger.Debug("no active selection")
		return nil, nil
	}
	r, err := sel.RangeAt(0)
	if err != nil {
		return nil, err
	}
	container := r.CommonAncestorContainer()
	if container != nil {
		i.logger.Debug("selection container", zap.String("node", container.NodeName()))
	}
	return container, nil
}

// IsInSel reports whether a descendant element of the selection's common
// ancestor has the given tag name (compared case-insensitively) and carries
// every attribute in attrs. The container itself is not tested.
func (i *Inspector) IsInSel(tagName string, attrs Attributes) (bool, error) {
	container, err := i.SelContainer()
	if err != nil || container == nil {
		return false, err
	}
	found := findElement(container, tagName, attrs)
	i.logger.Debug("isInSel",
		zap.String("tag", tagName),
		zap.Int("attributes", len(attrs)),
		zap.Bool("found", found))
	return found, nil
}

// findElement walks the element descendants of container in pre-order with
// an explicit stack and stops at the first match.
func findElement(container Node, tagName string, attrs Attributes) bool {
	stack := pushElements(nil, container)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if strings.EqualFold(n.NodeName(), tagName) && attrs.Match(n) {
			return true
		}
		stack = pushElements(stack, n)
	}
	return false
}

// pushElements pushes the element children of n in reverse so that the
// first child is popped first.
func pushElements(stack []Node, n Node) []Node {
	children := n.ChildNodes()
	for j := len(children) - 1; j >= 0; j-- {
		if children[j] != nil && children[j].IsElement() {
			stack = append(stack, children[j])
		}
	}
	return stack
}

// SelRange is New(p).SelRange().
func SelRange(p Provider) (Range, error) {
	return New(p).SelRange()
}

// SelContainer is New(p).SelContainer().
func SelContainer(p Provider) (Node, error) {
	return New(p).SelContainer()
}

// IsInSel is New(p).IsInSel(tagName, attrs).
func IsInSel(p Provider, tagName string, attrs Attributes) (bool, error) {
	return New(p).IsInSel(tagName, attrs)
}
