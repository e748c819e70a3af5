// Package js exposes a dom.Document and its selection to scripts running in
// the goja JavaScript engine, including the selRange, selContainer and
// isInSel helpers.
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Runtime wraps a goja runtime. goja runtimes are not safe for concurrent
// use, so every entry point takes mu.
type Runtime struct {
	vm      *goja.Runtime
	logger  *zap.Logger
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithLogger routes console output and script errors to l.
func WithLogger(l *zap.Logger) RuntimeOption {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRuntime creates a runtime with a console object installed.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		vm:     goja.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.setupConsole()
	return r
}

// VM returns the underlying goja runtime. Callers must not use it while a
// script is executing on another goroutine.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// SetOnError sets a callback for script errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs code and returns its completion value. Panics raised inside
// the engine are turned into errors.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript runs code as a script named name, which appears in stack
// traces and error messages.
func (r *Runtime) ExecuteScript(code, name string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s panic: %v", name, p)
			r.recordError(err)
		}
	}()

	if _, err = r.vm.RunScript(name, code); err != nil {
		r.recordError(err)
	}
	return err
}

func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.logger.Debug("script error", zap.Error(err))
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors recorded so far.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors forgets recorded errors.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	levels := map[string]func(string, ...zap.Field){
		"log":   r.logger.Info,
		"info":  r.logger.Info,
		"debug": r.logger.Debug,
		"warn":  r.logger.Warn,
		"error": r.logger.Error,
	}
	for name, logf := range levels {
		logf := logf
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			logf("console", zap.String("message", formatArgs(call.Arguments)))
			return goja.Undefined()
		})
	}
	r.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
