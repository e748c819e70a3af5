package js

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/selinspect/dom"
)

// ScriptLoader returns the source of an external script.
type ScriptLoader func(ctx context.Context, src string) (string, error)

// ScriptExecutor runs the scripts of a document with the selection globals
// installed.
type ScriptExecutor struct {
	runtime *Runtime
	binder  *Binder
	loader  ScriptLoader
}

// NewScriptExecutor creates an executor on runtime.
func NewScriptExecutor(runtime *Runtime) *ScriptExecutor {
	return &ScriptExecutor{
		runtime: runtime,
		binder:  NewBinder(runtime),
	}
}

// Runtime returns the executor's runtime.
func (se *ScriptExecutor) Runtime() *Runtime {
	return se.runtime
}

// SetScriptLoader enables external scripts. Without a loader, scripts with
// a src attribute are skipped.
func (se *ScriptExecutor) SetScriptLoader(loader ScriptLoader) {
	se.loader = loader
}

// SetupDocument binds doc to the runtime.
func (se *ScriptExecutor) SetupDocument(doc *dom.Document) {
	se.binder.BindDocument(doc)
}

// ExecuteScripts runs every script element of doc in tree order. A failing
// script does not stop the ones after it; all errors are returned.
func (se *ScriptExecutor) ExecuteScripts(ctx context.Context, doc *dom.Document) []error {
	var errs []error
	for _, script := range doc.GetElementsByTagName("script") {
		if err := se.executeScript(ctx, script); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (se *ScriptExecutor) executeScript(ctx context.Context, script *dom.Element) error {
	typ := script.GetAttribute("type")
	if isModuleType(typ) {
		se.runtime.logger.Debug("skipping module script", zap.String("src", script.GetAttribute("src")))
		return nil
	}
	if !isJavaScriptType(typ) {
		return nil
	}

	name := script.GetAttribute("id")
	if name == "" {
		name = "inline"
	}

	var code string
	if src := script.GetAttribute("src"); src != "" {
		if se.loader == nil {
			se.runtime.logger.Debug("skipping external script", zap.String("src", src))
			return nil
		}
		loaded, err := se.loader(ctx, src)
		if err != nil {
			return fmt.Errorf("load script %s: %w", src, err)
		}
		code, name = loaded, src
	} else {
		code = strings.TrimSpace(script.TextContent())
	}
	if code == "" {
		return nil
	}

	se.runtime.logger.Debug("executing script", zap.String("script", name))
	if err := se.runtime.ExecuteScript(code, name); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// Eval runs code after the document's own scripts, for callers that drive
// the selection themselves.
func (se *ScriptExecutor) Eval(code string) error {
	_, err := se.runtime.Execute(code)
	return err
}

// isJavaScriptType reports a classic script type. Module scripts are not
// classic and are never run.
func isJavaScriptType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text/javascript", "application/javascript":
		return true
	}
	return false
}

func isModuleType(t string) bool {
	return strings.EqualFold(strings.TrimSpace(t), "module")
}
