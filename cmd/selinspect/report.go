package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/selinspect/inspect"
)

// report is what both commands print.
type report struct {
	Type      string  `json:"type"`
	Text      string  `json:"text"`
	Container *string `json:"container"`
	Match     *bool   `json:"match,omitempty"`
}

// query names the element isInSel looks for. An empty tag skips the check.
type query struct {
	tag   string
	attrs []string
}

func (q query) attributes() (inspect.Attributes, error) {
	if len(q.attrs) == 0 {
		return nil, nil
	}
	attrs := make(inspect.Attributes, len(q.attrs))
	for _, kv := range q.attrs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --attr %q, want name=value", kv)
		}
		attrs[k] = v
	}
	return attrs, nil
}

func buildReport(insp *inspect.Inspector, typ, text string, q query) (report, error) {
	r := report{Type: typ, Text: text}

	container, err := insp.SelContainer()
	if err != nil {
		return r, err
	}
	if container != nil {
		name := container.NodeName()
		r.Container = &name
	}

	if q.tag != "" {
		attrs, err := q.attributes()
		if err != nil {
			return r, err
		}
		found, err := insp.IsInSel(q.tag, attrs)
		if err != nil {
			return r, err
		}
		r.Match = &found
	}
	return r, nil
}

func writeReport(w io.Writer, r report, logger *zap.Logger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Debug("report written", zap.String("type", r.Type))
	return nil
}
