package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/selinspect/dom"
)

const testPage = `<html><head></head><body><div id="root">` +
	`<p id="p1">Hello <b>bold</b></p>` +
	`<p id="p2">More <span class="x" id="y">s</span></p>` +
	`</div><p id="out"><i>o</i></p></body></html>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (report, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		return report{}, err
	}
	var r report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r), out.String())
	return r, nil
}

func TestQuerySelectID(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	r, err := execute(t, "query", "--html", page, "--select-id", "root",
		"--tag", "SPAN", "--attr", "class=x", "--attr", "id=y")
	require.NoError(t, err)

	assert.Equal(t, "Range", r.Type)
	assert.Equal(t, "Hello boldMore s", r.Text)
	require.NotNil(t, r.Container)
	assert.Equal(t, "DIV", *r.Container)
	require.NotNil(t, r.Match)
	assert.True(t, *r.Match)
}

func TestQueryBoundaryPoints(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	r, err := execute(t, "query", "--html", page,
		"--start", "0/1/0/0/0:2", "--end", "0/1/0/1/0:3", "--tag", "i")
	require.NoError(t, err)

	assert.Equal(t, "Range", r.Type)
	assert.Equal(t, "llo boldMor", r.Text)
	require.NotNil(t, r.Container)
	assert.Equal(t, "DIV", *r.Container)
	require.NotNil(t, r.Match)
	assert.False(t, *r.Match, "i lies outside the container")
}

func TestQueryNoSelection(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	r, err := execute(t, "query", "--html", page)
	require.NoError(t, err)
	assert.Equal(t, "None", r.Type)
	assert.Nil(t, r.Container)
	assert.Nil(t, r.Match)

	r, err = execute(t, "query", "--html", page, "--tag", "span")
	require.NoError(t, err)
	require.NotNil(t, r.Match)
	assert.False(t, *r.Match)
}

func TestQueryCaret(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	r, err := execute(t, "query", "--html", page,
		"--start", "0/1/0/0/0:1", "--end", "0/1/0/0/0:1", "--tag", "b")
	require.NoError(t, err)
	assert.Equal(t, "Caret", r.Type)
	assert.Nil(t, r.Container)
	assert.False(t, *r.Match)
}

func TestQueryErrors(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"query", "--html", filepath.Join(t.TempDir(), "nope.html")}, "no such file"},
		{"unknown id", []string{"query", "--html", page, "--select-id", "nope"}, `no element with id "nope"`},
		{"bad attr", []string{"query", "--html", page, "--select-id", "root", "--tag", "p", "--attr", "class"}, "invalid --attr"},
		{"bad path", []string{"query", "--html", page, "--start", "0/9:0", "--end", "0:0"}, "has no child 9"},
		{"bad offset", []string{"query", "--html", page, "--start", "0/1/0/0/0:99", "--end", "0/1/0/0/0:1"}, "IndexSizeError"},
		{"start without end", []string{"query", "--html", page, "--start", "0:0"}, "end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolvePoint(t *testing.T) {
	doc, err := dom.ParseHTML(testPage)
	require.NoError(t, err)

	node, offset, err := resolvePoint(doc, ":0")
	require.NoError(t, err)
	assert.Same(t, doc.AsNode(), node)
	assert.Equal(t, 0, offset)

	node, offset, err = resolvePoint(doc, "/0/1/0/1/1/:1")
	require.NoError(t, err)
	assert.Equal(t, "SPAN", node.NodeName())
	assert.Equal(t, 1, offset)

	_, _, err = resolvePoint(doc, "0/1")
	assert.ErrorContains(t, err, "want PATH:OFFSET")

	_, _, err = resolvePoint(doc, "0/x:1")
	assert.ErrorContains(t, err, `invalid path step "x"`)

	_, _, err = resolvePoint(doc, "0:y")
	assert.ErrorContains(t, err, "invalid offset")
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
log_level: debug
browser:
  control_url: ws://127.0.0.1:9222/devtools/browser/x
  timeout: 5s
  stealth: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/x", cfg.Browser.ControlURL)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout)
	assert.True(t, cfg.Browser.Stealth)
	assert.True(t, cfg.Browser.Headless, "unset keys keep defaults")
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = LoadConfig(writeFile(t, "bad.yaml", "browser: [1, 2"))
	assert.ErrorContains(t, err, "parse config")
}

func TestInvalidLogLevel(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "log_level: loud\n")
	page := writeFile(t, "page.html", testPage)

	_, err := execute(t, "--config", cfg, "query", "--html", page)
	assert.ErrorContains(t, err, `invalid log_level "loud"`)
}

func TestQueryCSSSelector(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	r, err := execute(t, "query", "--html", page, "--select", "#root > p:last-child", "--tag", "span", "--attr", "class=x")
	require.NoError(t, err)
	assert.Equal(t, "More s", r.Text)
	require.NotNil(t, r.Container)
	assert.Equal(t, "P", *r.Container)
	assert.True(t, *r.Match)

	_, err = execute(t, "query", "--html", page, "--select", "table")
	assert.ErrorContains(t, err, `no element matches "table"`)

	_, err = execute(t, "query", "--html", page, "--select", "p >")
	assert.ErrorContains(t, err, "invalid selector")

	_, err = execute(t, "query", "--html", page, "--select", "p", "--select-id", "root")
	assert.Error(t, err)
}

func TestQueryRunScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sel.js"),
		[]byte(`getSelection().selectAllChildren(document.querySelector("#p2"));`), 0o644))
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page,
		[]byte(testPage+`<script src="sel.js"></script><script>broken(</script>`), 0o644))

	r, err := execute(t, "query", "--html", page, "--tag", "span")
	require.NoError(t, err)
	assert.Equal(t, "None", r.Type, "scripts do not run without --run-scripts")

	r, err = execute(t, "query", "--html", page, "--run-scripts", "--tag", "span")
	require.NoError(t, err)
	assert.Equal(t, "Range", r.Type)
	require.NotNil(t, r.Container)
	assert.Equal(t, "P", *r.Container)
	assert.True(t, *r.Match)
}

func TestQueryEval(t *testing.T) {
	page := writeFile(t, "page.html", testPage)

	r, err := execute(t, "query", "--html", page, "--tag", "b",
		"--eval", `getSelection().selectAllChildren(document.getElementById("root"))`)
	require.NoError(t, err)
	assert.Equal(t, "DIV", *r.Container)
	assert.True(t, *r.Match)

	_, err = execute(t, "query", "--html", page, "--eval", "selRange()")
	assert.ErrorContains(t, err, "--eval")
	assert.ErrorContains(t, err, "NoSelectionError")
}

func TestQueryDataURL(t *testing.T) {
	r, err := execute(t, "query", "--html", "data:text/html,<p id=a>x<b>y</b></p>", "--select-id", "a", "--tag", "b")
	require.NoError(t, err)
	assert.Equal(t, "xy", r.Text)
	assert.True(t, *r.Match)
}
