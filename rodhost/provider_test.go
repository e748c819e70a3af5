package rodhost

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrisuehlinger/selinspect/inspect"
)

func fakeProvider(out string, err error, opts ...Option) *Provider {
	p := New(nil, opts...)
	p.eval = func(ctx context.Context, js string) (string, error) {
		return out, err
	}
	return p
}

func TestProviderSelection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := fakeProvider(`{"present":true,"rangeCount":1,"container":{"nodeType":1,"nodeName":"P","innerHTML":"<b>x</b>"}}`,
		nil, WithLogger(zap.New(core)))

	found, err := inspect.IsInSel(p, "b", nil)
	require.NoError(t, err)
	assert.True(t, found)

	entries := logs.FilterMessage("selection snapshot").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "P", entries[0].ContextMap()["container"])
}

func TestProviderEvalErrorPropagates(t *testing.T) {
	boom := errors.New("target closed")
	p := fakeProvider("", boom)

	_, err := inspect.SelRange(p)
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "rodhost: evaluate selection")

	_, err = inspect.IsInSel(p, "b", nil)
	assert.ErrorIs(t, err, boom)
}

func TestProviderNoSelection(t *testing.T) {
	p := fakeProvider(`{"present":true,"collapsed":true,"rangeCount":0}`, nil)

	_, err := inspect.SelRange(p)
	assert.ErrorIs(t, err, inspect.ErrNoSelection)
}

func TestWithContextKeepsOriginal(t *testing.T) {
	var seen []context.Context
	p := New(nil)
	p.eval = func(ctx context.Context, js string) (string, error) {
		seen = append(seen, ctx)
		return `{"present":false}`, nil
	}

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	_, err := p.WithContext(ctx).Selection()
	require.NoError(t, err)
	_, err = p.Selection()
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, "v", seen[0].Value(key{}))
	assert.Nil(t, seen[1].Value(key{}))
}

func TestLiveChrome(t *testing.T) {
	if os.Getenv("SELINSPECT_CHROME") != "1" {
		t.Skip("set SELINSPECT_CHROME=1 to run against a local Chrome")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	browser, err := Launch(ctx, DefaultConfig(), nil)
	require.NoError(t, err)
	defer browser.Close()

	page, err := browser.Open(ctx, "about:blank", true)
	require.NoError(t, err)
	require.NoError(t, page.SetDocumentContent(
		`<div id="root"><p>a <span class="x" id="y">b</span></p><p>c</p></div>`))

	p := New(page).WithContext(ctx)

	_, err = inspect.SelRange(p)
	assert.ErrorIs(t, err, inspect.ErrNoSelection)

	require.NoError(t, p.Select(ctx, "#root"))

	container, err := inspect.SelContainer(p)
	require.NoError(t, err)
	require.NotNil(t, container)
	assert.Equal(t, "DIV", container.NodeName())

	found, err := inspect.IsInSel(p, "span", inspect.Attributes{"class": "x", "id": "y"})
	require.NoError(t, err)
	assert.True(t, found)
}
