// Package rodhost reads the selection of a live Chrome page through go-rod
// and serves it to the inspect package.
package rodhost

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/selinspect/inspect"
)

// Provider implements inspect.Provider for a rod page. Each Selection call
// takes a fresh snapshot.
type Provider struct {
	page   *rod.Page
	ctx    context.Context
	logger *zap.Logger
	eval   func(ctx context.Context, js string) (string, error)
}

var _ inspect.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a provider reading page's selection.
func New(page *rod.Page, opts ...Option) *Provider {
	p := &Provider{
		page:   page,
		ctx:    context.Background(),
		logger: zap.NewNop(),
	}
	p.eval = p.evalPage
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithContext returns a shallow copy of p whose page calls use ctx.
func (p *Provider) WithContext(ctx context.Context) *Provider {
	cp := *p
	cp.ctx = ctx
	return &cp
}

func (p *Provider) evalPage(ctx context.Context, js string) (string, error) {
	res, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Selection snapshots window.getSelection() of the page.
func (p *Provider) Selection() (inspect.Selection, error) {
	snap, err := p.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Snapshot captures the page's selection.
func (p *Provider) Snapshot() (*Snapshot, error) {
	raw, err := p.eval(p.ctx, snapshotJS)
	if err != nil {
		return nil, fmt.Errorf("rodhost: evaluate selection: %w", err)
	}
	snap, err := Decode([]byte(raw))
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{
		zap.Bool("present", snap.Present),
		zap.Bool("collapsed", snap.Collapsed),
		zap.Int("rangeCount", snap.Ranges),
	}
	if snap.Container != nil {
		fields = append(fields, zap.String("container", snap.Container.NodeName))
	}
	p.logger.Debug("selection snapshot", fields...)
	return snap, nil
}

// Select makes the contents of the first element matching selector the
// page's selection.
func (p *Provider) Select(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("rodhost: find %q: %w", selector, err)
	}
	_, err = el.Eval(`function () {
		const r = document.createRange();
		r.selectNodeContents(this);
		const sel = window.getSelection();
		sel.removeAllRanges();
		sel.addRange(r);
	}`)
	if err != nil {
		return fmt.Errorf("rodhost: select %q: %w", selector, err)
	}
	p.logger.Debug("selected element contents", zap.String("selector", selector))
	return nil
}

// Browser is a connected browser plus the launcher that started it, if any.
type Browser struct {
	*rod.Browser
	launcher *launcher.Launcher
}

// Close closes the browser and removes a launched Chrome's user data.
func (b *Browser) Close() error {
	err := b.Browser.Close()
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}

// Open creates a tab and navigates it to url. With stealth set the tab is
// created through go-rod/stealth before navigating.
func (b *Browser) Open(ctx context.Context, url string, stealthMode bool) (*rod.Page, error) {
	var page *rod.Page
	var err error
	if stealthMode {
		page, err = stealth.Page(b.Browser)
	} else {
		page, err = b.Browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("rodhost: create tab: %w", err)
	}
	if err := page.Context(ctx).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("rodhost: navigate %s: %w", url, err)
	}
	return page, nil
}

// Launch connects to cfg.ControlURL or starts a local Chrome.
func Launch(ctx context.Context, cfg Config, logger *zap.Logger) (*Browser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var l *launcher.Launcher
	controlURL := cfg.ControlURL
	if controlURL == "" {
		l = launcher.New().Headless(cfg.Headless).Context(ctx)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("rodhost: launch: %w", err)
		}
		controlURL = u
		logger.Info("launched local chrome", zap.String("url", controlURL), zap.Bool("headless", cfg.Headless))
	} else {
		logger.Info("connecting to remote chrome", zap.String("url", controlURL))
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("rodhost: connect: %w", err)
	}
	return &Browser{Browser: b, launcher: l}, nil
}
