package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/selinspect/inspect"
	"github.com/chrisuehlinger/selinspect/rodhost"
)

type liveOptions struct {
	selector string
	query
}

func newLiveCmd(a *app) *cobra.Command {
	var opts liveOptions
	cmd := &cobra.Command{
		Use:   "live URL",
		Short: "Inspect the selection of a page loaded in Chrome",
		Long: `Opens URL in Chrome through the DevTools protocol, optionally selects
the contents of the first element matching --select and prints the same
JSON report as query. The browser comes from the browser section of the
config file.`,
		Example: `  selinspect live https://example.com --select main --tag a`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, a, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.selector, "select", "", "CSS selector whose contents to select")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "tag name to look for inside the selection")
	cmd.Flags().StringArrayVar(&opts.attrs, "attr", nil, "required attribute as name=value (repeatable)")
	return cmd
}

func runLive(cmd *cobra.Command, a *app, url string, opts liveOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Browser.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Browser.Timeout)
		defer cancel()
	}

	browser, err := rodhost.Launch(ctx, a.cfg.Browser, a.logger)
	if err != nil {
		return err
	}
	defer browser.Close()

	page, err := browser.Open(ctx, url, a.cfg.Browser.Stealth)
	if err != nil {
		return err
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		a.logger.Warn("wait load", zap.String("url", url), zap.Error(err))
	}

	provider := rodhost.New(page, rodhost.WithLogger(a.logger)).WithContext(ctx)
	if opts.selector != "" {
		if err := provider.Select(ctx, opts.selector); err != nil {
			return err
		}
	}

	snap, err := provider.Snapshot()
	if err != nil {
		return err
	}

	// Answer every question from the one snapshot.
	insp := inspect.New(inspect.ProviderFunc(func() (inspect.Selection, error) {
		return snap, nil
	}), inspect.WithLogger(a.logger))

	r, err := buildReport(insp, snap.Type(), snap.Text, opts.query)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), r, a.logger)
}
