package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/selinspect/css"
	"github.com/chrisuehlinger/selinspect/dom"
	"github.com/chrisuehlinger/selinspect/inspect"
	"github.com/chrisuehlinger/selinspect/js"
	"github.com/chrisuehlinger/selinspect/network"
)

type queryOptions struct {
	htmlPath   string
	selectID   string
	selector   string
	start      string
	end        string
	runScripts bool
	eval       string
	query
}

func newQueryCmd(a *app) *cobra.Command {
	var opts queryOptions
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect a selection made in a static HTML file",
		Long: `Loads an HTML document from a file or URL, selects the contents of
an element (--select-id, --select) or the span between two boundary points
(--start/--end) and prints a JSON report. With --run-scripts the document's
own scripts run first and may make the selection themselves; --eval runs
one more script after them.

A boundary point is PATH:OFFSET where PATH lists child indices from the
document node separated by "/". For "<p>hello</p>" the p element is 0/1/0
(html, body, p) and its text is 0/1/0/0.`,
		Example: `  selinspect query --html page.html --select-id main --tag a --attr class=nav
  selinspect query --html page.html --start 0/1/0/0:2 --end 0/1/1/0:3 --tag span
  selinspect query --html https://example.com --select "main > p" --tag a
  selinspect query --html page.html --run-scripts --tag em`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "HTML file or URL to load")
	cmd.Flags().StringVar(&opts.selectID, "select-id", "", "select the contents of the element with this id")
	cmd.Flags().StringVar(&opts.selector, "select", "", "select the contents of the first element matching this CSS selector")
	cmd.Flags().StringVar(&opts.start, "start", "", "selection start as PATH:OFFSET")
	cmd.Flags().StringVar(&opts.end, "end", "", "selection end as PATH:OFFSET")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "tag name to look for inside the selection")
	cmd.Flags().StringArrayVar(&opts.attrs, "attr", nil, "required attribute as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.runScripts, "run-scripts", false, "run the document's scripts before inspecting")
	cmd.Flags().StringVar(&opts.eval, "eval", "", "JavaScript to run before inspecting")
	_ = cmd.MarkFlagRequired("html")
	cmd.MarkFlagsMutuallyExclusive("select-id", "select", "start")
	cmd.MarkFlagsRequiredTogether("start", "end")
	return cmd
}

func runQuery(cmd *cobra.Command, a *app, opts queryOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loader := network.NewLoader(network.WithLogger(a.logger))
	res, err := loader.Load(ctx, opts.htmlPath)
	if err != nil {
		return err
	}
	doc, err := dom.ParseHTMLReader(bytes.NewReader(res.Content))
	if err != nil {
		return fmt.Errorf("parse %s: %w", opts.htmlPath, err)
	}

	if opts.runScripts || opts.eval != "" {
		if err := runScripts(ctx, a, loader, res.URL, doc, opts); err != nil {
			return err
		}
	}

	sel := doc.GetSelection()
	switch {
	case opts.selectID != "":
		el := doc.GetElementById(opts.selectID)
		if el == nil {
			return fmt.Errorf("no element with id %q", opts.selectID)
		}
		if err := sel.SelectAllChildren(el.AsNode()); err != nil {
			return err
		}
	case opts.selector != "":
		el, err := css.QuerySelector(doc.AsNode(), opts.selector)
		if err != nil {
			return err
		}
		if el == nil {
			return fmt.Errorf("no element matches %q", opts.selector)
		}
		if err := sel.SelectAllChildren(el.AsNode()); err != nil {
			return err
		}
	case opts.start != "":
		startNode, startOffset, err := resolvePoint(doc, opts.start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		endNode, endOffset, err := resolvePoint(doc, opts.end)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		if err := sel.SetBaseAndExtent(startNode, startOffset, endNode, endOffset); err != nil {
			return err
		}
	}
	a.logger.Debug("selection built",
		zap.String("source", res.URL),
		zap.String("type", sel.Type()),
	)

	insp := inspect.New(inspect.Document(doc), inspect.WithLogger(a.logger))
	r, err := buildReport(insp, sel.Type(), sel.ToString(), opts.query)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), r, a.logger)
}

// runScripts executes the document's scripts when asked to, then --eval.
// Errors in page scripts are logged; an --eval error fails the command.
func runScripts(ctx context.Context, a *app, loader *network.Loader, base string, doc *dom.Document, opts queryOptions) error {
	se := js.NewScriptExecutor(js.NewRuntime(js.WithLogger(a.logger)))
	se.SetScriptLoader(func(ctx context.Context, src string) (string, error) {
		res, err := loader.Load(ctx, network.Resolve(base, src))
		if err != nil {
			return "", err
		}
		return string(res.Content), nil
	})
	se.SetupDocument(doc)

	if opts.runScripts {
		for _, err := range se.ExecuteScripts(ctx, doc) {
			a.logger.Warn("page script failed", zap.Error(err))
		}
	}
	if opts.eval != "" {
		if err := se.Eval(opts.eval); err != nil {
			return fmt.Errorf("--eval: %w", err)
		}
	}
	return nil
}

// resolvePoint parses PATH:OFFSET against doc.
func resolvePoint(doc *dom.Document, point string) (*dom.Node, int, error) {
	i := strings.LastIndex(point, ":")
	if i < 0 {
		return nil, 0, fmt.Errorf("invalid boundary point %q, want PATH:OFFSET", point)
	}
	offset, err := strconv.Atoi(point[i+1:])
	if err != nil {
		return nil, 0, fmt.Errorf("invalid offset in %q: %w", point, err)
	}

	node := doc.AsNode()
	path := strings.Trim(point[:i], "/")
	if path == "" {
		return node, offset, nil
	}
	for _, part := range strings.Split(path, "/") {
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid path step %q in %q", part, point)
		}
		child := node.ChildNodes().Item(idx)
		if child == nil {
			return nil, 0, fmt.Errorf("%s has no child %d", node.NodeName(), idx)
		}
		node = child
	}
	return node, offset, nil
}
