package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

type Options struct {
	Headless bool
	Width    int
	Height   int
	// ExecPath overrides the Chrome binary, empty means chromedp's lookup.
	ExecPath  string
	UserAgent string
}

func DefaultOptions() Options {
	return Options{
		Headless: true,
		Width:    1920,
		Height:   1080,
	}
}

func (o Options) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if o.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	width, height := o.Width, o.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultOptions().Width, DefaultOptions().Height
	}

	opts = append(
		opts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(width, height),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	if o.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(o.UserAgent))
	}
	return opts
}

// Session is a single Chrome tab, it implements Page.
type Session struct {
	// chromedp keeps the browser handle inside a context, actions are run against it.
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

var _ Page = (*Session)(nil)

// Launch starts Chrome and opens a blank tab. The returned session must be closed.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// the first Run starts the browser process
	err := chromedp.Run(tabCtx)
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Session{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Close shuts the tab and the browser process down, it is safe to call more than once.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

// run executes actions on the tab while honoring the cancellation of ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, chromedp.Navigate(url))
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) Reload(ctx context.Context) error {
	return s.run(ctx, chromedp.Reload())
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var location string
	err := s.run(ctx, chromedp.Location(&location))
	return location, err
}

func (s *Session) nodes(ctx context.Context, sel Selector) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(sel.Value, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", sel, err)
	}
	return nodes, nil
}

func (s *Session) first(ctx context.Context, sel Selector) (*cdp.Node, error) {
	nodes, err := s.nodes(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, sel)
	}
	return nodes[0], nil
}

func (s *Session) FindAll(ctx context.Context, sel Selector) ([]Element, error) {
	nodes, err := s.nodes(ctx, sel)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, snapshot(node))
	}
	return elements, nil
}

func snapshot(node *cdp.Node) Element {
	attrs := make(map[string]string, len(node.Attributes)/2)
	for i := 0; i+1 < len(node.Attributes); i += 2 {
		attrs[node.Attributes[i]] = node.Attributes[i+1]
	}
	return Element{
		Tag:        strings.ToLower(node.NodeName),
		Attributes: attrs,
	}
}

// classify maps CDP failures that happen after a successful lookup onto the
// transient element errors.
func classify(sel Selector, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "could not find node"),
		strings.Contains(msg, "no node with given id"),
		strings.Contains(msg, "node is detached"):
		return fmt.Errorf("%w: %s: %s", ErrStaleElement, sel, err)
	case strings.Contains(msg, "could not compute box model"),
		strings.Contains(msg, "node does not have a layout object"),
		strings.Contains(msg, "not visible"),
		strings.Contains(msg, "element is not focusable"):
		return fmt.Errorf("%w: %s: %s", ErrNotInteractable, sel, err)
	}
	return fmt.Errorf("%s: %w", sel, err)
}

func (s *Session) Click(ctx context.Context, sel Selector) error {
	node, err := s.first(ctx, sel)
	if err != nil {
		return err
	}
	return classify(sel, s.run(ctx, chromedp.MouseClickNode(node)))
}

func (s *Session) SendKeys(ctx context.Context, sel Selector, keys string) error {
	node, err := s.first(ctx, sel)
	if err != nil {
		return err
	}
	return classify(sel, s.run(ctx, chromedp.SendKeys([]cdp.NodeID{node.NodeID}, keys, chromedp.ByNodeID)))
}

func (s *Session) Clear(ctx context.Context, sel Selector) error {
	node, err := s.first(ctx, sel)
	if err != nil {
		return err
	}
	return classify(sel, s.run(ctx, chromedp.Clear([]cdp.NodeID{node.NodeID}, chromedp.ByNodeID)))
}

func (s *Session) SetUploadFiles(ctx context.Context, sel Selector, paths []string) error {
	node, err := s.first(ctx, sel)
	if err != nil {
		return err
	}
	return classify(sel, s.run(ctx, chromedp.SetUploadFiles([]cdp.NodeID{node.NodeID}, paths, chromedp.ByNodeID)))
}

func (s *Session) Evaluate(ctx context.Context, script string, out any) error {
	err := s.run(ctx, chromedp.Evaluate(script, out))
	if err != nil {
		return fmt.Errorf("evaluate script: %w", err)
	}
	return nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// WithSession launches a browser, hands it to fn and closes it on every exit path.
func WithSession(ctx context.Context, opts Options, fn func(ctx context.Context, page Page) error) error {
	session, err := Launch(ctx, opts)
	if err != nil {
		return err
	}
	defer session.Close()
	return fn(ctx, session)
}
