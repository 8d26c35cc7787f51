package vws

import (
	"context"
	"strings"
	"testing"
	"time"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/components/telemetry"
)

type sentKeys struct {
	Selector browser.Selector
	Keys     string
}

// fakePage records every interaction. Lookups are answered by `find`, which
// defaults to findTableCell.
type fakePage struct {
	navigations []string
	reloads     int
	queries     []string
	clicks      []browser.Selector
	keys        []sentKeys
	cleared     []browser.Selector
	uploads     [][]string
	scripts     []string

	find     func(sel browser.Selector) ([]browser.Element, error)
	click    func(sel browser.Selector) error
	sendKeys func(sel browser.Selector, keys string) error
	evaluate func(script string) error
	html     func() (string, error)
}

var _ browser.Page = (*fakePage)(nil)

// findTableCell makes every table lookup succeed on its first scan.
func findTableCell(sel browser.Selector) ([]browser.Element, error) {
	if strings.HasPrefix(sel.Value, "//table//tr/td[") {
		return []browser.Element{{Tag: "td"}}, nil
	}
	return nil, nil
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigations = append(p.navigations, url)
	return nil
}

func (p *fakePage) Reload(ctx context.Context) error {
	p.reloads++
	return nil
}

func (p *fakePage) Location(ctx context.Context) (string, error) {
	if len(p.navigations) == 0 {
		return "about:blank", nil
	}
	return p.navigations[len(p.navigations)-1], nil
}

func (p *fakePage) FindAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	p.queries = append(p.queries, sel.Value)
	if p.find == nil {
		return findTableCell(sel)
	}
	return p.find(sel)
}

func (p *fakePage) Click(ctx context.Context, sel browser.Selector) error {
	p.queries = append(p.queries, sel.Value)
	if p.click != nil {
		err := p.click(sel)
		if err != nil {
			return err
		}
	}
	p.clicks = append(p.clicks, sel)
	return nil
}

func (p *fakePage) SendKeys(ctx context.Context, sel browser.Selector, keys string) error {
	if p.sendKeys != nil {
		err := p.sendKeys(sel, keys)
		if err != nil {
			return err
		}
	}
	p.keys = append(p.keys, sentKeys{Selector: sel, Keys: keys})
	return nil
}

func (p *fakePage) Clear(ctx context.Context, sel browser.Selector) error {
	p.cleared = append(p.cleared, sel)
	return nil
}

func (p *fakePage) SetUploadFiles(ctx context.Context, sel browser.Selector, paths []string) error {
	p.uploads = append(p.uploads, paths)
	return nil
}

func (p *fakePage) Evaluate(ctx context.Context, script string, out any) error {
	p.scripts = append(p.scripts, script)
	if p.evaluate != nil {
		return p.evaluate(script)
	}
	return nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	if p.html == nil {
		return "<html><body></body></html>", nil
	}
	return p.html()
}

func (p *fakePage) keysSentTo(sel browser.Selector) []string {
	var out []string
	for _, k := range p.keys {
		if k.Selector == sel {
			out = append(out, k.Keys)
		}
	}
	return out
}

func (p *fakePage) scriptRuns(script string) int {
	runs := 0
	for _, s := range p.scripts {
		if s == script {
			runs++
		}
	}
	return runs
}

func (p *fakePage) clicked(sel browser.Selector) bool {
	for _, c := range p.clicks {
		if c == sel {
			return true
		}
	}
	return false
}

func (p *fakePage) queried(fragment string) bool {
	for _, q := range p.queries {
		if strings.Contains(q, fragment) {
			return true
		}
	}
	return false
}

func testTimeouts() Timeouts {
	return Timeouts{
		Element:  200 * time.Millisecond,
		LoggedIn: 50 * time.Millisecond,
		Lookup:   300 * time.Millisecond,
		Refresh:  20 * time.Millisecond,
		Interval: 5 * time.Millisecond,
	}
}

func setup(t testing.TB, page *fakePage) (*Console, *telemetry.Recorder) {
	t.Helper()

	recorder := &telemetry.Recorder{}
	console, err := NewConsole(page, recorder, Options{Timeouts: testTimeouts()})
	if err != nil {
		t.Fatal(err)
	}
	return console, recorder
}
