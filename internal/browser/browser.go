// Package browser drives a headless Chrome instance for the console flows.
//
// Flows never hold on to live DOM handles, lookups return Element snapshots and
// every interaction re-resolves its Selector against the current page.
package browser

import (
	"context"
	"errors"
	"fmt"

	"vws-web-tools/internal/xpath"
)

var (
	// ErrNoSuchElement means the selector matched nothing on the current page.
	ErrNoSuchElement = errors.New("no such element")
	// ErrNotInteractable means the element exists but cannot receive input yet
	// (hidden, covered, zero sized, detached while we were acting on it...)
	ErrNotInteractable = errors.New("element not interactable")
	// ErrStaleElement means the page re-rendered between finding an element and acting on it.
	ErrStaleElement = errors.New("stale element")
)

// Transient lists the errors that are expected while a page is still rendering,
// they are what waits should treat as "not ready yet".
var Transient = []error{ErrNoSuchElement, ErrNotInteractable, ErrStaleElement}

// KeyEnter submits the focused form when sent with SendKeys.
const KeyEnter = "\r"

type By int

const (
	ByXPath By = iota
	ByCSS
)

// Selector locates elements on a page.
type Selector struct {
	By    By
	Value string
}

// XPath selects with an XPath 1.0 expression.
func XPath(expr string) Selector {
	return Selector{By: ByXPath, Value: expr}
}

// CSS selects with a CSS selector.
func CSS(sel string) Selector {
	return Selector{By: ByCSS, Value: sel}
}

// ID selects the element with the given id attribute.
func ID(id string) Selector {
	return XPath(fmt.Sprintf("//*[@id=%s]", xpath.Literal(id)))
}

// Class selects elements carrying the given class name.
func Class(name string) Selector {
	return XPath(fmt.Sprintf(
		"//*[contains(concat(' ', normalize-space(@class), ' '), %s)]",
		xpath.Literal(" "+name+" "),
	))
}

func (s Selector) String() string {
	switch s.By {
	case ByCSS:
		return fmt.Sprintf("css(%s)", s.Value)
	default:
		return fmt.Sprintf("xpath(%s)", s.Value)
	}
}

// Element is a snapshot of a DOM element taken at lookup time.
type Element struct {
	// Tag is the lowercase tag name.
	Tag        string
	Attributes map[string]string
}

// Attr returns an attribute value and whether it was present.
func (e Element) Attr(name string) (string, bool) {
	value, ok := e.Attributes[name]
	return value, ok
}

// Page is everything the console flows need from a browser tab.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	// Location returns the current URL.
	Location(ctx context.Context) (string, error)
	// FindAll never waits, no match is an empty slice.
	FindAll(ctx context.Context, sel Selector) ([]Element, error)
	// Click clicks the first match.
	Click(ctx context.Context, sel Selector) error
	// SendKeys types into the first match.
	SendKeys(ctx context.Context, sel Selector, keys string) error
	Clear(ctx context.Context, sel Selector) error
	// SetUploadFiles sets the files of the first matching <input type="file">.
	SetUploadFiles(ctx context.Context, sel Selector, paths []string) error
	// Evaluate runs a script in the page, `out` may be nil when the result is not needed.
	Evaluate(ctx context.Context, script string, out any) error
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)
}
