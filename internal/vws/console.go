// Package vws automates the Vuforia Web Services developer console.
//
// Every flow is expressed as "wait for condition X, then act" on top of
// wait.Until, with element lookups that tolerate a page which is still rendering.
package vws

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/components/assert"
	"vws-web-tools/internal/components/chrono"
	"vws-web-tools/internal/components/telemetry"
	"vws-web-tools/internal/wait"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://developer.vuforia.com"

const (
	report_console_log_in                   = "console.log-in"
	report_console_dismiss_cookie_banner    = "console.dismiss-cookie-banner"
	report_console_create_license           = "console.create-license"
	report_console_delete_license           = "console.delete-license"
	report_console_get_license_details      = "console.get-license-details"
	report_console_create_database          = "console.create-database"
	report_console_navigate_to_database     = "console.navigate-to-database"
	report_console_get_database_details     = "console.get-database-details"
	report_console_upload_vumark_template   = "console.upload-vumark-template"
	report_console_wait_for_vumark_target   = "console.wait-for-vumark-target-link"
	report_console_get_vumark_target_id     = "console.get-vumark-target-id"
	report_console_table_lookup_reload      = "console.table-lookup.reload"
	report_console_table_lookup_next_page   = "console.table-lookup.next-page"
	report_console_vumark_target_not_linked = "console.vumark-target.not-linked"
)

var tracer = telemetry.Tracer("vws-web-tools/internal/vws")

type Timeouts struct {
	// Element bounds waiting for a single element to show up or become clickable.
	Element time.Duration
	// LoggedIn bounds waiting for the post-login header.
	LoggedIn time.Duration
	// Lookup bounds finding a row in a paginated table, reloads included.
	Lookup time.Duration
	// Refresh is how often a page is reloaded while waiting on server side processing.
	Refresh time.Duration
	// Settle is the pause after actions the console processes asynchronously.
	Settle time.Duration
	// Interval between two evaluations of a wait condition.
	Interval time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Element:  10 * time.Second,
		LoggedIn: 30 * time.Second,
		Lookup:   60 * time.Second,
		Refresh:  10 * time.Second,
		Settle:   time.Second,
		Interval: wait.DefaultInterval,
	}
}

type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL  string
	Timeouts Timeouts
	// Clock defaults to the wall clock.
	Clock chrono.API
}

// Console runs flows against a single browser page.
type Console struct {
	page     browser.Page
	tel      telemetry.API
	baseURL  *url.URL
	timeouts Timeouts
	clock    chrono.API
}

func NewConsole(page browser.Page, tel telemetry.API, opts Options) (*Console, error) {
	assert.NotNil(page)
	assert.NotNil(tel)

	rawBaseURL := opts.BaseURL
	if rawBaseURL == "" {
		rawBaseURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", rawBaseURL)
	}

	timeouts := opts.Timeouts
	if timeouts == (Timeouts{}) {
		timeouts = DefaultTimeouts()
	}

	clock := opts.Clock
	if clock == nil {
		clock = chrono.StandardImpl{}
	}

	return &Console{
		page:     page,
		tel:      telemetry.NewScopedAPI("vws", tel),
		baseURL:  baseURL,
		timeouts: timeouts,
		clock:    clock,
	}, nil
}

func (c *Console) url(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: path}).String()
}

// resolve makes an href found on a page absolute.
func (c *Console) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func (c *Console) elementOptions(timeout time.Duration, message string) wait.Options {
	return wait.Options{
		Timeout:  timeout,
		Interval: c.timeouts.Interval,
		Ignored:  browser.Transient,
		Message:  message,
	}
}

// waitPresent waits until sel matches at least one element.
func (c *Console) waitPresent(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	return wait.Succeeds(
		ctx,
		c.elementOptions(c.timeouts.Element, sel.String()),
		func(ctx context.Context) ([]browser.Element, error) {
			elements, err := c.page.FindAll(ctx, sel)
			if err != nil {
				return nil, err
			}
			if len(elements) == 0 {
				return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, sel)
			}
			return elements, nil
		},
	)
}

// waitClick waits until sel can be clicked and clicks it.
func (c *Console) waitClick(ctx context.Context, sel browser.Selector) error {
	_, err := wait.Succeeds(
		ctx,
		c.elementOptions(c.timeouts.Element, "clickable "+sel.String()),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.page.Click(ctx, sel)
		},
	)
	return err
}

// waitSendKeys waits until sel accepts input and types keys into it.
func (c *Console) waitSendKeys(ctx context.Context, sel browser.Selector, keys string) error {
	_, err := wait.Succeeds(
		ctx,
		c.elementOptions(c.timeouts.Element, "input "+sel.String()),
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.page.SendKeys(ctx, sel, keys)
		},
	)
	return err
}

// waitGone waits until sel no longer matches anything.
func (c *Console) waitGone(ctx context.Context, sel browser.Selector) error {
	return wait.For(
		ctx,
		c.elementOptions(c.timeouts.Element, "disappearance of "+sel.String()),
		func(ctx context.Context) (bool, error) {
			elements, err := c.page.FindAll(ctx, sel)
			if err != nil {
				return false, err
			}
			return len(elements) == 0, nil
		},
	)
}

func (c *Console) settle(ctx context.Context) error {
	if c.timeouts.Settle <= 0 {
		return nil
	}
	timer := time.NewTimer(c.timeouts.Settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finish records the outcome of a flow on its span and reports unexpected failures.
func (c *Console) finish(span trace.Span, id string, err error) error {
	defer span.End()
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.tel.ReportBroken(id, err)
	return err
}
