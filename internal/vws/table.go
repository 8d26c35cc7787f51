package vws

import (
	"context"
	"fmt"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/wait"
	"vws-web-tools/internal/xpath"
)

var nextPageButton = browser.CSS("button.p-paginator-next:not(.p-disabled)")

// tableCell selects the table cell whose whole text is `text`.
func tableCell(text string) browser.Selector {
	return browser.XPath(fmt.Sprintf("//table//tr/td[%s]", xpath.TextEquals(text)))
}

// openListing loads the first page of a listing with the cookie overlay out of the way.
func (c *Console) openListing(ctx context.Context, path string) error {
	err := c.page.Navigate(ctx, c.url(path))
	if err != nil {
		return err
	}
	c.DismissCookieBanner(ctx)
	return nil
}

type tableLookup struct {
	searched bool
	// settled is set once the last page came up empty, it gets one more scan
	// before the listing is loaded again.
	settled bool
	pages   int64
	reloads int64
}

// openTableRow opens the listing at `listingPath` and clicks the row named `name`
// of its paginated table filtered by `search`. Lookups that reach the last page
// without a match load the listing again and start over from the first page, the
// console sometimes serves stale listings right after a row was created.
func (c *Console) openTableRow(ctx context.Context, listingPath string, search browser.Selector, name string) error {
	err := c.openListing(ctx, listingPath)
	if err != nil {
		return err
	}

	cell := tableCell(name)
	state := &tableLookup{}

	_, err = wait.Until(
		ctx,
		c.elementOptions(c.timeouts.Lookup, fmt.Sprintf("row %q", name)),
		func(ctx context.Context) (struct{}, bool, error) {
			if !state.searched {
				err := c.page.Clear(ctx, search)
				if err != nil {
					return struct{}{}, false, err
				}
				err = c.page.SendKeys(ctx, search, name+browser.KeyEnter)
				if err != nil {
					return struct{}{}, false, err
				}
				state.searched = true
				// results render asynchronously, scan them on the next tick
				return struct{}{}, false, nil
			}

			cells, err := c.page.FindAll(ctx, cell)
			if err != nil {
				return struct{}{}, false, err
			}
			if len(cells) > 0 {
				err = c.page.Click(ctx, cell)
				if err != nil {
					return struct{}{}, false, err
				}
				return struct{}{}, true, nil
			}

			next, err := c.page.FindAll(ctx, nextPageButton)
			if err != nil {
				return struct{}{}, false, err
			}
			if len(next) > 0 {
				err = c.page.Click(ctx, nextPageButton)
				if err != nil {
					return struct{}{}, false, err
				}
				state.pages++
				state.settled = false
				c.tel.ReportCount(report_console_table_lookup_next_page, state.pages)
				return struct{}{}, false, nil
			}

			if !state.settled {
				state.settled = true
				return struct{}{}, false, nil
			}

			err = c.openListing(ctx, listingPath)
			if err != nil {
				return struct{}{}, false, err
			}
			state.searched = false
			state.settled = false
			state.reloads++
			c.tel.ReportDebug(report_console_table_lookup_reload, "name", name, "reloads", state.reloads)
			return struct{}{}, false, nil
		},
	)
	if err != nil {
		return fmt.Errorf("find %q in table: %w", name, err)
	}
	return nil
}
