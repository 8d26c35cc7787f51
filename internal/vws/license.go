package vws

import (
	"context"
	"errors"
	"fmt"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/wait"
	"vws-web-tools/lib/htmlutil"
)

const licensesPath = "/vui/develop/licenses"

var (
	getDevelopmentKeyButton = browser.ID("get-development-key")
	licenseNameInput        = browser.ID("license-name")
	agreeTermsCheckbox      = browser.ID("agree-terms-checkbox")
	confirmButton           = browser.ID("confirm")
	licenseSearchInput      = browser.ID("table_search")
	deleteLicenseButton     = browser.ID("delete-license-btn")
	confirmDeleteButton     = browser.ID("confirm-delete-btn")
	licenseKeyCSS           = ".license-key"
)

var ErrEmptyLicenseKey = errors.New("license key is empty")

// CreateLicense creates a development license key named `name`.
func (c *Console) CreateLicense(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "Console.CreateLicense")

	err := func() error {
		err := c.openListing(ctx, licensesPath)
		if err != nil {
			return err
		}
		err = c.waitClick(ctx, getDevelopmentKeyButton)
		if err != nil {
			return fmt.Errorf("open license dialog: %w", err)
		}
		err = c.waitSendKeys(ctx, licenseNameInput, name)
		if err != nil {
			return fmt.Errorf("fill license name: %w", err)
		}
		err = c.waitClick(ctx, agreeTermsCheckbox)
		if err != nil {
			return fmt.Errorf("agree to terms: %w", err)
		}
		err = c.waitClick(ctx, confirmButton)
		if err != nil {
			return fmt.Errorf("confirm license: %w", err)
		}
		err = c.waitGone(ctx, licenseNameInput)
		if err != nil {
			return fmt.Errorf("close license dialog: %w", err)
		}
		return c.settle(ctx)
	}()
	return c.finish(span, report_console_create_license, err)
}

// openLicense opens the detail page of the license named `name`.
func (c *Console) openLicense(ctx context.Context, name string) error {
	return c.openTableRow(ctx, licensesPath, licenseSearchInput, name)
}

// DeleteLicense deletes the license named `name`.
func (c *Console) DeleteLicense(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "Console.DeleteLicense")

	err := func() error {
		err := c.openLicense(ctx, name)
		if err != nil {
			return err
		}
		err = c.waitClick(ctx, deleteLicenseButton)
		if err != nil {
			return fmt.Errorf("open delete dialog: %w", err)
		}
		err = c.waitClick(ctx, confirmDeleteButton)
		if err != nil {
			return fmt.Errorf("confirm deletion: %w", err)
		}
		err = c.waitGone(ctx, confirmDeleteButton)
		if err != nil {
			return fmt.Errorf("close delete dialog: %w", err)
		}
		return c.settle(ctx)
	}()
	return c.finish(span, report_console_delete_license, err)
}

// GetLicenseDetails reads the key of the license named `name`.
func (c *Console) GetLicenseDetails(ctx context.Context, name string) (LicenseDetails, error) {
	ctx, span := tracer.Start(ctx, "Console.GetLicenseDetails")

	details, err := func() (LicenseDetails, error) {
		err := c.openLicense(ctx, name)
		if err != nil {
			return LicenseDetails{}, err
		}

		key, err := wait.Until(
			ctx,
			c.elementOptions(c.timeouts.Element, "the license key"),
			func(ctx context.Context) (string, bool, error) {
				page, err := c.page.HTML(ctx)
				if err != nil {
					return "", false, err
				}
				doc, err := htmlutil.ParseDocument(page)
				if err != nil {
					return "", false, err
				}
				key := htmlutil.FirstValue(doc, licenseKeyCSS)
				return key, key != "", nil
			},
		)
		if errors.Is(err, wait.ErrTimeout) {
			return LicenseDetails{}, fmt.Errorf("%w: %w", ErrEmptyLicenseKey, err)
		}
		if err != nil {
			return LicenseDetails{}, err
		}
		return LicenseDetails{LicenseName: name, LicenseKey: key}, nil
	}()
	return details, c.finish(span, report_console_get_license_details, err)
}
