package vws

import (
	"context"
	"fmt"
	"strings"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/wait"
	"vws-web-tools/internal/xpath"
	"vws-web-tools/lib/htmlutil"

	"go.opentelemetry.io/otel/attribute"
)

const databasesPath = "/vui/develop/databases"

var (
	addDatabaseButton    = browser.ID("add-dialog-btn")
	databaseNameInput    = browser.ID("database-name")
	cloudRadioButton     = browser.ID("cloud-radio-btn")
	vumarkRadioButton    = browser.ID("vumark-radio-btn")
	cloudLicenseDropdown = browser.ID("cloud-license-dropdown")
	createDatabaseButton = browser.ID("create-btn")
	databaseSearchInput  = browser.ID("table_search")
	accessKeysTab        = browser.XPath(fmt.Sprintf("//*[%s]", xpath.TextEquals("Database Access Keys")))
)

const (
	serverAccessKeyCSS = ".server-access-key"
	serverSecretKeyCSS = ".server-secret-key"
	clientAccessKeyCSS = ".client-access-key"
	clientSecretKeyCSS = ".client-secret-key"
)

func licenseOption(licenseName string) browser.Selector {
	return browser.XPath(fmt.Sprintf(
		"//*[@id=%s]//li[%s]",
		xpath.Literal("cloud-license-dropdown"),
		xpath.TextEquals(licenseName),
	))
}

func (c *Console) createDatabase(ctx context.Context, databaseName string, databaseType DatabaseType, licenseName string) error {
	err := c.openListing(ctx, databasesPath)
	if err != nil {
		return err
	}

	err = c.waitClick(ctx, addDatabaseButton)
	if err != nil {
		return fmt.Errorf("open database dialog: %w", err)
	}
	err = c.waitSendKeys(ctx, databaseNameInput, databaseName)
	if err != nil {
		return fmt.Errorf("fill database name: %w", err)
	}

	switch databaseType {
	case DatabaseTypeCloud:
		err = c.waitClick(ctx, cloudRadioButton)
		if err != nil {
			return fmt.Errorf("select cloud database: %w", err)
		}
		err = c.waitClick(ctx, cloudLicenseDropdown)
		if err != nil {
			return fmt.Errorf("open license dropdown: %w", err)
		}
		err = c.waitClick(ctx, licenseOption(licenseName))
		if err != nil {
			return fmt.Errorf("select license %q: %w", licenseName, err)
		}
	case DatabaseTypeVuMark:
		err = c.waitClick(ctx, vumarkRadioButton)
		if err != nil {
			return fmt.Errorf("select vumark database: %w", err)
		}
	default:
		return fmt.Errorf("unknown database type %q", databaseType)
	}

	err = c.waitClick(ctx, createDatabaseButton)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	err = c.waitGone(ctx, databaseNameInput)
	if err != nil {
		return fmt.Errorf("close database dialog: %w", err)
	}
	return c.settle(ctx)
}

// CreateCloudDatabase creates a cloud database attached to an existing license.
func (c *Console) CreateCloudDatabase(ctx context.Context, databaseName, licenseName string) error {
	ctx, span := tracer.Start(ctx, "Console.CreateCloudDatabase")
	span.SetAttributes(attribute.String("database_type", string(DatabaseTypeCloud)))

	var err error
	if strings.TrimSpace(licenseName) == "" {
		err = ErrMissingLicenseName
	} else {
		err = c.createDatabase(ctx, databaseName, DatabaseTypeCloud, licenseName)
	}
	return c.finish(span, report_console_create_database, err)
}

// CreateVuMarkDatabase creates a VuMark database, these are not tied to a license.
func (c *Console) CreateVuMarkDatabase(ctx context.Context, databaseName string) error {
	ctx, span := tracer.Start(ctx, "Console.CreateVuMarkDatabase")
	span.SetAttributes(attribute.String("database_type", string(DatabaseTypeVuMark)))

	err := c.createDatabase(ctx, databaseName, DatabaseTypeVuMark, "")
	return c.finish(span, report_console_create_database, err)
}

// NavigateToDatabase opens the page of the database named `databaseName`.
func (c *Console) NavigateToDatabase(ctx context.Context, databaseName string) error {
	ctx, span := tracer.Start(ctx, "Console.NavigateToDatabase")

	err := c.openTableRow(ctx, databasesPath, databaseSearchInput, databaseName)
	return c.finish(span, report_console_navigate_to_database, err)
}

// scrapeDatabaseDetails reads the access keys out of a rendered database page.
// The second return value is false while keys are still rendering: server keys
// are always shown, client keys only exist for cloud databases.
func scrapeDatabaseDetails(databaseName, page string) (DatabaseDetails, bool, error) {
	doc, err := htmlutil.ParseDocument(page)
	if err != nil {
		return DatabaseDetails{}, false, err
	}

	details := DatabaseDetails{
		DatabaseName:    databaseName,
		ServerAccessKey: htmlutil.FirstValue(doc, serverAccessKeyCSS),
		ServerSecretKey: htmlutil.FirstValue(doc, serverSecretKeyCSS),
		ClientAccessKey: htmlutil.FirstValue(doc, clientAccessKeyCSS),
		ClientSecretKey: htmlutil.FirstValue(doc, clientSecretKeyCSS),
	}
	if details.ServerAccessKey == "" || details.ServerSecretKey == "" {
		return details, false, nil
	}

	hasClientKeys := doc.Find(clientAccessKeyCSS).Length() > 0 ||
		doc.Find(clientSecretKeyCSS).Length() > 0
	if hasClientKeys && (details.ClientAccessKey == "" || details.ClientSecretKey == "") {
		return details, false, nil
	}
	return details, true, nil
}

// GetDatabaseDetails reads the access keys of the database named `databaseName`.
func (c *Console) GetDatabaseDetails(ctx context.Context, databaseName string) (DatabaseDetails, error) {
	ctx, span := tracer.Start(ctx, "Console.GetDatabaseDetails")

	details, err := func() (DatabaseDetails, error) {
		err := c.NavigateToDatabase(ctx, databaseName)
		if err != nil {
			return DatabaseDetails{}, err
		}
		err = c.waitClick(ctx, accessKeysTab)
		if err != nil {
			return DatabaseDetails{}, fmt.Errorf("open access keys tab: %w", err)
		}

		return wait.Until(
			ctx,
			c.elementOptions(c.timeouts.Element, "database access keys"),
			func(ctx context.Context) (DatabaseDetails, bool, error) {
				page, err := c.page.HTML(ctx)
				if err != nil {
					return DatabaseDetails{}, false, err
				}
				return scrapeDatabaseDetails(databaseName, page)
			},
		)
	}()
	return details, c.finish(span, report_console_get_database_details, err)
}
