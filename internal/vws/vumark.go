package vws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/wait"
	"vws-web-tools/internal/xpath"

	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrTargetLinkNotFound means no element carries the target's name yet.
	ErrTargetLinkNotFound = errors.New("vumark target link not found")
	// ErrTargetNameNotLink means the target is listed but its name is plain text (or
	// a link without a destination), which is how the console shows targets that are
	// still processing.
	ErrTargetNameNotLink = errors.New("vumark target name is not a link")
	// ErrMalformedTargetLink means a target link does not end in a target ID.
	ErrMalformedTargetLink = errors.New("target ID not found in the target link")
)

var (
	addTemplateButton    = browser.ID("add-vumark-template-btn")
	templateFileInput    = browser.CSS(`input[type="file"]`)
	templateNameInput    = browser.ID("target-name")
	templateWidthInput   = browser.ID("target-width")
	addTemplateSubmitBtn = browser.ID("add-template-submit-btn")
)

var targetIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

func targetLink(targetName string) browser.Selector {
	return browser.XPath(fmt.Sprintf("//a[%s]", xpath.TextEquals(targetName)))
}

// targetText selects the target's name when it is rendered as inert text.
func targetText(targetName string) browser.Selector {
	return browser.XPath(fmt.Sprintf(
		"//table//*[not(self::a)][not(ancestor::a)][not(.//a)][%s]",
		xpath.TextEquals(targetName),
	))
}

// targetRow selects anything in a table carrying the target's name, link or not.
func targetRow(targetName string) browser.Selector {
	return browser.XPath(fmt.Sprintf("//table//*[%s]", xpath.TextEquals(targetName)))
}

// TargetIDLookupError is returned by GetVuMarkTargetID for every failure.
type TargetIDLookupError struct {
	TargetName string
	Reason     string
	Err        error
}

func (e *TargetIDLookupError) Error() string {
	msg := fmt.Sprintf("look up ID of vumark target %q: %s", e.TargetName, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *TargetIDLookupError) Unwrap() error {
	return e.Err
}

// UploadVuMarkTemplate adds the SVG template at `templatePath` to a VuMark database.
func (c *Console) UploadVuMarkTemplate(ctx context.Context, databaseName, templatePath, templateName string, width float64) error {
	ctx, span := tracer.Start(ctx, "Console.UploadVuMarkTemplate")
	span.SetAttributes(
		attribute.String("template_name", templateName),
		attribute.Float64("width", width),
	)

	err := func() error {
		if strings.TrimSpace(templateName) == "" {
			return errors.New("a template name is required")
		}
		if width <= 0 {
			return fmt.Errorf("template width must be positive, got %v", width)
		}
		_, err := os.Stat(templatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}

		err = c.NavigateToDatabase(ctx, databaseName)
		if err != nil {
			return err
		}
		err = c.waitClick(ctx, addTemplateButton)
		if err != nil {
			return fmt.Errorf("open template dialog: %w", err)
		}
		_, err = wait.Succeeds(
			ctx,
			c.elementOptions(c.timeouts.Element, "file "+templateFileInput.String()),
			func(ctx context.Context) (struct{}, error) {
				return struct{}{}, c.page.SetUploadFiles(ctx, templateFileInput, []string{templatePath})
			},
		)
		if err != nil {
			return fmt.Errorf("attach template file: %w", err)
		}
		err = c.waitSendKeys(ctx, templateNameInput, templateName)
		if err != nil {
			return fmt.Errorf("fill template name: %w", err)
		}
		err = c.waitSendKeys(ctx, templateWidthInput, strconv.FormatFloat(width, 'f', -1, 64))
		if err != nil {
			return fmt.Errorf("fill template width: %w", err)
		}
		err = c.waitClick(ctx, addTemplateSubmitBtn)
		if err != nil {
			return fmt.Errorf("submit template: %w", err)
		}
		err = c.waitGone(ctx, templateNameInput)
		if err != nil {
			return fmt.Errorf("close template dialog: %w", err)
		}
		return c.settle(ctx)
	}()
	return c.finish(span, report_console_upload_vumark_template, err)
}

// FindVuMarkTargetLink inspects the current database page once and returns the
// absolute URL of the target's link. It does not wait.
func (c *Console) FindVuMarkTargetLink(ctx context.Context, targetName string) (string, error) {
	links, err := c.page.FindAll(ctx, targetLink(targetName))
	if err != nil {
		return "", err
	}
	for _, link := range links {
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		return c.resolve(strings.TrimSpace(href))
	}
	if len(links) > 0 {
		return "", fmt.Errorf("%w: %q links nowhere", ErrTargetNameNotLink, targetName)
	}

	inert, err := c.page.FindAll(ctx, targetText(targetName))
	if err != nil {
		return "", err
	}
	if len(inert) > 0 {
		return "", fmt.Errorf("%w: %q", ErrTargetNameNotLink, targetName)
	}
	return "", fmt.Errorf("%w: %q", ErrTargetLinkNotFound, targetName)
}

// WaitForVuMarkTargetLink waits until a target is processed and its name becomes
// a link, reloading the database page every Timeouts.Refresh.
func (c *Console) WaitForVuMarkTargetLink(ctx context.Context, databaseName, targetName string, timeout time.Duration) (string, error) {
	ctx, span := tracer.Start(ctx, "Console.WaitForVuMarkTargetLink")

	link, err := func() (string, error) {
		err := c.NavigateToDatabase(ctx, databaseName)
		if err != nil {
			return "", err
		}

		opts := c.elementOptions(timeout, fmt.Sprintf("a link to vumark target %q", targetName))
		opts.Ignored = append([]error{ErrTargetLinkNotFound, ErrTargetNameNotLink}, opts.Ignored...)

		lastLoad := c.clock.Now()
		return wait.Succeeds(ctx, opts, func(ctx context.Context) (string, error) {
			if c.clock.Now().Sub(lastLoad) >= c.timeouts.Refresh {
				err := c.page.Reload(ctx)
				if err != nil {
					return "", err
				}
				lastLoad = c.clock.Now()
			}
			link, err := c.FindVuMarkTargetLink(ctx, targetName)
			if errors.Is(err, ErrTargetNameNotLink) {
				c.tel.ReportDebug(report_console_vumark_target_not_linked, "target", targetName)
			}
			return link, err
		})
	}()
	return link, c.finish(span, report_console_wait_for_vumark_target, err)
}

// TargetIDFromLink extracts the target ID, the last path segment, from a target link.
func TargetIDFromLink(link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", fmt.Errorf("%w: link is empty", ErrMalformedTargetLink)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedTargetLink, err)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if !targetIDPattern.MatchString(last) {
		return "", fmt.Errorf("%w: %q", ErrMalformedTargetLink, link)
	}
	return strings.ToLower(last), nil
}

// GetVuMarkTargetID opens a database and reads the ID of one of its targets.
// Every failure is a *TargetIDLookupError.
func (c *Console) GetVuMarkTargetID(ctx context.Context, databaseName, targetName string) (string, error) {
	ctx, span := tracer.Start(ctx, "Console.GetVuMarkTargetID")

	id, err := func() (string, error) {
		lookupErr := func(reason string, err error) error {
			return &TargetIDLookupError{TargetName: targetName, Reason: reason, Err: err}
		}

		err := c.NavigateToDatabase(ctx, databaseName)
		if err != nil {
			return "", lookupErr(fmt.Sprintf("database %q could not be opened", databaseName), err)
		}
		_, err = c.waitPresent(ctx, targetRow(targetName))
		if err != nil {
			return "", lookupErr("target row was not found", err)
		}

		link, err := c.FindVuMarkTargetLink(ctx, targetName)
		switch {
		case errors.Is(err, ErrTargetNameNotLink):
			return "", lookupErr("the target ID is only available once processing completes", err)
		case errors.Is(err, ErrTargetLinkNotFound):
			return "", lookupErr("target link was not found", err)
		case err != nil:
			return "", lookupErr("target link could not be read", err)
		case link == "":
			return "", lookupErr("target link was not found", nil)
		}

		id, err := TargetIDFromLink(link)
		if err != nil {
			return "", lookupErr("target ID was not found in the target link", err)
		}
		return id, nil
	}()
	return id, c.finish(span, report_console_get_vumark_target_id, err)
}
