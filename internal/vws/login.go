package vws

import (
	"context"
	"errors"
	"fmt"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/wait"
)

const (
	loginPath = "/vui/auth/login"

	cookieAcceptButtonID = "onetrust-accept-btn-handler"
	removeCookieBanner   = `(() => {
	const sdk = document.getElementById("onetrust-consent-sdk");
	if (sdk) { sdk.remove(); }
	return true;
})()`
)

var (
	emailInput     = browser.ID("login_email")
	passwordInput  = browser.ID("login_password")
	loggedInHeader = browser.Class("userNameInHeaderSpan")
)

// DismissCookieBanner accepts the cookie consent overlay if it is shown and removes
// it from the DOM so that it cannot intercept clicks. It never fails a flow, problems
// are reported as warnings.
func (c *Console) DismissCookieBanner(ctx context.Context) {
	acceptButton := browser.ID(cookieAcceptButtonID)
	buttons, err := c.page.FindAll(ctx, acceptButton)
	if err != nil {
		c.tel.ReportWarning(report_console_dismiss_cookie_banner, fmt.Errorf("find accept button: %w", err))
	}
	if len(buttons) > 0 {
		err = c.page.Click(ctx, acceptButton)
		if err != nil {
			c.tel.ReportWarning(report_console_dismiss_cookie_banner, fmt.Errorf("click accept button: %w", err))
		}
	}

	var removed bool
	err = c.page.Evaluate(ctx, removeCookieBanner, &removed)
	if err != nil {
		c.tel.ReportWarning(report_console_dismiss_cookie_banner, fmt.Errorf("remove banner: %w", err))
	}
}

// LogIn submits the login form. It does not wait for the login to complete, see
// WaitForLoggedIn.
func (c *Console) LogIn(ctx context.Context, creds Credentials) error {
	ctx, span := tracer.Start(ctx, "Console.LogIn")

	err := func() error {
		err := creds.Validate()
		if err != nil {
			return err
		}
		err = c.page.Navigate(ctx, c.url(loginPath))
		if err != nil {
			return err
		}
		c.DismissCookieBanner(ctx)

		err = c.waitSendKeys(ctx, emailInput, creds.EmailAddress)
		if err != nil {
			return fmt.Errorf("fill email address: %w", err)
		}
		err = c.waitSendKeys(ctx, passwordInput, creds.Password+browser.KeyEnter)
		if err != nil {
			return fmt.Errorf("fill password: %w", err)
		}
		return nil
	}()
	if errors.Is(err, ErrMissingCredentials) {
		span.End()
		return err
	}
	return c.finish(span, report_console_log_in, err)
}

// WaitForLoggedIn blocks until the console shows the signed in header. Without this
// the next navigation sometimes lands on a post-login redirect instead.
func (c *Console) WaitForLoggedIn(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Console.WaitForLoggedIn")
	defer span.End()

	_, err := wait.Succeeds(
		ctx,
		c.elementOptions(c.timeouts.LoggedIn, "the logged in header"),
		func(ctx context.Context) ([]browser.Element, error) {
			elements, err := c.page.FindAll(ctx, loggedInHeader)
			if err != nil {
				return nil, err
			}
			if len(elements) == 0 {
				return nil, browser.ErrNoSuchElement
			}
			return elements, nil
		},
	)
	if err != nil {
		span.RecordError(err)
		// a rejected login stays on the login page, a slow one has usually moved on
		location, locErr := c.page.Location(ctx)
		if locErr != nil {
			return fmt.Errorf("wait for login: %w", err)
		}
		return fmt.Errorf("wait for login at %s: %w", location, err)
	}
	return nil
}

// LogInWithRetry logs in and waits for the login to complete, starting over when
// (and only when) a wait times out.
func (c *Console) LogInWithRetry(ctx context.Context, creds Credentials, attempts int) error {
	return wait.Retry(ctx, c.tel, attempts, wait.ErrTimeout, func(ctx context.Context) error {
		err := c.LogIn(ctx, creds)
		if err != nil {
			return err
		}
		return c.WaitForLoggedIn(ctx)
	})
}
