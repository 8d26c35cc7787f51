package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"vws-web-tools/internal/browser"
	"vws-web-tools/internal/components/telemetry"
	"vws-web-tools/internal/vws"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

const (
	serviceName = "vws-web"

	emailAddressEnv = "VWS_EMAIL_ADDRESS"
	passwordEnv     = "VWS_PASSWORD"
)

// Console is the part of *vws.Console the commands use.
type Console interface {
	LogInWithRetry(ctx context.Context, creds vws.Credentials, attempts int) error
	CreateLicense(ctx context.Context, name string) error
	DeleteLicense(ctx context.Context, name string) error
	GetLicenseDetails(ctx context.Context, name string) (vws.LicenseDetails, error)
	CreateCloudDatabase(ctx context.Context, databaseName, licenseName string) error
	CreateVuMarkDatabase(ctx context.Context, databaseName string) error
	GetDatabaseDetails(ctx context.Context, databaseName string) (vws.DatabaseDetails, error)
	UploadVuMarkTemplate(ctx context.Context, databaseName, templatePath, templateName string, width float64) error
	GetVuMarkTargetID(ctx context.Context, databaseName, targetName string) (string, error)
	WaitForVuMarkTargetLink(ctx context.Context, databaseName, targetName string, timeout time.Duration) (string, error)
}

var _ Console = (*vws.Console)(nil)

// Settings is everything needed to open a console.
type Settings struct {
	Browser browser.Options
	Console vws.Options
	Tel     telemetry.API
}

// OpenFunc acquires a console for the duration of fn.
type OpenFunc func(ctx context.Context, settings Settings, fn func(ctx context.Context, console Console) error) error

// Env holds the dependencies of the commands that tests replace.
type Env struct {
	Open OpenFunc
	HTTP *resty.Client
	Tel  telemetry.API
	// Getenv defaults to os.Getenv.
	Getenv func(key string) string
}

func openChrome(ctx context.Context, settings Settings, fn func(ctx context.Context, console Console) error) error {
	return browser.WithSession(ctx, settings.Browser, func(ctx context.Context, page browser.Page) error {
		console, err := vws.NewConsole(page, settings.Tel, settings.Console)
		if err != nil {
			return err
		}
		return fn(ctx, console)
	})
}

func DefaultEnv() Env {
	tel := telemetry.SlogAPI{}
	client := resty.New().
		SetTimeout(time.Minute).
		SetRetryCount(2)
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("template", tel))

	return Env{
		Open:   openChrome,
		HTTP:   client,
		Tel:    tel,
		Getenv: os.Getenv,
	}
}

// state is what the persistent flags resolve into before a command runs.
type state struct {
	env Env

	emailAddress string
	password     string
	headless     bool
	configPath   string
	verbose      bool

	config   Config
	settings Settings
}

func (s *state) credentials(cmd *cobra.Command) vws.Credentials {
	creds := vws.Credentials{
		EmailAddress: s.config.EmailAddress,
		Password:     s.config.Password,
	}
	if value := s.env.Getenv(emailAddressEnv); value != "" {
		creds.EmailAddress = value
	}
	if value := s.env.Getenv(passwordEnv); value != "" {
		creds.Password = value
	}
	if cmd.Flags().Changed("email-address") {
		creds.EmailAddress = s.emailAddress
	}
	if cmd.Flags().Changed("password") {
		creds.Password = s.password
	}
	return creds
}

func (s *state) prepare(cmd *cobra.Command) error {
	telemetry.InitSlog(s.verbose)

	config, err := loadConfig(s.configPath)
	if err != nil {
		return err
	}
	timeouts, err := config.Timeouts.resolve()
	if err != nil {
		return err
	}

	s.config = config
	s.settings = Settings{
		Browser: config.Browser.resolve(s.headless, cmd.Flags().Changed("headless")),
		Console: vws.Options{
			BaseURL:  config.BaseURL,
			Timeouts: timeouts,
		},
		Tel: s.env.Tel,
	}
	return nil
}

// withConsole opens a browser, logs in and runs fn. Missing credentials fail
// before the browser is started.
// validCredentials resolves the credentials and fails before any network access
// if they are incomplete.
func (s *state) validCredentials(cmd *cobra.Command) (vws.Credentials, error) {
	creds := s.credentials(cmd)
	err := creds.Validate()
	if err != nil {
		return vws.Credentials{}, fmt.Errorf("%w (use --email-address/--password or %s/%s)", err, emailAddressEnv, passwordEnv)
	}
	return creds, nil
}

func (s *state) withConsole(cmd *cobra.Command, fn func(ctx context.Context, console Console) error) error {
	creds, err := s.validCredentials(cmd)
	if err != nil {
		return err
	}

	attempts := s.config.LoginAttempts
	if attempts <= 0 {
		attempts = defaultLoginAttempts
	}

	return s.env.Open(cmd.Context(), s.settings, func(ctx context.Context, console Console) error {
		err := console.LogInWithRetry(ctx, creds, attempts)
		if err != nil {
			return fmt.Errorf("log in: %w", err)
		}
		return fn(ctx, console)
	})
}

func NewRootCommand(env Env) *cobra.Command {
	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	if env.Tel == nil {
		env.Tel = telemetry.SlogAPI{}
	}
	if env.HTTP == nil {
		env.HTTP = resty.New()
	}
	s := &state{env: env}

	rootCmd := &cobra.Command{
		Use:           "vws-web",
		Short:         "vws-web automates the Vuforia Web Services developer console.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.prepare(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.emailAddress, "email-address", "", "The email address of the developer account. (env "+emailAddressEnv+")")
	flags.StringVar(&s.password, "password", "", "The password of the developer account. (env "+passwordEnv+")")
	flags.BoolVar(&s.headless, "headless", true, "Run the browser without a window.")
	flags.StringVar(&s.configPath, "config", "", "Path to a json5 config file, defaults to the closest "+configName+".")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "Log debug output.")

	rootCmd.AddCommand(
		newCreateLicenseCmd(s),
		newDeleteLicenseCmd(s),
		newShowLicenseDetailsCmd(s),
		newCreateDatabaseCmd(s),
		newShowDatabaseDetailsCmd(s),
		newUploadVuMarkTemplateCmd(s),
		newGetVuMarkTargetIDCmd(s),
		newWaitForVuMarkTargetLinkCmd(s),
	)
	return rootCmd
}

func execute(ctx context.Context, env Env, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(env)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func ExecuteContext(ctx context.Context) {
	tracing, err := telemetry.SetupFromEnv(ctx, serviceName)
	if err != nil {
		slog.Warn("failed to set up tracing", "err", err)
	}
	code := execute(ctx, DefaultEnv(), os.Args[1:], os.Stdout, os.Stderr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = tracing.Shutdown(shutdownCtx)
	cancel()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("failed to flush traces", "err", err)
	}
	os.Exit(code)
}
