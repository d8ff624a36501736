package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/config"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/extractor"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/gmail"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/google"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("error already reported")

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	envFile      string
	clientSecret string
	tokenFile    string
	outputDir    string
	resultsDir   string
	logLevel     string
	logFormat    string
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	var envFiles []string
	if opts.envFile != "" {
		if _, err := os.Stat(opts.envFile); err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		envFiles = append(envFiles, opts.envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	for name, pair := range map[string]struct {
		dst *string
		val string
	}{
		"client-secret": {&cfg.ClientSecretFile, opts.clientSecret},
		"token-file":    {&cfg.TokenFile, opts.tokenFile},
		"output-dir":    {&cfg.OutputDir, opts.outputDir},
		"results-dir":   {&cfg.ResultsDir, opts.resultsDir},
		"log-level":     {&cfg.LogLevel, opts.logLevel},
		"log-format":    {&cfg.LogFormat, opts.logFormat},
	} {
		if flags.Changed(name) {
			*pair.dst = pair.val
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// app wires configuration, credentials and the extractor service for one
// command invocation.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	instr       *instrumentation.Provider
	oauthConfig *oauth2.Config
	oauthErr    error
	store       *google.FileTokenStore
	credentials *google.Provider
	service     *extractor.Service
}

// newApp builds the application. Logs go to the command's stderr so stdout
// stays free for results and the stdio transport. Telemetry is exported only
// when instrumented is set.
func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions, instrumented bool) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	if instrumented {
		instrConfig := cfg.Instrumentation
		instrConfig.ServiceVersion = version
		a.instr, err = instrumentation.NewProvider(ctx, instrConfig,
			instrumentation.WithProviderLogger(logger),
			instrumentation.WithExportWriter(cmd.ErrOrStderr()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
		}
	}

	a.store = google.NewFileTokenStore(cfg.TokenFile)

	// Commands that never reach Gmail work without a client secret, so a
	// missing one only fails the first Gmail call.
	var connector gmail.Connector
	a.oauthConfig, a.oauthErr = google.LoadOAuthConfig(cfg.ClientSecretFile)
	if a.oauthErr != nil {
		connector = gmail.ConnectorFunc(func(context.Context) (gmail.API, error) {
			return nil, a.oauthErr
		})
	} else {
		a.credentials = google.NewProvider(a.oauthConfig, a.store, a.authorizer(cmd),
			google.WithLogger(logger),
			google.WithMetrics(a.metrics()),
		)
		connector = gmail.NewLazyConnector(ctx, a.credentials, a.metrics())
	}

	a.service = extractor.New(connector,
		extractor.WithOutputDir(cfg.OutputDir),
		extractor.WithResultsDir(cfg.ResultsDir),
		extractor.WithMetrics(a.metrics()),
		extractor.WithLogger(logger),
	)
	return a, nil
}

// authorizer runs the browser flow, printing the consent URL to stderr.
func (a *app) authorizer(cmd *cobra.Command) *google.LocalServerAuthorizer {
	return &google.LocalServerAuthorizer{
		Addr:        a.cfg.AuthCallbackAddr,
		Out:         cmd.ErrOrStderr(),
		OpenBrowser: google.OpenBrowser,
	}
}

func (a *app) metrics() *instrumentation.Metrics {
	return a.instr.Metrics()
}

// Close flushes pending telemetry.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.instr.Shutdown(ctx); err != nil {
		a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

// printResult writes a successful result to stdout and a failed one to
// stderr. A failure returns errReported so the exit code is non-zero.
func printResult(cmd *cobra.Command, r extractor.Result) error {
	if r.IsError() {
		fmt.Fprintln(cmd.ErrOrStderr(), r.Text)
		return errReported
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Text)
	return nil
}

// runWithService runs one extractor operation and prints its result.
func runWithService(cmd *cobra.Command, opts *rootOptions, run func(ctx context.Context, svc *extractor.Service) extractor.Result) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	return printResult(cmd, run(ctx, a.service))
}
