package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and the MCP server.
func SetVersion(v string) {
	version = v
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gmail-extractor",
		Short: "Extract Gmail messages for AI assistants and spreadsheets",
		Long: `gmail-extractor reads messages from your Gmail account and hands them to
AI assistants or writes them to files.

It can run as:
  - An MCP (Model Context Protocol) server exposing list, get, search and
    CSV export tools (default)
  - A CLI that lists messages, exports CSVs and saves messages as text files

Settings are read from the environment and an optional .env file; flags
override both.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(`{{printf "gmail-extractor version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", "", "Read settings from this file instead of ./.env")
	flags.StringVar(&opts.clientSecret, "client-secret", "", "OAuth client secret file (env: GMAIL_EXTRACTOR_CLIENT_SECRET)")
	flags.StringVar(&opts.tokenFile, "token-file", "", "Token file (env: GMAIL_EXTRACTOR_TOKEN_FILE)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Directory for CSV exports (env: GMAIL_EXTRACTOR_OUTPUT_DIR)")
	flags.StringVar(&opts.resultsDir, "results-dir", "", "Directory for saved messages (env: GMAIL_EXTRACTOR_RESULTS_DIR)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (env: GMAIL_EXTRACTOR_LOG_LEVEL)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text, json (env: GMAIL_EXTRACTOR_LOG_FORMAT)")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newGetCmd(opts),
		newExportCmd(opts),
		newUnreadTodayCmd(opts),
		newSaveCmd(opts),
		newCSVFromFilesCmd(opts),
		newAuthCmd(opts),
		newVersionCmd(),
		newGenerateDocsCmd(),
	)
	return cmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	// If no subcommand is provided, run the MCP server by default
	if len(args) == 0 {
		args = []string{"serve"}
	}

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
