package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/extractor"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		maxResults int64
		query      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent messages",
		Long: `List recent messages with their ID, sender, subject and date.
Use --query to filter with Gmail search syntax.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.ListMessages(ctx, maxResults, query)
			})
		},
	}

	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", extractor.DefaultListLimit, "Maximum number of messages")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Gmail search query, e.g. 'is:unread'")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var maxResults int64

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "List messages matching a Gmail search query",
		Example: `  gmail-extractor search "from:billing@example.com after:2024/01/01"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.SearchMessages(ctx, args[0], maxResults)
			})
		},
	}

	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", extractor.DefaultSearchLimit, "Maximum number of messages")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <message-id>",
		Short: "Show the headers and full body of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.GetMessage(ctx, args[0])
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var export extractor.ExportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export messages to a CSV file",
		Long: `Export matching messages to a CSV file in the output directory. Each row
holds the message ID, sender, recipient, subject, date and the first 200
characters of the body.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.ExportToCSV(ctx, export)
			})
		},
	}

	cmd.Flags().StringVarP(&export.Query, "query", "q", "", "Gmail search query (default: all mail)")
	cmd.Flags().Int64VarP(&export.Limit, "max-results", "n", extractor.DefaultExportLimit, "Maximum number of messages")
	cmd.Flags().StringVarP(&export.Filename, "output", "o", "", "CSV file name (default: gmail_export_YYYYMMDD_HHMMSS.csv)")
	return cmd
}

func newUnreadTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unread-today",
		Short: "Export today's unread messages to the results directory",
		Long: `Export up to five messages that are unread and arrived today to
unread_emails_today_YYYYMMDD_HHMMSS.csv in the results directory, with the
first 500 characters of each body.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.ExportUnreadToday(ctx)
			})
		},
	}
}
