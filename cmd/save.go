package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/extractor"
)

func newSaveCmd(opts *rootOptions) *cobra.Command {
	var save extractor.SaveOptions

	cmd := &cobra.Command{
		Use:   "save [tag]",
		Short: "Save messages as text files in the results directory",
		Long: `Save messages carrying a Gmail label, or matching --query, as one text file
each in the results directory. Files are named <prefix>_email_<n>_<id>.txt
for labels and <prefix>_<n>_<id>.txt for queries. The prefix defaults to the
label, or "email" for queries.`,
		Example: `  gmail-extractor save payments -n 5
  gmail-extractor save -q "is:unread after:2025/10/19" -p unread`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				save.Tag = args[0]
			}
			if save.Tag == "" && save.Query == "" {
				return extractor.ErrNoSelection
			}
			save.Progress = cmd.OutOrStdout()
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.SaveMessages(ctx, save)
			})
		},
	}

	cmd.Flags().Int64VarP(&save.Limit, "max-results", "n", extractor.DefaultTagLimit, "Maximum number of messages to save")
	cmd.Flags().StringVarP(&save.Prefix, "prefix", "p", "", "Prefix for file names (default: the tag, or \"email\" for queries)")
	cmd.Flags().StringVarP(&save.Query, "query", "q", "", "Gmail search query used instead of a tag")
	return cmd
}

func newCSVFromFilesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "csv-from-files <pattern> [output]",
		Short: "Build a CSV from saved message files",
		Long: `Parse the text files in the results directory matching a glob pattern and
write their sender, recipient, subject, date and a body snippet to a CSV in
the same directory. The output name defaults to saved_emails_YYYYMMDD_HHMMSS.csv.`,
		Example: `  gmail-extractor csv-from-files "payments_*.txt" payments.csv`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runWithService(cmd, opts, func(ctx context.Context, svc *extractor.Service) extractor.Result {
				return svc.CSVFromFiles(ctx, args[0], output)
			})
		},
	}
}
