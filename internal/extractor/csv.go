package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/export"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/gmail"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/snippet"
)

// ExportOptions selects the messages to export and where to write them.
type ExportOptions struct {
	Query string
	Limit int64

	// Filename is relative to the output directory. Empty generates
	// gmail_export_YYYYMMDD_HHMMSS.csv.
	Filename string
}

// ExportToCSV writes matching messages to a CSV file with a 200 character
// body snippet per row.
func (s *Service) ExportToCSV(ctx context.Context, opts ExportOptions) Result {
	logger := logging.WithOperation(s.logger, "export_csv")

	msgs, err := s.fetch(ctx, opts.Query, opts.Limit, gmail.FormatFull)
	if err != nil {
		logger.Error("export failed", logging.Query(opts.Query), logging.Err(err))
		return failure(errExporting, err)
	}
	if len(msgs) == 0 {
		return Result{Text: "No messages found to export."}
	}

	records := make([]export.Record, len(msgs))
	for i, m := range msgs {
		records[i] = record(m, gmail.Snippet(m, snippet.Length))
	}

	path, err := s.csvSink(s.outputDir).Write(opts.Filename, export.ExportPrefix, records)
	if err != nil {
		logger.Error("export failed", logging.Err(err))
		return failure(errExporting, err)
	}
	s.metrics.RecordRecordsWritten(ctx, instrumentation.SinkCSV, len(records))
	logger.Info("export written", logging.Count(len(records)), logging.Path(path))

	return Result{
		Text: fmt.Sprintf("Successfully exported %d messages to: %s\n\n"+
			"File contains: Message ID, From, To, Subject, Date, and Snippet (first 200 chars of body)",
			len(records), path),
		Count: len(records),
	}
}

// ExportUnreadToday writes up to five messages that are unread and arrived
// today to results/unread_emails_today_YYYYMMDD_HHMMSS.csv, with 500
// character snippets.
func (s *Service) ExportUnreadToday(ctx context.Context) Result {
	logger := logging.WithOperation(s.logger, "export_unread_today")
	now := s.now()
	query := "is:unread after:" + now.Format("2006/01/02")

	msgs, err := s.fetch(ctx, query, UnreadTodayLimit, gmail.FormatFull)
	if err != nil {
		logger.Error("export failed", logging.Query(query), logging.Err(err))
		return failure(errExporting, err)
	}
	if len(msgs) == 0 {
		return Result{Text: "No unread messages found from today."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d unread message(s) from today.\n", len(msgs))

	records := make([]export.Record, len(msgs))
	for i, m := range msgs {
		records[i] = record(m, gmail.Snippet(m, snippet.ExtendedLength))
		fmt.Fprintf(&b, "- From: %s\n  Subject: %s\n", records[i].From, records[i].Subject)
	}

	sink := export.CSVSink{Dir: s.resultsDir, Now: func() time.Time { return now }}
	path, err := sink.Write("", export.UnreadTodayPrefix, records)
	if err != nil {
		logger.Error("export failed", logging.Err(err))
		return failure(errExporting, err)
	}
	s.metrics.RecordRecordsWritten(ctx, instrumentation.SinkCSV, len(records))
	logger.Info("export written", logging.Count(len(records)), logging.Path(path))

	fmt.Fprintf(&b, "\nSuccessfully exported %d messages to: %s", len(records), absPath(path))
	return Result{Text: b.String(), Count: len(records)}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
