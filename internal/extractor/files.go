package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/export"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// SavedCSVPrefix names CSVs rebuilt from saved files when no name is given.
const SavedCSVPrefix = "saved_emails"

// CSVFromFiles parses the saved files in the results directory matching the
// glob pattern and writes them to a CSV named output in the same directory.
// An empty output generates saved_emails_YYYYMMDD_HHMMSS.csv. Files that
// cannot be read are reported and skipped.
func (s *Service) CSVFromFiles(ctx context.Context, pattern, output string) Result {
	logger := logging.WithOperation(s.logger, "csv_from_files")

	parsed, err := export.ParseFiles(s.resultsDir, pattern)
	if err != nil {
		return failure(errParsing, err)
	}
	if len(parsed) == 0 {
		return Result{Text: "No email files found matching pattern: " + pattern}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d email file(s) matching pattern: %s\n", len(parsed), pattern)

	records := make([]export.Record, 0, len(parsed))
	for _, pf := range parsed {
		if pf.Err != nil {
			logger.Warn("skipping unreadable file", logging.Path(pf.Name), logging.Err(pf.Err))
			fmt.Fprintf(&b, "  Error processing %s: %v\n", pf.Name, pf.Err)
			continue
		}
		records = append(records, pf.Record)
		fmt.Fprintf(&b, "  Processed: %s\n", pf.Name)
	}

	path, err := s.csvSink(s.resultsDir).Write(output, SavedCSVPrefix, records)
	if err != nil {
		logger.Error("csv write failed", logging.Err(err))
		return failure(errParsing, err)
	}
	s.metrics.RecordRecordsWritten(ctx, instrumentation.SinkCSV, len(records))

	fmt.Fprintf(&b, "\nSuccessfully created CSV: %s\nTotal emails: %d", path, len(records))
	return Result{Text: b.String(), Count: len(records)}
}
