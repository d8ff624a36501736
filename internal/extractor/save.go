package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/export"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/gmail"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// DefaultQueryPrefix names files saved by query when no prefix is given.
const DefaultQueryPrefix = "email"

// ErrNoSelection is returned when neither a tag nor a query is given.
var ErrNoSelection = errors.New("either a tag or a query must be provided")

// SaveOptions selects messages to save as flat text files. Query takes
// precedence over Tag.
type SaveOptions struct {
	Tag   string
	Query string
	Limit int64

	// Prefix for file names. Defaults to the tag, or "email" for queries.
	Prefix string

	// Progress receives the search and per-file lines as they happen. When
	// nil they are part of the result text instead.
	Progress io.Writer
}

// SaveMessages writes each matching message to its own flat text file in the
// results directory. The body is the text of every readable part.
func (s *Service) SaveMessages(ctx context.Context, opts SaveOptions) Result {
	logger := logging.WithOperation(s.logger, "save_messages")

	var query, prefix string
	var fileName func(prefix string, index int, id string) string
	switch {
	case opts.Query != "":
		query = opts.Query
		prefix = opts.Prefix
		if prefix == "" {
			prefix = DefaultQueryPrefix
		}
		fileName = export.QueryFileName
	case opts.Tag != "":
		query = "label:" + opts.Tag
		prefix = opts.Prefix
		if prefix == "" {
			prefix = opts.Tag
		}
		fileName = export.TaggedFileName
	default:
		return failure(errSaving, ErrNoSelection)
	}

	var b strings.Builder
	progress := opts.Progress
	if progress == nil {
		progress = &b
	}
	fmt.Fprintf(progress, "Searching for emails with query: %s\n", query)

	msgs, err := s.fetch(ctx, query, opts.Limit, gmail.FormatFull)
	if err != nil {
		logger.Error("save failed", logging.Query(query), logging.Err(err))
		return failure(errSaving, err)
	}
	if len(msgs) == 0 {
		if opts.Query != "" {
			fmt.Fprintf(&b, "No messages found with query: %s", query)
		} else {
			fmt.Fprintf(&b, "No messages found with '%s' tag.", opts.Tag)
		}
		return Result{Text: b.String()}
	}

	if opts.Query != "" {
		fmt.Fprintf(progress, "Found %d email(s). Saving to %s...\n", len(msgs), s.resultsDir)
	} else {
		fmt.Fprintf(progress, "Found %d email(s) with '%s' tag. Saving to %s...\n", len(msgs), opts.Tag, s.resultsDir)
	}

	for i, m := range msgs {
		idx := i + 1
		r := record(m, gmail.CollectBody(m.Payload))

		path, err := export.SaveFlatFile(s.resultsDir, fileName(prefix, idx, r.ID), r, idx, len(msgs))
		if err != nil {
			logger.Error("save failed", logging.MessageID(r.ID), logging.Err(err))
			s.metrics.RecordRecordsWritten(ctx, instrumentation.SinkFlatFile, i)
			return failure(errSaving, err)
		}
		fmt.Fprintf(progress, "[OK] Saved email %d: %s\n  Subject: %s\n  From: %s\n\n", idx, path, r.Subject, r.From)
	}
	s.metrics.RecordRecordsWritten(ctx, instrumentation.SinkFlatFile, len(msgs))
	logger.Info("messages saved", logging.Count(len(msgs)), logging.Path(s.resultsDir))

	if opts.Progress == nil {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Successfully saved %d email(s) to: %s", len(msgs), s.resultsDir)
	return Result{Text: b.String(), Count: len(msgs)}
}
