package gmail

import (
	"context"
	"log/slog"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// Fetcher lists messages and retrieves each one in turn.
type Fetcher struct {
	api    API
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A nil logger uses slog.Default().
func NewFetcher(api API, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{api: api, logger: logger}
}

// Fetch lists up to limit messages matching query and retrieves each of them
// with the given format, sequentially and in listing order. An empty listing
// returns an empty slice. The first failing call aborts the fetch.
func (f *Fetcher) Fetch(ctx context.Context, query string, limit int64, format Format) ([]*gmail.Message, error) {
	logger := f.logger.With(logging.Query(query))

	summaries, err := f.api.ListMessages(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	logger.Debug("listed messages", logging.Count(len(summaries)))

	messages := make([]*gmail.Message, 0, len(summaries))
	for _, s := range summaries {
		msg, err := f.api.GetMessage(ctx, s.ID, format)
		if err != nil {
			logger.Debug("message fetch aborted", logging.MessageID(s.ID), logging.Err(err))
			return nil, err
		}
		if msg.Id == "" {
			msg.Id = s.ID
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Get retrieves a single message.
func (f *Fetcher) Get(ctx context.Context, id string, format Format) (*gmail.Message, error) {
	return f.api.GetMessage(ctx, id, format)
}
