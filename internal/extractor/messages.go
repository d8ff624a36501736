package extractor

import (
	"context"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/export"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/gmail"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// ListMessages lists up to limit messages matching query, which may be
// empty, with their From, Subject and Date headers.
func (s *Service) ListMessages(ctx context.Context, limit int64, query string) Result {
	logger := logging.WithOperation(s.logger, "list_messages")

	msgs, err := s.fetch(ctx, query, limit, gmail.FormatMetadata)
	if err != nil {
		logger.Error("listing failed", logging.Query(query), logging.Err(err))
		return failure(errListing, err)
	}

	records := make([]export.Record, len(msgs))
	for i, m := range msgs {
		records[i] = record(m, "")
	}
	logger.Debug("listed messages", logging.Count(len(records)))
	return Result{Text: export.FormatListing(records), Count: len(records)}
}

// SearchMessages is ListMessages with a query the caller must supply.
func (s *Service) SearchMessages(ctx context.Context, query string, limit int64) Result {
	return s.ListMessages(ctx, limit, query)
}

// GetMessage renders the headers and full body of one message. A body part
// that cannot be decoded fails the operation.
func (s *Service) GetMessage(ctx context.Context, id string) Result {
	logger := logging.WithOperation(s.logger, "get_message").With(logging.MessageID(id))

	f, err := s.fetcher(ctx)
	if err != nil {
		logger.Error("retrieval failed", logging.Err(err))
		return failure(errRetrieve, err)
	}

	msg, err := f.Get(ctx, id, gmail.FormatFull)
	if err != nil {
		logger.Error("retrieval failed", logging.Err(err))
		return failure(errRetrieve, err)
	}

	body, err := gmail.Body(msg.Payload)
	if err != nil {
		logger.Error("body decoding failed", logging.Err(err))
		return failure(errRetrieve, err)
	}

	if msg.Id == "" {
		msg.Id = id
	}
	return Result{Text: export.FormatMessage(record(msg, body)), Count: 1}
}
