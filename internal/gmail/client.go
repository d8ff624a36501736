package gmail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
)

// Format selects how much of a message the get call returns.
type Format string

const (
	// FormatMetadata returns only the From, Subject and Date headers.
	FormatMetadata Format = "metadata"
	// FormatFull returns all headers and the payload tree.
	FormatFull Format = "full"
)

// maxPageSize is the largest page the list endpoint serves.
const maxPageSize = 500

var metadataHeaders = []string{"From", "Subject", "Date"}

// Summary is one entry of a message listing.
type Summary struct {
	ID string
}

// API is the part of the Gmail API the fetcher relies on.
type API interface {
	ListMessages(ctx context.Context, query string, limit int64) ([]Summary, error)
	GetMessage(ctx context.Context, id string, format Format) (*gmail.Message, error)
}

// CredentialSource yields an HTTP client carrying the user's credential.
type CredentialSource interface {
	Client(ctx context.Context) (*http.Client, error)
}

// Client implements API on top of the Gmail Users service.
type Client struct {
	svc     *gmail.UsersService
	metrics *instrumentation.Metrics
}

// NewClient creates a Client authenticated by creds.
func NewClient(ctx context.Context, creds CredentialSource, metrics *instrumentation.Metrics) (*Client, error) {
	httpClient, err := creds.Client(ctx)
	if err != nil {
		return nil, err
	}
	return NewClientWithOptions(ctx, metrics, option.WithHTTPClient(httpClient))
}

// NewClientWithOptions creates a Client from raw client options, e.g. a
// custom endpoint in tests.
func NewClientWithOptions(ctx context.Context, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users, metrics: metrics}, nil
}

// ListMessages returns up to limit message summaries matching query, in the
// order the API returns them. The query is passed through unparsed.
func (c *Client) ListMessages(ctx context.Context, query string, limit int64) ([]Summary, error) {
	if limit <= 0 {
		return []Summary{}, nil
	}

	ctx, span := instrumentation.StartGmailAPISpan(ctx, instrumentation.OperationList, instrumentation.LimitAttr(limit))
	defer span.End()
	start := time.Now()

	summaries := make([]Summary, 0, min(limit, maxPageSize))
	pageToken := ""
	for int64(len(summaries)) < limit {
		call := c.svc.Messages.List("me").
			Q(query).
			MaxResults(min(limit-int64(len(summaries)), maxPageSize)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			err = classifyAPIError("list messages", err)
			instrumentation.SetSpanError(span, err)
			c.metrics.RecordGmailAPIOperation(ctx, instrumentation.OperationList, instrumentation.StatusError, time.Since(start))
			return nil, err
		}

		for _, m := range res.Messages {
			if int64(len(summaries)) == limit {
				break
			}
			summaries = append(summaries, Summary{ID: m.Id})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	instrumentation.SetResultCount(span, len(summaries))
	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGmailAPIOperation(ctx, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
	return summaries, nil
}

// GetMessage fetches one message. FormatMetadata restricts the headers to
// From, Subject and Date.
func (c *Client) GetMessage(ctx context.Context, id string, format Format) (*gmail.Message, error) {
	ctx, span := instrumentation.StartGmailAPISpan(ctx, instrumentation.OperationGet, instrumentation.MessageIDAttr(id))
	defer span.End()
	start := time.Now()

	call := c.svc.Messages.Get("me", id).Format(string(format)).Context(ctx)
	if format == FormatMetadata {
		call = call.MetadataHeaders(metadataHeaders...)
	}

	msg, err := call.Do()
	if err != nil {
		err = classifyAPIError("get message "+id, err)
		instrumentation.SetSpanError(span, err)
		c.metrics.RecordGmailAPIOperation(ctx, instrumentation.OperationGet, instrumentation.StatusError, time.Since(start))
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGmailAPIOperation(ctx, instrumentation.OperationGet, instrumentation.StatusSuccess, time.Since(start))
	return msg, nil
}
