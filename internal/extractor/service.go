package extractor

import (
	"context"
	"log/slog"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/export"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/gmail"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
)

// Default limits.
const (
	DefaultListLimit   = 10
	DefaultSearchLimit = 20
	DefaultExportLimit = 100
	DefaultTagLimit    = 3
	UnreadTodayLimit   = 5
)

// Service runs mail operations against one mailbox.
type Service struct {
	connector  gmail.Connector
	outputDir  string
	resultsDir string
	now        func() time.Time
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithOutputDir sets the directory for CSV exports with relative names.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		s.outputDir = dir
	}
}

// WithResultsDir sets the directory for saved flat files, the unread-today
// export and CSVs rebuilt from saved files.
func WithResultsDir(dir string) Option {
	return func(s *Service) {
		s.resultsDir = dir
	}
}

// WithClock sets the clock used for default file names and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics records written records.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service that obtains its Gmail handle from connector.
func New(connector gmail.Connector, opts ...Option) *Service {
	s := &Service{
		connector:  connector,
		outputDir:  ".",
		resultsDir: "results",
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResultsDir returns the directory used for saved files.
func (s *Service) ResultsDir() string {
	return s.resultsDir
}

func (s *Service) fetcher(ctx context.Context) (*gmail.Fetcher, error) {
	api, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return gmail.NewFetcher(api, s.logger), nil
}

func (s *Service) fetch(ctx context.Context, query string, limit int64, format gmail.Format) ([]*gmailapi.Message, error) {
	f, err := s.fetcher(ctx)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, query, limit, format)
}

func (s *Service) csvSink(dir string) export.CSVSink {
	return export.CSVSink{Dir: dir, Now: s.now}
}

// record builds an export.Record from a message's headers. Missing headers
// become export.NotAvailable.
func record(msg *gmailapi.Message, body string) export.Record {
	h := gmail.HeadersOf(msg.Payload)
	return export.Record{
		ID:      msg.Id,
		From:    h.GetOr("From", export.NotAvailable),
		To:      h.GetOr("To", export.NotAvailable),
		Subject: h.GetOr("Subject", export.NotAvailable),
		Date:    h.GetOr("Date", export.NotAvailable),
		Body:    body,
	}
}
