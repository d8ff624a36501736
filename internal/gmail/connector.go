package gmail

import (
	"context"
	"sync"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
)

// Connector returns an authenticated API handle.
type Connector interface {
	Connect(ctx context.Context) (API, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (API, error)

// Connect implements Connector.
func (f ConnectorFunc) Connect(ctx context.Context) (API, error) {
	return f(ctx)
}

// LazyConnector creates the Client on first use and hands out the same
// handle afterwards. A failed attempt is not cached, so the next call
// retries authentication.
//
// The client is bound to the context given to NewLazyConnector rather than
// to the first caller's context: token refreshes happen long after the call
// that created the client has returned.
type LazyConnector struct {
	baseCtx context.Context
	creds   CredentialSource
	metrics *instrumentation.Metrics

	mu     sync.Mutex
	client *Client
}

// NewLazyConnector creates a LazyConnector for creds.
func NewLazyConnector(ctx context.Context, creds CredentialSource, metrics *instrumentation.Metrics) *LazyConnector {
	return &LazyConnector{baseCtx: ctx, creds: creds, metrics: metrics}
}

// Connect implements Connector.
func (c *LazyConnector) Connect(ctx context.Context) (API, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	client, err := NewClient(c.baseCtx, c.creds, c.metrics)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}
