package gmail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/google"
)

const messagesPath = "/gmail/v1/users/me/messages"

// fakeGmail is a minimal Gmail REST endpoint serving numbered message IDs.
type fakeGmail struct {
	total    int
	listCode int
	getCode  int

	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(context.Background()))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == messagesPath {
		if f.listCode != 0 {
			writeAPIError(w, f.listCode)
			return
		}
		f.serveList(w, r)
		return
	}

	if f.getCode != 0 {
		writeAPIError(w, f.getCode)
		return
	}
	id := r.URL.Path[len(messagesPath)+1:]
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      id,
		"snippet": "snippet of " + id,
	})
}

func (f *fakeGmail) serveList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, _ := strconv.Atoi(q.Get("pageToken"))
	size, _ := strconv.Atoi(q.Get("maxResults"))
	if size == 0 {
		size = 100
	}
	end := min(start+size, f.total)

	messages := []map[string]string{}
	for i := start; i < end; i++ {
		messages = append(messages, map[string]string{"id": "m" + strconv.Itoa(i)})
	}
	resp := map[string]any{"messages": messages}
	if end < f.total {
		resp["nextPageToken"] = strconv.Itoa(end)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeGmail) listRequests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*http.Request
	for _, r := range f.requests {
		if r.URL.Path == messagesPath {
			out = append(out, r)
		}
	}
	return out
}

func writeAPIError(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": http.StatusText(code),
		},
	})
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClientWithOptions(context.Background(), nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func TestClient_ListMessages(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int64
		wantCount int
		wantPages int
	}{
		{name: "fewer than limit", total: 3, limit: 10, wantCount: 3, wantPages: 1},
		{name: "exactly limit", total: 10, limit: 10, wantCount: 10, wantPages: 1},
		{name: "limit below total", total: 50, limit: 7, wantCount: 7, wantPages: 1},
		{name: "paginates past page size", total: 1200, limit: 1100, wantCount: 1100, wantPages: 3},
		{name: "empty mailbox", total: 0, limit: 10, wantCount: 0, wantPages: 1},
		{name: "zero limit makes no call", total: 5, limit: 0, wantCount: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGmail{total: tt.total}
			c := newTestClient(t, fake)

			got, err := c.ListMessages(context.Background(), "from:boss", tt.limit)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Len(t, got, tt.wantCount)
			assert.Len(t, fake.listRequests(), tt.wantPages)

			for i, s := range got {
				assert.Equal(t, "m"+strconv.Itoa(i), s.ID)
			}
			for _, r := range fake.listRequests() {
				assert.Equal(t, "from:boss", r.URL.Query().Get("q"))
				size, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
				assert.LessOrEqual(t, size, maxPageSize)
			}
		})
	}
}

func TestClient_GetMessage(t *testing.T) {
	fake := &fakeGmail{}
	c := newTestClient(t, fake)

	msg, err := c.GetMessage(context.Background(), "abc", FormatMetadata)
	require.NoError(t, err)
	assert.Equal(t, "abc", msg.Id)

	_, err = c.GetMessage(context.Background(), "def", FormatFull)
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 2)

	meta := fake.requests[0].URL.Query()
	assert.Equal(t, "metadata", meta.Get("format"))
	assert.ElementsMatch(t, []string{"From", "Subject", "Date"}, meta["metadataHeaders"])

	full := fake.requests[1].URL.Query()
	assert.Equal(t, "full", full.Get("format"))
	assert.Empty(t, full["metadataHeaders"])
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		fake     *fakeGmail
		call     func(c *Client) error
		wantAuth bool
		notFound bool
	}{
		{
			name: "get unknown message",
			fake: &fakeGmail{getCode: http.StatusNotFound},
			call: func(c *Client) error {
				_, err := c.GetMessage(context.Background(), "nope", FormatFull)
				return err
			},
			notFound: true,
		},
		{
			name: "list unauthorized",
			fake: &fakeGmail{listCode: http.StatusUnauthorized},
			call: func(c *Client) error {
				_, err := c.ListMessages(context.Background(), "", 5)
				return err
			},
			wantAuth: true,
		},
		{
			name: "get server error",
			fake: &fakeGmail{getCode: http.StatusInternalServerError},
			call: func(c *Client) error {
				_, err := c.GetMessage(context.Background(), "x", FormatMetadata)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.fake)

			err := tt.call(c)
			require.Error(t, err)

			assert.Equal(t, tt.wantAuth, google.IsAuthError(err))
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
			if !tt.wantAuth {
				var transportErr *TransportError
				assert.ErrorAs(t, err, &transportErr)
			}
		})
	}
}
