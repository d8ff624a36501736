package gmail

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/snippet"
)

func enc(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func leaf(id, data string) *gmail.MessagePart {
	return &gmail.MessagePart{PartId: id, Body: &gmail.MessagePartBody{Data: data}}
}

func branch(id string, parts ...*gmail.MessagePart) *gmail.MessagePart {
	return &gmail.MessagePart{PartId: id, Body: &gmail.MessagePartBody{}, Parts: parts}
}

// deepTree puts data only in the third grandchild of the third child, with
// empty decoys everywhere before it.
func deepTree(data string) *gmail.MessagePart {
	return branch("",
		branch("0", leaf("0.0", ""), leaf("0.1", ""), leaf("0.2", "")),
		branch("1", leaf("1.0", "")),
		branch("2",
			leaf("2.0", ""),
			branch("2.1"),
			leaf("2.2", data),
		),
	)
}

func TestBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
		{
			name:    "single part message",
			payload: leaf("", enc("plain body")),
			want:    "plain body",
		},
		{
			name:    "no data anywhere",
			payload: branch("", leaf("0", ""), branch("1", leaf("1.0", ""))),
			want:    "",
		},
		{
			name:    "first child wins",
			payload: branch("", leaf("0", enc("text/plain")), leaf("1", enc("<p>html</p>"))),
			want:    "text/plain",
		},
		{
			name:    "empty data treated as absent",
			payload: branch("", leaf("0", ""), leaf("1", enc("second"))),
			want:    "second",
		},
		{
			name:    "present but empty part list",
			payload: branch("", branch("0"), leaf("1", enc("after empty"))),
			want:    "after empty",
		},
		{
			name:    "third grandchild of third child",
			payload: deepTree(enc("deep")),
			want:    "deep",
		},
		{
			name:    "depth first before later siblings",
			payload: branch("", branch("0", branch("0.0", leaf("0.0.0", enc("nested")))), leaf("1", enc("sibling"))),
			want:    "nested",
		},
		{
			name:    "unpadded base64url",
			payload: leaf("", base64.RawURLEncoding.EncodeToString([]byte("no padding?"))),
			want:    "no padding?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Body(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBody_DecodeError(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		partID  string
	}{
		{
			name:    "invalid base64",
			payload: branch("", leaf("0", "!!!not base64!!!"), leaf("1", enc("never reached"))),
			partID:  "0",
		},
		{
			name:    "invalid utf-8",
			payload: leaf("0", base64.URLEncoding.EncodeToString([]byte{0xff, 0xfe, 'a'})),
			partID:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Body(tt.payload)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tt.partID, decodeErr.PartID)
		})
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 150) + "\n" + strings.Repeat("b", 150)

	tests := []struct {
		name  string
		msg   *gmail.Message
		limit int
		want  string
	}{
		{
			name:  "nil message",
			msg:   nil,
			limit: snippet.Length,
			want:  "",
		},
		{
			name:  "no data falls back to provider snippet",
			msg:   &gmail.Message{Snippet: "provider summary", Payload: branch("", leaf("0", ""))},
			limit: snippet.Length,
			want:  "provider summary",
		},
		{
			name:  "nil payload falls back",
			msg:   &gmail.Message{Snippet: "provider summary"},
			limit: snippet.Length,
			want:  "provider summary",
		},
		{
			name:  "truncated and flattened",
			msg:   &gmail.Message{Payload: leaf("", enc(long))},
			limit: snippet.Length,
			want:  strings.Repeat("a", 150) + " " + strings.Repeat("b", 49),
		},
		{
			name:  "extended limit",
			msg:   &gmail.Message{Payload: leaf("", enc(strings.Repeat("z", 800)))},
			limit: snippet.ExtendedLength,
			want:  strings.Repeat("z", 500),
		},
		{
			name:  "carriage returns replaced",
			msg:   &gmail.Message{Payload: leaf("", enc("one\r\ntwo"))},
			limit: snippet.Length,
			want:  "one  two",
		},
		{
			name: "malformed part skipped",
			msg: &gmail.Message{
				Snippet: "unused",
				Payload: branch("", leaf("0", "%%%"), leaf("1", enc("good part"))),
			},
			limit: snippet.Length,
			want:  "good part",
		},
		{
			name:  "only malformed parts fall back",
			msg:   &gmail.Message{Snippet: "fallback", Payload: branch("", leaf("0", "%%%"))},
			limit: snippet.Length,
			want:  "fallback",
		},
		{
			name:  "invalid utf-8 bytes dropped",
			msg:   &gmail.Message{Payload: leaf("", base64.URLEncoding.EncodeToString([]byte{'o', 0xff, 'k'}))},
			limit: snippet.Length,
			want:  "ok",
		},
		{
			name:  "deep data found",
			msg:   &gmail.Message{Snippet: "unused", Payload: deepTree(enc("deep"))},
			limit: snippet.Length,
			want:  "deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snippet(tt.msg, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), max(tt.limit, utf8.RuneCountInString(fallbackOf(tt.msg))))
		})
	}
}

func fallbackOf(msg *gmail.Message) string {
	if msg == nil {
		return ""
	}
	return msg.Snippet
}

func TestCollectBody(t *testing.T) {
	payload := branch("",
		leaf("0", enc("first")),
		leaf("1", "%%%"),
		branch("2", leaf("2.0", ""), leaf("2.1", enc("second"))),
		leaf("3", enc("third")),
	)

	assert.Equal(t, "first\nsecond\nthird", CollectBody(payload))
	assert.Equal(t, "", CollectBody(nil))
}

func TestWalk_PreOrder(t *testing.T) {
	var visited []string
	stopped, err := walk(PartNode(deepTree("")), func(n Node) (bool, error) {
		visited = append(visited, n.ID())
		return false, nil
	})

	require.NoError(t, err)
	assert.False(t, stopped)
	assert.Equal(t, []string{"", "0", "0.0", "0.1", "0.2", "1", "1.0", "2", "2.0", "2.1", "2.2"}, visited)
}

func TestWalk_ShortCircuits(t *testing.T) {
	var visited []string
	stopped, err := walk(PartNode(deepTree("")), func(n Node) (bool, error) {
		visited = append(visited, n.ID())
		return n.ID() == "1", nil
	})

	require.NoError(t, err)
	assert.True(t, stopped)
	assert.Equal(t, []string{"", "0", "0.0", "0.1", "0.2", "1"}, visited)
}

func TestHeadersOf(t *testing.T) {
	payload := &gmail.MessagePart{
		Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: "alice@example.com"},
			{Name: "Subject", Value: "first"},
			nil,
			{Name: "Subject", Value: "second"},
			{Name: "subject", Value: "lowercase"},
		},
	}

	headers := HeadersOf(payload)

	assert.Equal(t, "alice@example.com", headers.GetOr("From", "N/A"))
	assert.Equal(t, "second", headers.GetOr("Subject", "N/A"))
	assert.Equal(t, "lowercase", headers.GetOr("subject", "N/A"))
	assert.Equal(t, "N/A", headers.GetOr("To", "N/A"))
	assert.Empty(t, HeadersOf(nil))
}
