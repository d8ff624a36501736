package gmail

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/snippet"
)

var errInvalidUTF8 = errors.New("body is not valid UTF-8")

// Node is one part of a message payload tree. A node carries inline data,
// child parts, or neither.
type Node interface {
	// ID identifies the part within its message, e.g. "0.1".
	ID() string
	// Data is the base64url-encoded inline body, empty when absent.
	Data() string
	Children() []Node
}

// PartNode adapts a Gmail message part to Node. A nil part is an empty node.
func PartNode(part *gmail.MessagePart) Node {
	return partNode{part: part}
}

type partNode struct {
	part *gmail.MessagePart
}

func (n partNode) ID() string {
	if n.part == nil {
		return ""
	}
	return n.part.PartId
}

func (n partNode) Data() string {
	if n.part == nil || n.part.Body == nil {
		return ""
	}
	return n.part.Body.Data
}

func (n partNode) Children() []Node {
	if n.part == nil || len(n.part.Parts) == 0 {
		return nil
	}
	children := make([]Node, len(n.part.Parts))
	for i, p := range n.part.Parts {
		children[i] = partNode{part: p}
	}
	return children
}

// policy decides what the walk does with a part that cannot be decoded.
type policy int

const (
	// failFast aborts the walk with a DecodeError.
	failFast policy = iota
	// tolerant skips the part and drops invalid UTF-8 bytes.
	tolerant
)

// walk visits n and its descendants depth-first in pre-order, children in
// order, and stops as soon as visit returns true or an error.
func walk(n Node, visit func(Node) (bool, error)) (bool, error) {
	if n == nil {
		return false, nil
	}
	stop, err := visit(n)
	if stop || err != nil {
		return stop, err
	}
	for _, child := range n.Children() {
		stop, err := walk(child, visit)
		if stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

// decodeText decodes a node's data under the given policy. It returns an
// empty string for nodes without data.
func decodeText(n Node, p policy) (string, error) {
	data := n.Data()
	if data == "" {
		return "", nil
	}

	raw, err := decodeBase64URL(data)
	if err != nil {
		if p == tolerant {
			return "", nil
		}
		return "", &DecodeError{PartID: n.ID(), Err: err}
	}

	if !utf8.Valid(raw) {
		if p == tolerant {
			return strings.ToValidUTF8(string(raw), ""), nil
		}
		return "", &DecodeError{PartID: n.ID(), Err: errInvalidUTF8}
	}
	return string(raw), nil
}

// decodeBase64URL accepts padded and unpadded base64url input.
func decodeBase64URL(data string) ([]byte, error) {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return raw, nil
	}
	if raw, rawErr := base64.RawURLEncoding.DecodeString(data); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

// firstText returns the text of the first node yielding non-empty text.
func firstText(root Node, p policy) (string, error) {
	var text string
	_, err := walk(root, func(n Node) (bool, error) {
		s, err := decodeText(n, p)
		if err != nil {
			return false, err
		}
		if s == "" {
			return false, nil
		}
		text = s
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Body returns the decoded text of the first part carrying body data. It
// returns an empty string when no part has data and a DecodeError when the
// first such part is malformed.
func Body(payload *gmail.MessagePart) (string, error) {
	return firstText(PartNode(payload), failFast)
}

// Snippet returns a single-line preview of the message body of at most limit
// runes. Malformed parts are skipped. When no part yields text the snippet
// Gmail computed for the message is returned instead.
func Snippet(msg *gmail.Message, limit int) string {
	if msg == nil {
		return ""
	}
	text, _ := firstText(PartNode(msg.Payload), tolerant)
	if text == "" {
		return msg.Snippet
	}
	return snippet.Truncate(text, limit)
}

// CollectBody joins the text of every readable part with newlines, in walk
// order. Malformed parts are skipped.
func CollectBody(payload *gmail.MessagePart) string {
	var texts []string
	_, _ = walk(PartNode(payload), func(n Node) (bool, error) {
		if s, _ := decodeText(n, tolerant); s != "" {
			texts = append(texts, s)
		}
		return false, nil
	})
	return strings.Join(texts, "\n")
}

// Headers maps header names, case-sensitive as returned by the API, to values.
type Headers map[string]string

// HeadersOf flattens the headers of a payload. When a name repeats, the last
// occurrence wins.
func HeadersOf(payload *gmail.MessagePart) Headers {
	headers := make(Headers)
	if payload == nil {
		return headers
	}
	for _, h := range payload.Headers {
		if h == nil {
			continue
		}
		headers[h.Name] = h.Value
	}
	return headers
}

// GetOr returns the value of name, or fallback when the header is absent.
func (h Headers) GetOr(name, fallback string) string {
	if v, ok := h[name]; ok {
		return v
	}
	return fallback
}
