package gmail

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/google"
)

// ErrNotFound is wrapped by errors for messages the API does not know.
var ErrNotFound = errors.New("message not found")

// TransportError reports a failed Gmail API call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a body part whose data is not valid base64url or not
// valid UTF-8. Only the full-body path returns it.
type DecodeError struct {
	PartID string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.PartID == "" {
		return fmt.Sprintf("failed to decode message body: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode message body part %s: %v", e.PartID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classifyAPIError maps a Gmail API error onto the error taxonomy.
func classifyAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return &google.AuthError{Err: fmt.Errorf("%s: %w", op, err)}
		case http.StatusNotFound:
			return &TransportError{Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)}
		}
	}
	if google.IsAuthError(err) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
