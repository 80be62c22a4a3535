package errors

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Payload is the error body returned by the dashboard API.
// Message is either a string or a list of validation messages.
type Payload struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Reason     string          `json:"error"`
}

// messages decodes Message into its list form.
func (p *Payload) messages() []string {
	if len(p.Message) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(p.Message, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var list []string
	if err := json.Unmarshal(p.Message, &list); err == nil {
		return list
	}
	return nil
}

// FromResponse builds an *Error from a non-accepted HTTP response.
// The server message is kept verbatim; a list message is joined with "; "
// and each item is also kept in the "messages" metadata.
func FromResponse(status int, body []byte) *Error {
	var p Payload
	if len(body) > 0 && json.Unmarshal(body, &p) == nil {
		if msgs := p.messages(); len(msgs) > 0 {
			err := New(status, "%s", strings.Join(msgs, "; "))
			if len(msgs) > 1 {
				err = err.WithMetadata(map[string]string{"messages": strings.Join(msgs, "\n")})
			}
			if p.Reason != "" {
				err = err.WithMetadata(map[string]string{"reason": p.Reason})
			}
			return err
		}
		if p.Reason != "" {
			return New(status, "%s", p.Reason)
		}
	}

	text := http.StatusText(status)
	if text == "" {
		text = "unexpected status"
	}
	return New(status, "%s", text)
}

// Transport wraps a failure where no response was received, such as a
// timeout or a refused connection.
func Transport(err error) *Error {
	if err == nil {
		return nil
	}
	return New(CodeTransport, "%s", err.Error()).WithCause(err)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var e *Error
	return As(err, &e) && e.Code == CodeTransport
}

// IsUnauthorized reports whether err carries a 401 status.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == http.StatusUnauthorized
}

// CodeOf returns the code of err, UnknownCode for foreign errors and 0 for nil.
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if As(err, &e) {
		return e.Code
	}
	return UnknownCode
}

// MessageOf returns the user facing message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if As(err, &e) {
		return e.Message
	}
	return err.Error()
}
