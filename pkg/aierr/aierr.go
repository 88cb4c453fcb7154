// Package aierr defines the closed error taxonomy reported by model services.
//
// Every public operation of a model service fails with exactly one *Error.
// Callers branch on [Error.Kind] (see [KindOf] and [IsKind]), never on the
// message text.
package aierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the class of a failure.
type Kind string

const (
	InvalidInput        Kind = "INVALID_INPUT"
	InvalidConfig       Kind = "INVALID_CONFIG"
	InvalidMessages     Kind = "INVALID_MESSAGES"
	InvalidRole         Kind = "INVALID_ROLE"
	InvalidContent      Kind = "INVALID_CONTENT"
	EmptyResponse       Kind = "EMPTY_RESPONSE"
	AuthenticationError Kind = "AUTHENTICATION_ERROR"
	RateLimitError      Kind = "RATE_LIMIT_ERROR"
	ProviderError       Kind = "PROVIDER_ERROR"
	RequestError        Kind = "REQUEST_ERROR"
	StreamError         Kind = "STREAM_ERROR"
)

var defaultMessages = map[Kind]string{
	InvalidInput:        "Invalid input",
	InvalidConfig:       "Invalid configuration",
	InvalidMessages:     "Invalid messages",
	InvalidRole:         "Invalid role",
	InvalidContent:      "Invalid content",
	EmptyResponse:       "Empty response received",
	AuthenticationError: "Authentication failed",
	RateLimitError:      "Rate limit exceeded",
	ProviderError:       "Provider service error",
	RequestError:        "Request failed",
	StreamError:         "Stream error occurred",
}

// Valid reports whether k is a member of the taxonomy.
func (k Kind) Valid() bool {
	_, ok := defaultMessages[k]
	return ok
}

// DefaultMessage returns the message used when an error is built without one.
func (k Kind) DefaultMessage() string {
	if msg, ok := defaultMessages[k]; ok {
		return msg
	}
	return "Unknown error"
}

// String returns the wire value of the kind.
func (k Kind) String() string { return string(k) }

// Error is the typed failure returned by model services. It is never mutated
// after construction.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New returns an Error of kind with msg, or the kind's default message when
// msg is empty.
func New(kind Kind, msg string) *Error {
	return Wrap(kind, msg, nil)
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return Wrap(kind, fmt.Sprintf(format, args...), nil)
}

// Wrap returns an Error of kind that records cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	if msg == "" {
		msg = kind.DefaultMessage()
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so a bare New(kind, "") can be used
// as an errors.Is target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// MarshalJSON renders the error with its cause flattened to a string.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind    Kind   `json:"type"`
		Message string `json:"message"`
		Cause   string `json:"cause,omitempty"`
	}{Kind: e.Kind, Message: e.Message}
	if e.Cause != nil {
		out.Cause = e.Cause.Error()
	}
	return json.Marshal(out)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// carries no typed error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries a typed error of kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCoder is implemented by transport errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// FromTransport classifies a transport failure. Typed errors pass through
// unchanged. Otherwise the status code, when present, selects the kind;
// anything unrecognised becomes fallback. provider names the upstream in
// server-side failure messages.
func FromTransport(err error, fallback Kind, provider string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		switch sc.HTTPStatus() {
		case http.StatusUnauthorized:
			return Wrap(AuthenticationError, "Invalid API key", err)
		case http.StatusTooManyRequests:
			return Wrap(RateLimitError, "Rate limit exceeded", err)
		case http.StatusInternalServerError:
			if provider == "" {
				return Wrap(ProviderError, "", err)
			}
			return Wrap(ProviderError, provider+" service error", err)
		}
	}

	switch fallback {
	case StreamError:
		return Wrap(StreamError, "Stream error occurred", err)
	case RequestError, "":
		return Wrap(RequestError, "Request error occurred", err)
	default:
		return Wrap(fallback, "", err)
	}
}
