package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ResponseError is returned for every non-2xx response. It carries the raw
// response so callers can inspect the status and body themselves.
//
// errors.Is matches the sentinel of the status, for example [ErrNotFound]
// for 404.
type ResponseError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, body)
}

// Unwrap returns the status sentinel, or nil for statuses without one.
func (e *ResponseError) Unwrap() error {
	return statusSentinel(e.StatusCode)
}

// Decode JSON-decodes the error body into v.
func (e *ResponseError) Decode(v any) error {
	if err := json.Unmarshal(e.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return nil
}

func isSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

func mapHTTPError(resp *Response) error {
	if isSuccess(resp.StatusCode) {
		return nil
	}

	return &ResponseError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}
}

func statusSentinel(statusCode int) error {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnprocessableEntity:
		return ErrUnprocessableEntity
	case http.StatusInternalServerError:
		return ErrInternalServerError
	case http.StatusBadGateway:
		return ErrBadGateway
	default:
		return nil
	}
}
