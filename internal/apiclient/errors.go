package apiclient

import "errors"

// Configuration errors returned by [New].
var (
	ErrMissingHost = errors.New("api client: host is required")
	ErrInvalidHost = errors.New("api client: host must be an absolute http(s) URL")
	ErrNilStorage  = errors.New("api client: storage is required")
)

// ErrAbsolutePath is returned by every verb when the path is itself an
// absolute URL instead of a path relative to the configured host.
var ErrAbsolutePath = errors.New("path must be relative to the configured host")

// ErrDecodeResponse is returned when a 2xx response body is not valid JSON for
// the requested destination.
var ErrDecodeResponse = errors.New("decode response body")

// Status sentinels matched by [ResponseError] through [errors.Is].
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)
