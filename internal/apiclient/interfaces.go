// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package apiclient provides a small client for a JSON HTTP API.
//
// A [Client] resolves endpoint paths against a configured host and exposes
// two sub-clients, [Client.Unauthenticated] and [Client.Authenticated], each
// offering Get, Post, Patch and Delete. The authenticated sub-client reads the
// bearer token from the injected [store.Storage] on every call and sends it as
// "Authorization: Bearer <token>"; without a stored token it behaves exactly
// like the unauthenticated one.
//
// Transport is abstracted by [Transport] so tests can substitute it; the
// default implementation is backed by resty ([NewRestyTransport]). Non-2xx
// responses are returned as [*ResponseError] so callers can use [errors.Is]
// (e.g. [ErrNotFound] for 404) or [errors.As] to read the raw response.
package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport performs a single HTTP request and returns its status, headers
// and raw body. A non-2xx status is not an error at this level; err is
// reserved for requests that produced no response.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	// Body is the encoded request body; nil sends none.
	Body []byte
}

// Response is the raw result of a call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
