package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-api-client/internal/utils"
	"github.com/google/uuid"
)

const (
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-Id"

	contentTypeJSON = "application/json"
)

// Requester issues requests for one of the two sub-clients of a [Client].
//
// Get and Delete send params as query parameters; Post and Patch send them as
// a JSON body. On a 2xx response the JSON body is decoded into out (skipped
// when out is nil or the body is empty). Any other status is returned as a
// [*ResponseError].
type Requester struct {
	client        *Client
	authenticated bool
}

// Authenticated reports whether r attaches the bearer token.
func (r *Requester) Authenticated() bool {
	return r.authenticated
}

// Get sends GET host/path?params.
func (r *Requester) Get(ctx context.Context, path string, params Params, out any) error {
	return r.do(ctx, http.MethodGet, path, params, out)
}

// Post sends POST host/path with params as the JSON body.
func (r *Requester) Post(ctx context.Context, path string, params Params, out any) error {
	return r.do(ctx, http.MethodPost, path, params, out)
}

// Patch sends PATCH host/path with params as the JSON body.
func (r *Requester) Patch(ctx context.Context, path string, params Params, out any) error {
	return r.do(ctx, http.MethodPatch, path, params, out)
}

// Delete sends DELETE host/path?params.
func (r *Requester) Delete(ctx context.Context, path string, params Params, out any) error {
	return r.do(ctx, http.MethodDelete, path, params, out)
}

func (r *Requester) do(ctx context.Context, method, path string, params Params, out any) error {
	verb := strings.ToLower(method)
	if isAbsoluteURL(path) {
		return fmt.Errorf("%s %q: %w", verb, path, ErrAbsolutePath)
	}

	req, err := r.newRequest(ctx, method, path, params)
	if err != nil {
		return fmt.Errorf("%s request: %w", verb, err)
	}

	log := r.client.logger.With().
		Str("request_id", req.Header.Get(headerRequestID)).
		Str("method", method).
		Str("url", req.URL).
		Bool("authenticated", req.Header.Get(headerAuthorization) != "").
		Logger()

	resp, err := r.client.transport.Do(ctx, req)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return fmt.Errorf("%s request: %w", verb, err)
	}
	log.Debug().Int("status", resp.StatusCode).Msg("request completed")

	if err = mapHTTPError(resp); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err = json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", verb, path, ErrDecodeResponse, err)
	}

	return nil
}

func (r *Requester) newRequest(ctx context.Context, method, path string, params Params) (Request, error) {
	req := Request{
		Method: method,
		URL:    r.client.AbsolutePath(path),
		Header: make(http.Header),
	}
	req.Header.Set(headerAccept, contentTypeJSON)
	req.Header.Set(headerRequestID, uuid.NewString())

	if sendsBody(method) {
		if params != nil {
			body, err := json.Marshal(params)
			if err != nil {
				return Request{}, fmt.Errorf("encode request body: %w", err)
			}
			req.Body = body
			req.Header.Set(headerContentType, contentTypeJSON)
		}
	} else if len(params) > 0 {
		req.Query = params.Values()
	}

	if r.authenticated {
		token, ok, err := r.client.BearerToken(ctx)
		if err != nil {
			return Request{}, err
		}
		if ok && strings.TrimSpace(token) != "" {
			req.Header.Set(headerAuthorization, utils.BearerHeader(token))
		}
	}

	return req, nil
}

func sendsBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch
}
