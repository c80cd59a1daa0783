// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-api-client/internal/logger"
	"github.com/MKhiriev/go-api-client/internal/store"
	"github.com/MKhiriev/go-api-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTokenKey = "test_token"

// capturedRequest is what the test server saw.
type capturedRequest struct {
	Method        string
	Path          string
	Query         map[string][]string
	Authorization string
	ContentType   string
	RequestID     string
	Body          []byte
}

type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

func (s *testServer) last(t *testing.T) capturedRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests, "server received no requests")
	return s.requests[len(s.requests)-1]
}

// newTestServer starts a server that records every request and answers with
// status and body.
func newTestServer(t *testing.T, status int, body string) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.requests = append(ts.requests, capturedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-Id"),
			Body:          b,
		})
		ts.mu.Unlock()

		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// newTestClient creates a Client pointed at serverURL using the resty
// transport and an in-memory token storage.
func newTestClient(t *testing.T, serverURL string) (*Client, store.Storage) {
	t.Helper()
	storage := store.NewMemoryStorage()
	c, err := New(Config{Host: serverURL, BearerTokenKey: testTokenKey, RequestTimeout: 5 * time.Second}, storage, WithLogger(logger.Nop()))
	require.NoError(t, err)
	return c, storage
}

type verb struct {
	name   string
	method string
	call   func(r *Requester, ctx context.Context, path string, params Params, out any) error
}

var verbs = []verb{
	{name: "get", method: http.MethodGet, call: (*Requester).Get},
	{name: "delete", method: http.MethodDelete, call: (*Requester).Delete},
	{name: "patch", method: http.MethodPatch, call: (*Requester).Patch},
	{name: "post", method: http.MethodPost, call: (*Requester).Post},
}

// ── Unauthenticated ─────────────────────────────────────────────────────────

func TestUnauthenticated_Success(t *testing.T) {
	for _, v := range verbs {
		t.Run(v.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, `{"status":"ok","echo":"`+v.name+`"}`)
			c, storage := newTestClient(t, srv.URL)
			require.NoError(t, storage.SetItem(context.Background(), testTokenKey, "ignored"))

			var got map[string]any
			err := v.call(c.Unauthenticated, context.Background(), "things", nil, &got)

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"status": "ok", "echo": v.name}, got)

			req := srv.last(t)
			assert.Equal(t, v.method, req.Method)
			assert.Equal(t, "/things", req.Path)
			assert.Empty(t, req.Authorization)
			assert.NotEmpty(t, req.RequestID)
		})
	}
}

func TestUnauthenticated_Failure(t *testing.T) {
	for _, v := range verbs {
		for _, status := range []int{http.StatusNotFound, http.StatusUnprocessableEntity} {
			t.Run(v.name+"/"+http.StatusText(status), func(t *testing.T) {
				srv := newTestServer(t, status, `{"error":"nope"}`)
				c, _ := newTestClient(t, srv.URL)

				var got map[string]any
				err := v.call(c.Unauthenticated, context.Background(), "things", nil, &got)

				require.Error(t, err)
				var respErr *ResponseError
				require.True(t, errors.As(err, &respErr))
				assert.Equal(t, status, respErr.StatusCode)
				assert.JSONEq(t, `{"error":"nope"}`, string(respErr.Body))
				assert.Equal(t, "application/json", respErr.Header.Get("Content-Type"))
				assert.Nil(t, got)
			})
		}
	}
}

// ── Authenticated ───────────────────────────────────────────────────────────

func TestAuthenticated_WithToken(t *testing.T) {
	for _, v := range verbs {
		t.Run(v.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, `{"id":1}`)
			c, storage := newTestClient(t, srv.URL)
			require.NoError(t, storage.SetItem(context.Background(), testTokenKey, "secret-token"))

			var got map[string]any
			err := v.call(c.Authenticated, context.Background(), "users/1", nil, &got)

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"id": float64(1)}, got)

			req := srv.last(t)
			assert.Equal(t, "Bearer secret-token", req.Authorization)
			token, err := utils.ParseBearerToken(req.Authorization)
			require.NoError(t, err)
			assert.Equal(t, "secret-token", token)
		})
	}
}

func TestAuthenticated_WithoutToken(t *testing.T) {
	for _, v := range verbs {
		t.Run(v.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, `{"id":1}`)
			c, _ := newTestClient(t, srv.URL)

			var got map[string]any
			err := v.call(c.Authenticated, context.Background(), "users/1", nil, &got)

			require.NoError(t, err)
			assert.Equal(t, map[string]any{"id": float64(1)}, got)
			assert.Empty(t, srv.last(t).Authorization)
		})
	}
}

func TestAuthenticated_Failure(t *testing.T) {
	for _, v := range verbs {
		t.Run(v.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusUnauthorized, `{"error":"token expired"}`)
			c, storage := newTestClient(t, srv.URL)
			require.NoError(t, storage.SetItem(context.Background(), testTokenKey, "stale"))

			err := v.call(c.Authenticated, context.Background(), "me", nil, nil)

			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

// TestAuthenticated_BlankTokenIsAbsent verifies that a whitespace-only stored
// token does not produce an Authorization header.
func TestAuthenticated_BlankTokenIsAbsent(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, storage := newTestClient(t, srv.URL)
	require.NoError(t, storage.SetItem(context.Background(), testTokenKey, "   "))

	require.NoError(t, c.Authenticated.Get(context.Background(), "me", nil, nil))
	assert.Empty(t, srv.last(t).Authorization)
}

// TestAuthenticated_TokenSentAsStored verifies that surrounding whitespace of
// a stored token is not stripped before it is put into the header.
func TestAuthenticated_TokenSentAsStored(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, storage := newTestClient(t, srv.URL)
	require.NoError(t, storage.SetItem(context.Background(), testTokenKey, " tok "))

	require.NoError(t, c.Authenticated.Get(context.Background(), "me", nil, nil))

	// net/http trims the outer whitespace of the whole header value on the wire.
	assert.Equal(t, "Bearer  tok", srv.last(t).Authorization)
}

// TestAuthenticated_TokenReadPerCall verifies that a token stored, replaced
// or removed after construction is honoured on the next call.
func TestAuthenticated_TokenReadPerCall(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, storage := newTestClient(t, srv.URL)

	require.NoError(t, c.Authenticated.Get(ctx, "me", nil, nil))
	assert.Empty(t, srv.last(t).Authorization)

	require.NoError(t, storage.SetItem(ctx, testTokenKey, "first"))
	require.NoError(t, c.Authenticated.Get(ctx, "me", nil, nil))
	assert.Equal(t, "Bearer first", srv.last(t).Authorization)

	require.NoError(t, storage.SetItem(ctx, testTokenKey, "second"))
	require.NoError(t, c.Authenticated.Get(ctx, "me", nil, nil))
	assert.Equal(t, "Bearer second", srv.last(t).Authorization)

	require.NoError(t, storage.RemoveItem(ctx, testTokenKey))
	require.NoError(t, c.Authenticated.Get(ctx, "me", nil, nil))
	assert.Empty(t, srv.last(t).Authorization)
}

// ── Parameters ──────────────────────────────────────────────────────────────

func TestPatch_SendsParamsAsBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"first_name":"The","last_name":"Gnar"}`)
	c, _ := newTestClient(t, srv.URL)

	var got map[string]any
	err := c.Unauthenticated.Patch(context.Background(), "users/1", Params{"last_name": "Gnar"}, &got)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first_name": "The", "last_name": "Gnar"}, got)

	req := srv.last(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/users/1", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"last_name":"Gnar"}`, string(req.Body))
	assert.Empty(t, req.Query)
}

func TestPost_SendsParamsAsBody(t *testing.T) {
	srv := newTestServer(t, http.StatusCreated, `{"id":7,"first_name":"The"}`)
	c, _ := newTestClient(t, srv.URL)

	type user struct {
		ID        int    `json:"id"`
		FirstName string `json:"first_name"`
	}
	var got user
	err := c.Unauthenticated.Post(context.Background(), "users", Params{"first_name": "The"}, &got)

	require.NoError(t, err)
	assert.Equal(t, user{ID: 7, FirstName: "The"}, got)
	assert.JSONEq(t, `{"first_name":"The"}`, string(srv.last(t).Body))
}

func TestPost_NilParamsSendsNoBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, _ := newTestClient(t, srv.URL)

	require.NoError(t, c.Unauthenticated.Post(context.Background(), "ping", nil, nil))

	req := srv.last(t)
	assert.Empty(t, req.Body)
	assert.Empty(t, req.ContentType)
}

func TestGetAndDelete_SendParamsAsQuery(t *testing.T) {
	for _, v := range verbs[:2] {
		t.Run(v.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, `[]`)
			c, _ := newTestClient(t, srv.URL)

			var got []any
			err := v.call(c.Unauthenticated, context.Background(), "users", Params{"page": 2, "q": "gnar"}, &got)

			require.NoError(t, err)
			assert.Empty(t, got)

			req := srv.last(t)
			assert.Equal(t, []string{"2"}, req.Query["page"])
			assert.Equal(t, []string{"gnar"}, req.Query["q"])
			assert.Empty(t, req.Body)
		})
	}
}

// ── Responses ───────────────────────────────────────────────────────────────

func TestEmptySuccessBody(t *testing.T) {
	srv := newTestServer(t, http.StatusNoContent, "")
	c, _ := newTestClient(t, srv.URL)

	got := map[string]any{"untouched": true}
	require.NoError(t, c.Unauthenticated.Delete(context.Background(), "users/1", nil, &got))
	assert.Equal(t, map[string]any{"untouched": true}, got)
}

func TestInvalidJSONSuccessBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `<html>`)
	c, _ := newTestClient(t, srv.URL)

	var got map[string]any
	err := c.Unauthenticated.Get(context.Background(), "page", nil, &got)

	assert.ErrorIs(t, err, ErrDecodeResponse)
}

func TestNilOutIgnoresBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `not even json`)
	c, _ := newTestClient(t, srv.URL)

	assert.NoError(t, c.Unauthenticated.Get(context.Background(), "page", nil, nil))
}

// ── Errors before and around I/O ────────────────────────────────────────────

func TestAbsolutePathRejected(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, _ := newTestClient(t, srv.URL)

	err := c.Unauthenticated.Get(context.Background(), srv.URL+"/users", nil, nil)

	assert.ErrorIs(t, err, ErrAbsolutePath)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Empty(t, srv.requests)
}

func TestTransportError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, _ := newTestClient(t, srv.URL)
	srv.Close()

	err := c.Unauthenticated.Get(context.Background(), "users", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get request")
	var respErr *ResponseError
	assert.False(t, errors.As(err, &respErr))
}

func TestContextCanceled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, _ := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Unauthenticated.Get(ctx, "users", nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnencodableParams(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c, _ := newTestClient(t, srv.URL)

	err := c.Unauthenticated.Post(context.Background(), "users", Params{"ch": make(chan int)}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode request body")
}

// TestConcurrentCalls verifies that concurrent calls on both sub-clients are
// independent of each other.
func TestConcurrentCalls(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"ok":true}`)
	c, storage := newTestClient(t, srv.URL)
	require.NoError(t, storage.SetItem(context.Background(), testTokenKey, "tok"))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- c.Authenticated.Get(context.Background(), "a", nil, nil)
		}()
		go func() {
			defer wg.Done()
			errs <- c.Unauthenticated.Get(context.Background(), "b", nil, nil)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.Len(t, srv.requests, 20)
	for _, r := range srv.requests {
		if r.Path == "/a" {
			assert.Equal(t, "Bearer tok", r.Authorization)
		} else {
			assert.Empty(t, r.Authorization)
		}
	}
}

func TestDebugLogDoesNotContainToken(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	var buf bytes.Buffer
	storage := store.NewMemoryStorage()
	require.NoError(t, storage.SetItem(context.Background(), testTokenKey, "very-secret"))
	c, err := New(Config{Host: srv.URL, BearerTokenKey: testTokenKey}, storage, WithLogger(logger.NewLoggerTo(&buf, "test")))
	require.NoError(t, err)

	require.NoError(t, c.Authenticated.Get(context.Background(), "me", nil, nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, true, entry["authenticated"])
	assert.NotContains(t, buf.String(), "very-secret")
}
