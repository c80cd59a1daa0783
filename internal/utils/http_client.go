package utils

import (
	"github.com/go-resty/resty/v2"
)

// UserAgent is sent with every request made by an [HTTPClient].
const UserAgent = "go-api-client/1"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent HTTPClient with its own configuration
// and connection pool. Redirects are not followed past ten hops and the
// [UserAgent] header is set on every request.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &HTTPClient{Client: client}
}
