package apiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-api-client/internal/logger"
	"github.com/MKhiriev/go-api-client/internal/utils"
)

type restyTransport struct {
	client *utils.HTTPClient
}

// NewRestyTransport returns the default [Transport], backed by a resty client.
// timeout bounds each request; zero disables it. Resty's own diagnostics are
// routed to log.
func NewRestyTransport(timeout time.Duration, log *logger.Logger) Transport {
	client := utils.NewHTTPClient()
	client.SetLogger(restyLogger{log: log})
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &restyTransport{client: client}
}

func (t *restyTransport) Do(ctx context.Context, req Request) (*Response, error) {
	r := t.client.R().SetContext(ctx)
	for key, values := range req.Header {
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// restyLogger adapts *logger.Logger to resty.Logger.
type restyLogger struct {
	log *logger.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error().Str("component", "resty").Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn().Str("component", "resty").Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug().Str("component", "resty").Msg(fmt.Sprintf(format, v...))
}
