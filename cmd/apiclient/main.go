// Command apiclient calls a JSON HTTP API from the command line.
//
// Usage:
//
//	apiclient [flags] [auth] <get|post|patch|delete> <path> [key=value ...]
//	apiclient [flags] token <set <value>|show|clear>
//
// "auth" selects the authenticated client, which sends the stored bearer
// token. Values of key=value pairs are decoded as JSON when possible and
// sent as strings otherwise.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MKhiriev/go-api-client/internal/apiclient"
	"github.com/MKhiriev/go-api-client/internal/config"
	"github.com/MKhiriev/go-api-client/internal/logger"
	"github.com/MKhiriev/go-api-client/internal/store"
	"github.com/MKhiriev/go-api-client/internal/utils"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var errUsage = errors.New("usage: apiclient [flags] [auth] <get|post|patch|delete> <path> [key=value ...] | token <set <value>|show|clear>")

func main() {
	log := logger.NewClientLogger("apiclient")

	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, log *logger.Logger) error {
	// version needs no configuration
	if _, rest, err := config.ParseFlags(args); err == nil && len(rest) > 0 && rest[0] == "version" {
		printBuildInfo(stdout)
		return nil
	}

	cfg, rest, err := config.GetStructuredConfig(args)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	if len(rest) == 0 {
		return errUsage
	}

	storage, err := store.New(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if closer, ok := storage.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Err(err).Str("func", "run").Msg("error closing storage")
			}
		}()
	}

	client, err := apiclient.New(apiclient.Config{
		Host:           cfg.API.Host,
		BearerTokenKey: cfg.API.BearerTokenKey,
		RequestTimeout: cfg.API.RequestTimeout,
	}, storage, apiclient.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	if rest[0] == "token" {
		return runToken(ctx, client, storage, rest[1:], stdout)
	}

	requester := client.Unauthenticated
	if rest[0] == "auth" {
		requester = client.Authenticated
		rest = rest[1:]
	}
	if len(rest) < 2 {
		return errUsage
	}

	params, err := parseParams(rest[2:])
	if err != nil {
		return err
	}

	var out any
	switch strings.ToLower(rest[0]) {
	case "get":
		err = requester.Get(ctx, rest[1], params, &out)
	case "post":
		err = requester.Post(ctx, rest[1], params, &out)
	case "patch":
		err = requester.Patch(ctx, rest[1], params, &out)
	case "delete":
		err = requester.Delete(ctx, rest[1], params, &out)
	default:
		return errUsage
	}

	var respErr *apiclient.ResponseError
	if errors.As(err, &respErr) {
		fmt.Fprintf(stderr, "HTTP %d\n%s\n", respErr.StatusCode, strings.TrimSpace(string(respErr.Body)))
		return err
	}
	if err != nil {
		return err
	}

	return printJSON(stdout, out)
}

func runToken(ctx context.Context, client *apiclient.Client, storage store.Storage, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		token := strings.TrimSpace(args[1])
		if parsed, err := utils.ParseBearerToken(token); err == nil {
			token = parsed
		}
		return storage.SetItem(ctx, client.BearerTokenKey(), token)
	case "show":
		token, ok, err := client.BearerToken(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "no token stored")
			return nil
		}
		fmt.Fprintln(stdout, token)
		return nil
	case "clear":
		return storage.RemoveItem(ctx, client.BearerTokenKey())
	default:
		return errUsage
	}
}

// parseParams turns key=value pairs into params. Nil when pairs is empty.
func parseParams(pairs []string) (apiclient.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(apiclient.Params, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", pair)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		params[key] = value
	}
	return params, nil
}

func printJSON(w io.Writer, v any) error {
	if v == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBuildInfo(w io.Writer) {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
