package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses the configuration flags from args (without the program
// name) and returns the populated config together with the remaining
// positional arguments.
//
// Flags:
//
//	-host API base URL (e.g. https://api.example.com)
//	-token-key storage key of the bearer token
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-storage storage backend: memory, file or sqlite
//	-storage-path storage file path
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	var host string
	var tokenKey string
	var requestTimeout time.Duration
	var backend string
	var storagePath string
	var jsonConfigPath string

	fs := flag.NewFlagSet("apiclient", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&host, "host", "", "API base URL")
	fs.StringVar(&tokenKey, "token-key", "", "Storage key of the bearer token")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&backend, "storage", "", "Storage backend: memory, file or sqlite")
	fs.StringVar(&storagePath, "storage-path", "", "Storage file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		API: API{
			Host:           host,
			BearerTokenKey: tokenKey,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			Backend: backend,
			Path:    storagePath,
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
