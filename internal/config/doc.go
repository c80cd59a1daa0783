// Package config provides configuration loading, merging, and validation
// facilities for the API client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win, later ones only fill zero fields):
//  1. Command-line flags
//  2. Environment variables
//  3. JSON config file
//
// The main entry point is [GetStructuredConfig].
package config
