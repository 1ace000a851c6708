// Package config provides configuration loading, merging, and validation
// facilities for the VaultScribe binaries.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  0. Built-in defaults
//  1. Environment variables (optionally seeded from a .env file)
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetStructuredConfig] for the server and the
// terminal client, and [GetConfigFromFile] for tools that own their command
// line (the admin CLI).
package config
