// Package server runs the VaultScribe HTTP API.
//
// It owns the server lifecycle: startup, the background summary workers,
// signal handling and graceful shutdown.
package server
