// Package http implements the HTTP transport layer of VaultScribe.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as bearer session authentication, request
// tracing, access logging, rate limiting and metrics are handled in this
// package before requests are delegated to the service layer.
//
// Multi-step workflows are stateless on the server: every step answers with
// a signed challenge or sealed ticket that the client sends to the next step.
package http
