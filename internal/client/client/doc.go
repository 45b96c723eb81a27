// Package client is the HTTP transport for the CompareHub REST API.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): the seven auth endpoints,
//     the catalog listing, and Ping.
//  2. HTTPClient, a JSON-over-HTTP implementation. Every call is a single
//     request; retries and challenge handling live in the services layer.
//  3. Optional AWS SigV4 signing for IAM-protected API Gateway stages.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. A non-2xx response is a
// *RequestFailedError carrying the server's message. A response asking for an
// anti-abuse challenge is NOT an error: it is returned as an AuthResponse whose
// ChallengeRequired method reports true, whatever the HTTP status.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honour cancellation.
package client
