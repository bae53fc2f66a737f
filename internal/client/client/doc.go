// Package client contains the client-side building blocks that talk to the
// outside world: the backend HTTP API and the local SQLite store.
//
// # Overview
//
//  1. A transport-agnostic API contract (Client): Me (token verification),
//     Login, Register, UpdateSecurity and Ping.
//  2. HTTPClient, the net/http implementation. Every request carries an
//     X-Request-ID, bearer tokens go in the Authorization header, and every
//     2xx body is validated against an embedded JSON schema before it is
//     decoded. A shape mismatch is reported as ErrMalformedResponse.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations, OpenStore):
//     an SQLite database migrated with embedded goose migrations, holding
//     the metadata key-value store and the encrypted secret store.
//
// # Error Handling
//
// Failures are reported as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrRejected, ErrMalformedResponse,
// ErrLocalDataNotAvailable.
package client
