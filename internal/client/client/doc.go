// Package client contains the transport side of the notes client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (Client) for the remote auth/notes
//     service: register, login, verify-email, forgot/reset password,
//     profile, and note CRUD plus summary generation.
//  2. HTTPClient, a JSON-over-HTTP implementation that injects the bearer
//     token from a TokenSource, stamps every call with an X-Request-ID, and
//     maps non-2xx statuses to common sentinels through APIError.
//  3. Bootstrap helpers for the local session cache (InitDatabase,
//     RunMigrations) using SQLite and embedded goose migrations.
//
// # Error Handling
//
// Status codes map to sentinels matched with errors.Is:
//
//	400, 422, other 4xx     common.ErrValidation
//	401, 403                common.ErrUnauthorized
//	404                     common.ErrNotFound
//	409, 412                common.ErrConflict
//	408, 429, 5xx, dialing  common.ErrNetwork
//
// Nothing is retried automatically.
package client
