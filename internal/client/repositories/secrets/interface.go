// Package secrets is the client's secure secret store. Values are sealed with
// AES-GCM before they reach the database, so the file on disk never holds the
// PIN in clear.
package secrets

import "context"

// Repository stores secret strings by key. Get reports ok=false for a
// missing key rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
