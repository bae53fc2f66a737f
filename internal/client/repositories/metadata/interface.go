// Package metadata is the persistent key-value store of the client: the auth
// token and the "true"/"false" preference flags live here.
package metadata

import (
	"context"
)

// Repository stores string values by key. Get reports ok=false for a missing
// key rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
