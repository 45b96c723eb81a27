package storage

import (
	"context"
)

// Scope partitions keys the way localStorage and sessionStorage do.
type Scope string

const (
	ScopeLocal   Scope = "local"
	ScopeSession Scope = "session"
)

type Repository interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, scope Scope, key string) (string, bool, error)
	Set(ctx context.Context, scope Scope, key, value string) error
	Delete(ctx context.Context, scope Scope, key string) error
	List(ctx context.Context, scope Scope) (map[string]string, error)
	Clear(ctx context.Context, scope Scope) error
}
