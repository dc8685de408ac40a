package config

import "context"

// Loader is the interface for a format-specific schema loader.
type Loader interface {
	// Load reads resource schema definitions from the given paths and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
