// Package stamp provides bookkeeping callbacks that contribute server-side
// values, such as creation timestamps, to the merged output.
package stamp

import (
	"context"
	"time"

	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// now is swapped out in tests.
var now = time.Now

// OnStampCreatedAt returns the current UTC time for its node.
func OnStampCreatedAt(ctx context.Context, call *registry.Call) (cty.Value, error) {
	ts := now().UTC().Format(time.RFC3339)
	ctxlog.FromContext(ctx).Debug("Stamping creation time.", "path", call.Node.PathKey(), "at", ts)
	return cty.StringVal(ts), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCallback("OnStampCreatedAt", &registry.RegisteredCallback{Fn: OnStampCreatedAt})
}
