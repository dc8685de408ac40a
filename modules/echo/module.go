// Package echo provides the pass-through callback: it returns the value
// submitted at its schema node unchanged, which makes accepted input appear
// in the merged output.
package echo

import (
	"context"

	"github.com/vk/restflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnEchoState returns the node's submitted state value, or nothing when the
// node carried no data in this request.
func OnEchoState(ctx context.Context, call *registry.Call) (cty.Value, error) {
	if call.State == nil {
		return cty.NilVal, nil
	}
	return call.State.Value, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCallback("OnEchoState", &registry.RegisteredCallback{Fn: OnEchoState})
}
