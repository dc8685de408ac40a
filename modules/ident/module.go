// Package ident provides the identifier callbacks: they surface the run's
// resource id into the identifier collection so it appears in the merged
// output and the final representation.
package ident

import (
	"context"
	"fmt"

	"github.com/vk/restflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnCreateIdent returns the identifier generated for this create run. It is
// typically bound run_first so later callbacks can rely on the id existing.
func OnCreateIdent(ctx context.Context, call *registry.Call) (cty.Value, error) {
	if call.ResourceID == "" {
		return cty.NilVal, fmt.Errorf("no resource identifier available for run")
	}
	return cty.StringVal(call.ResourceID), nil
}

// OnFetchIdent echoes the addressed identifier back into the output state.
func OnFetchIdent(ctx context.Context, call *registry.Call) (cty.Value, error) {
	if call.ResourceID == "" {
		return cty.NilVal, fmt.Errorf("no resource identifier addressed by request")
	}
	return cty.StringVal(call.ResourceID), nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCallback("OnCreateIdent", &registry.RegisteredCallback{Fn: OnCreateIdent})
	r.RegisterCallback("OnFetchIdent", &registry.RegisteredCallback{Fn: OnFetchIdent})
}
