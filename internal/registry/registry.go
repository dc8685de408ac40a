package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// Call carries the immutable per-invocation context assembled for one
// callback. No mutable state crosses callback boundaries; concurrently
// running callbacks each receive their own Call.
type Call struct {
	// Resource is the schema of the resource being processed.
	Resource *config.Resource

	// Collection names the top-level partition this callback runs under.
	Collection string

	// Node is the schema node the callback is bound to.
	Node *config.Node

	// State is the input state attached to Node, or nil when the node had no
	// data in this request (only collection roots are invoked that way).
	State *state.Node

	// ResourceID is the identifier for this run: the addressed id for
	// fetch/update/delete, or the generated id for create.
	ResourceID string

	// Values holds operation-specific extra values shared read-only across
	// the whole schedule.
	Values map[string]cty.Value
}

// CallbackFunc is a registered unit of work. It returns the value to store
// at the callback's schema path; cty.NilVal means the callback contributes
// nothing to the merged output.
type CallbackFunc func(ctx context.Context, call *Call) (cty.Value, error)

// RegisteredCallback holds the compiled Go side of a callback binding.
type RegisteredCallback struct {
	Fn CallbackFunc
}

// Module is the interface all callback modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered handlers and the loaded resource
// definitions for a single application instance.
type Registry struct {
	handlers  map[string]*RegisteredCallback
	resources map[string]*config.Resource
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		handlers:  make(map[string]*RegisteredCallback),
		resources: make(map[string]*config.Resource),
	}
}

// RegisterCallback registers a Go function under a handler name. Duplicate
// names are a programmer error and panic at startup.
func (r *Registry) RegisterCallback(name string, handler *RegisteredCallback) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("callback handler with name '%s' already registered", name))
	}
	slog.Debug("Registering callback handler.", "name", name)
	r.handlers[name] = handler
}

// Handler returns the registered callback for a handler name.
func (r *Registry) Handler(name string) (*RegisteredCallback, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// PopulateDefinitionsFromModel copies the loaded resource definitions from
// the config model into the registry for easy access during execution.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for name, res := range model.Resources {
		r.resources[name] = res
	}
}

// Resource returns the named resource definition.
func (r *Registry) Resource(name string) (*config.Resource, bool) {
	res, ok := r.resources[name]
	return res, ok
}

// Resources returns all loaded resource definitions.
func (r *Registry) Resources() map[string]*config.Resource {
	return r.resources
}

// Lookup resolves the callback bound to a schema node for an operation. The
// second return is the binding's ordering constraint; ok is false when the
// node has no callback for the operation.
func (r *Registry) Lookup(node *config.Node, operation string) (*RegisteredCallback, *config.Binding, bool) {
	binding, ok := node.Callbacks[operation]
	if !ok {
		return nil, nil, false
	}
	handler, ok := r.handlers[binding.Handler]
	if !ok {
		return nil, nil, false
	}
	return handler, binding, true
}
