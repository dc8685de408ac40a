package testutil

import (
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/restflow/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers any number of named callbacks.
type SimpleModule struct {
	Callbacks map[string]registry.CallbackFunc
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for name, fn := range m.Callbacks {
		r.RegisterCallback(name, &registry.RegisteredCallback{Fn: fn})
	}
}

// RecorderModule registers callbacks that record the order they were invoked
// in. Each callback returns the value configured for it, or cty.NilVal when
// none is set. It is safe for concurrent invocation.
type RecorderModule struct {
	Names  []string
	Values map[string]cty.Value

	mu    sync.Mutex
	order []string
}

// Register implements the registry.Module interface.
func (m *RecorderModule) Register(r *registry.Registry) {
	for _, name := range m.Names {
		name := name
		r.RegisterCallback(name, &registry.RegisteredCallback{
			Fn: func(_ context.Context, _ *registry.Call) (cty.Value, error) {
				m.mu.Lock()
				m.order = append(m.order, name)
				m.mu.Unlock()
				if v, ok := m.Values[name]; ok {
					return v, nil
				}
				return cty.NilVal, nil
			},
		})
	}
}

// Order returns a copy of the recorded invocation order.
func (m *RecorderModule) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// IndexOf returns the position of the first invocation of name, or -1.
func (m *RecorderModule) IndexOf(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.order {
		if n == name {
			return i
		}
	}
	return -1
}
