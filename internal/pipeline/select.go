package pipeline

import (
	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/registry"
	"github.com/vk/restflow/internal/state"
)

// selection is one (callback, schema node, node state) triple chosen for
// invocation.
type selection struct {
	handler *registry.RegisteredCallback
	binding *config.Binding
	node    *config.Node
	state   *state.Node
}

// selectCallbacks walks one collection's schema tree breadth-first and
// collects the callbacks registered for the operation. A node qualifies when
// it has a callback and either carries state in this request or is the
// collection root, which is always eligible so root-level callbacks run even
// when no data was submitted. Children are enqueued in declaration order,
// paired with their child state (absent when the parent state is absent).
//
// The returned order is traversal order; dependency ordering is applied
// later by the scheduler.
func selectCallbacks(reg *registry.Registry, root *config.Node, rootState *state.Node, operation string) []selection {
	if root == nil {
		return nil
	}

	type pair struct {
		node  *config.Node
		state *state.Node
	}
	queue := []pair{{node: root, state: rootState}}

	var selected []selection
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if handler, binding, ok := reg.Lookup(cur.node, operation); ok {
			if cur.state != nil || cur.node == root {
				selected = append(selected, selection{
					handler: handler,
					binding: binding,
					node:    cur.node,
					state:   cur.state,
				})
			}
		}

		for _, name := range cur.node.ChildNames() {
			queue = append(queue, pair{
				node:  cur.node.Child(name),
				state: cur.state.Child(name),
			})
		}
	}
	return selected
}
