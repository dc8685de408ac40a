package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between the loaded schemas
// and the registered Go handlers. Every handler a schema names must exist,
// and every run_after reference must point at a handler bound within the
// same collection and operation scope.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for resName, res := range r.resources {
		for _, collection := range config.CollectionNames {
			root := res.Collection(collection)
			if root == nil {
				continue
			}

			// Handler names bound in this collection, per operation.
			bound := make(map[string]map[string]struct{})
			root.Walk(func(n *config.Node) {
				for op, b := range n.Callbacks {
					if _, ok := bound[op]; !ok {
						bound[op] = make(map[string]struct{})
					}
					bound[op][b.Handler] = struct{}{}
				}
			})

			root.Walk(func(n *config.Node) {
				for op, b := range n.Callbacks {
					if _, ok := r.handlers[b.Handler]; !ok {
						errs = append(errs, fmt.Sprintf(
							"resource '%s': schema binds handler '%s' at %s path %q, but no such handler is registered",
							resName, b.Handler, collection, n.PathKey()))
					}
					for _, parent := range b.RunAfter {
						if _, ok := bound[op][parent]; !ok {
							errs = append(errs, fmt.Sprintf(
								"resource '%s': handler '%s' declares run_after '%s', which is not bound for operation '%s' in collection '%s'",
								resName, b.Handler, parent, op, collection))
						}
					}
				}
			})
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "handlers", len(r.handlers), "resources", len(r.resources))
	return nil
}
