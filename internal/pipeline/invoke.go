package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/registry"
	"github.com/vk/restflow/internal/scheduler"
	"github.com/vk/restflow/internal/state"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
)

// invokeAll runs every collection's selected callbacks. Each collection gets
// its own schedule and runs independently; the three schedules overlap in
// time. The result is one merged value per collection that produced any.
func (p *Pipeline) invokeAll(ctx context.Context, selections map[string][]selection, resourceID string, values map[string]cty.Value) (state.Merged, error) {
	// One result slot per collection keeps the concurrent branches from
	// sharing any mutable structure.
	outputs := make([]cty.Value, len(config.CollectionNames))
	ran := make([]bool, len(config.CollectionNames))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range config.CollectionNames {
		selected := selections[name]
		if len(selected) == 0 {
			continue
		}
		g.Go(func() error {
			val, err := p.invokeCollection(gctx, name, selected, resourceID, values)
			if err != nil {
				return err
			}
			outputs[i] = val
			ran[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(state.Merged)
	for i, name := range config.CollectionNames {
		if ran[i] {
			merged[name] = outputs[i]
		}
	}
	return merged, nil
}

// invokeCollection schedules and executes one collection's callbacks, then
// merges their path-tagged results into a single nested value.
func (p *Pipeline) invokeCollection(ctx context.Context, collection string, selected []selection, resourceID string, values map[string]cty.Value) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("resource", p.Resource.Name, "collection", collection, "operation", p.Operation)

	items := make([]scheduler.Item, 0, len(selected))
	byID := make(map[string]selection, len(selected))
	for _, sel := range selected {
		items = append(items, scheduler.Item{
			ID:    sel.binding.Handler,
			First: sel.binding.RunFirst,
			Last:  sel.binding.RunLast,
			After: sel.binding.RunAfter,
		})
		byID[sel.binding.Handler] = sel
	}

	plan, err := scheduler.Schedule(items)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to schedule %s callbacks: %w", collection, err)
	}
	logger.Debug("Callback schedule computed.", "groups", len(plan), "callbacks", len(selected))

	scratch := state.NewTreeState()
	for i, group := range plan {
		if err := ctx.Err(); err != nil {
			return cty.NilVal, err
		}
		logger.Debug("▶️ Starting callback group", "group", i, "size", len(group))

		outputs := make([]cty.Value, len(group))
		g, gctx := errgroup.WithContext(ctx)
		for slot, id := range group {
			sel := byID[id]
			g.Go(func() error {
				call := &registry.Call{
					Resource:   p.Resource,
					Collection: collection,
					Node:       sel.node,
					State:      sel.state,
					ResourceID: resourceID,
					Values:     values,
				}
				out, err := sel.handler.Fn(gctx, call)
				if err != nil {
					return &CallbackError{
						Handler:    id,
						Collection: collection,
						Path:       sel.node.PathKey(),
						Err:        err,
					}
				}
				outputs[slot] = out
				return nil
			})
		}
		// A failing callback cancels the group's context, but siblings
		// already in flight are always awaited before the error surfaces.
		if err := g.Wait(); err != nil {
			logger.Error("Callback group failed.", "group", i, "error", err)
			return cty.NilVal, err
		}

		for slot, id := range group {
			scratch.Touch(byID[id].node.Path).Value = outputs[slot]
		}
		logger.Debug("✅ Finished callback group", "group", i)
	}

	return scratch.Merge(), nil
}
