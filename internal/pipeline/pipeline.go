package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/registry"
	"github.com/vk/restflow/internal/state"
	"github.com/zclconf/go-cty/cty"
)

// Generator turns an output state into a response payload. A nil Generator
// on a Pipeline is valid and yields no representation, e.g. for operations
// with empty responses.
type Generator interface {
	Generate(res *config.Resource, out *state.ResourceState) ([]byte, error)
}

// Pipeline executes one request against one resource. It is cheap to build
// and is constructed fresh per request; nothing is shared across runs.
type Pipeline struct {
	Resource  *config.Resource
	Operation string
	Registry  *registry.Registry
	Builder   state.Builder
	Generator Generator
}

// Result collects everything a pipeline run produced.
type Result struct {
	ResourceID     string
	Input          *state.ResourceState
	Merged         state.Merged
	Output         *state.ResourceState
	Representation []byte
}

// Run executes the phase sequence: build input state, validate it, select
// callbacks, invoke them in dependency order, merge their results, build and
// validate the output state, and generate the representation. The first
// failing phase aborts the run.
func (p *Pipeline) Run(ctx context.Context, req *state.Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("resource", p.Resource.Name, "operation", p.Operation)
	logger.Debug("Pipeline run started.")

	input, err := p.Builder.BuildInputState(p.Resource, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build input state: %w", err)
	}

	if err := state.Validate(p.Resource, input, p.Operation); err != nil {
		return nil, fmt.Errorf("input state invalid: %w", err)
	}
	logger.Debug("Input state validated.")

	resourceID := req.ResourceID
	values := make(map[string]cty.Value)
	if p.Operation == config.OperationCreate && resourceID == "" {
		resourceID = generateResourceID()
		values["generated_resource_id"] = cty.StringVal(resourceID)
		logger.Debug("Generated resource identifier.", "id", resourceID)
	}

	selections := make(map[string][]selection, len(config.CollectionNames))
	total := 0
	for _, name := range config.CollectionNames {
		selected := selectCallbacks(p.Registry, p.Resource.Collection(name), input.Collection(name), p.Operation)
		selections[name] = selected
		total += len(selected)
	}
	logger.Debug("Callbacks selected.", "count", total)

	merged, err := p.invokeAll(ctx, selections, resourceID, values)
	if err != nil {
		return nil, err
	}

	output, err := p.Builder.BuildOutputState(p.Resource, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to build output state: %w", err)
	}

	if err := state.Validate(p.Resource, output, p.Operation); err != nil {
		return nil, fmt.Errorf("output state invalid: %w", err)
	}
	logger.Debug("Output state validated.")

	result := &Result{
		ResourceID: resourceID,
		Input:      input,
		Merged:     merged,
		Output:     output,
	}

	if p.Generator != nil {
		rep, err := p.Generator.Generate(p.Resource, output)
		if err != nil {
			return nil, fmt.Errorf("failed to generate representation: %w", err)
		}
		result.Representation = rep
	}

	logger.Debug("Pipeline run finished.")
	return result, nil
}

// generateResourceID returns a fresh random identifier for create runs.
func generateResourceID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
