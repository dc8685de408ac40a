// Package representation renders output states into response payloads. The
// default generator produces a JSON document mirroring the request shape:
//
//	{"data": {"type": "...", "id": "...", "attributes": {...}, "relationships": {...}}}
package representation

import (
	"encoding/json"
	"fmt"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/state"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// JSONGenerator is the default representation generator.
type JSONGenerator struct{}

// NewJSONGenerator creates the default JSON representation generator.
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Generate implements the pipeline.Generator interface.
func (g *JSONGenerator) Generate(res *config.Resource, out *state.ResourceState) ([]byte, error) {
	data := map[string]json.RawMessage{
		"type": mustJSON(res.Name),
	}

	if id := out.Identifier; id != nil && id.Value != cty.NilVal && !id.Value.IsNull() {
		raw, err := ctyjson.Marshal(id.Value, id.Value.Type())
		if err != nil {
			return nil, fmt.Errorf("failed to encode identifier: %w", err)
		}
		data["id"] = raw
	}

	for _, name := range []string{config.CollectionAttributes, config.CollectionRelationships} {
		st := out.Collection(name)
		if st == nil || st.Value == cty.NilVal || st.Value.IsNull() {
			continue
		}
		raw, err := ctyjson.Marshal(st.Value, st.Value.Type())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		data[name] = raw
	}

	doc := map[string]any{"data": data}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode representation: %w", err)
	}
	return payload, nil
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
