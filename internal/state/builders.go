package state

import (
	"fmt"

	"github.com/vk/restflow/internal/config"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Request carries the raw per-request inputs a builder turns into state.
type Request struct {
	// ResourceID is the identifier addressed by the request, if any. For
	// create operations it is empty until a callback generates one.
	ResourceID string

	// Payload is the raw request document, or nil for payload-less
	// operations such as fetch and delete.
	Payload []byte
}

// Merged holds the per-collection values produced by the merge phase.
type Merged map[string]cty.Value

// Builder constructs ResourceStates at the two edges of a pipeline run.
type Builder interface {
	// BuildInputState derives the input state from the raw request.
	BuildInputState(res *config.Resource, req *Request) (*ResourceState, error)

	// BuildOutputState derives the output state from the merged callback
	// results.
	BuildOutputState(res *config.Resource, merged Merged) (*ResourceState, error)
}

// JSONBuilder is the default Builder. It reads request documents of the form
//
//	{"id": "...", "attributes": {...}, "relationships": {...}}
//
// and mirrors their values onto the resource's schema trees.
type JSONBuilder struct{}

// NewJSONBuilder creates the default JSON state builder.
func NewJSONBuilder() *JSONBuilder {
	return &JSONBuilder{}
}

// BuildInputState implements the Builder interface.
func (b *JSONBuilder) BuildInputState(res *config.Resource, req *Request) (*ResourceState, error) {
	doc := cty.NilVal
	if len(req.Payload) > 0 {
		ty, err := ctyjson.ImpliedType(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to derive payload type: %w", err)
		}
		doc, err = ctyjson.Unmarshal(req.Payload, ty)
		if err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		if !isMapping(doc) {
			return nil, fmt.Errorf("payload must be a JSON object")
		}
	}

	rs := &ResourceState{
		Attributes:    mirror(res.Attributes, docAttr(doc, config.CollectionAttributes)),
		Relationships: mirror(res.Relationships, docAttr(doc, config.CollectionRelationships)),
	}

	idVal := docAttr(doc, "id")
	if req.ResourceID != "" {
		idVal = cty.StringVal(req.ResourceID)
	}
	if isSet(idVal) {
		rs.Identifier = NewNode(idVal)
	}
	return rs, nil
}

// BuildOutputState implements the Builder interface. Each collection's
// merged value is mirrored back onto the schema so output validation can run
// against the same shape as input validation.
func (b *JSONBuilder) BuildOutputState(res *config.Resource, merged Merged) (*ResourceState, error) {
	return &ResourceState{
		Attributes:    mirror(res.Attributes, merged[config.CollectionAttributes]),
		Relationships: mirror(res.Relationships, merged[config.CollectionRelationships]),
		Identifier:    mirror(res.Identifier, merged[config.CollectionIdentifier]),
	}, nil
}

// docAttr extracts a named top-level value from the decoded payload.
func docAttr(doc cty.Value, name string) cty.Value {
	if !isMapping(doc) {
		return cty.NilVal
	}
	values := doc.AsValueMap()
	val, ok := values[name]
	if !ok {
		return cty.NilVal
	}
	return val
}

// mirror projects a raw value onto a schema node, building a state tree of
// the schema's shape. Values for names the schema does not declare are
// dropped. A nil result means the whole subtree is absent.
func mirror(schemaNode *config.Node, val cty.Value) *Node {
	if schemaNode == nil || !isSet(val) {
		return nil
	}

	node := NewNode(val)
	if !isMapping(val) {
		return node
	}

	values := val.AsValueMap()
	for _, name := range schemaNode.ChildNames() {
		childVal, ok := values[name]
		if !ok {
			continue
		}
		if child := mirror(schemaNode.Child(name), childVal); child != nil {
			node.AddChild(name, child)
		}
	}
	return node
}
