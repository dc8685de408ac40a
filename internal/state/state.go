package state

import (
	"github.com/vk/restflow/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Node is one vertex of a per-request state tree. A nil *Node means the
// corresponding schema node has no data in this request.
type Node struct {
	// Value is the raw value attached to this node. cty.NilVal marks a pure
	// container that only exists because a descendant has data.
	Value cty.Value

	childNames []string
	children   map[string]*Node
}

// NewNode creates a state node carrying the given value.
func NewNode(value cty.Value) *Node {
	return &Node{
		Value:    value,
		children: make(map[string]*Node),
	}
}

// AddChild attaches a named child state node.
func (n *Node) AddChild(name string, child *Node) {
	if _, exists := n.children[name]; !exists {
		n.childNames = append(n.childNames, name)
	}
	n.children[name] = child
}

// Child returns the named child state, or nil when absent.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// ResourceState is the complete state of one resource for one request
// phase. It is created fresh per phase and never mutated afterwards; a new
// ResourceState is built rather than patched.
type ResourceState struct {
	Attributes    *Node
	Relationships *Node
	Identifier    *Node
}

// Collection returns the state tree for the named collection, or nil.
func (s *ResourceState) Collection(name string) *Node {
	switch name {
	case config.CollectionAttributes:
		return s.Attributes
	case config.CollectionRelationships:
		return s.Relationships
	case config.CollectionIdentifier:
		return s.Identifier
	default:
		return nil
	}
}

// isSet reports whether v carries an actual value. Both the zero Value and
// explicit nulls count as unset.
func isSet(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull()
}
