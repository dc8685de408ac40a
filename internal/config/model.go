package config

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Collection names identify the three independent top-level state partitions
// of a resource. Every schema, state tree and callback schedule is scoped to
// exactly one of them.
const (
	CollectionAttributes    = "attributes"
	CollectionRelationships = "relationships"
	CollectionIdentifier    = "identifier"
)

// CollectionNames lists all collections in their canonical order.
var CollectionNames = []string{
	CollectionAttributes,
	CollectionRelationships,
	CollectionIdentifier,
}

// Model is the unified, format-agnostic representation of all loaded
// resource schemas.
type Model struct {
	Resources map[string]*Resource
}

// Resource is a single declared resource type: three schema trees, one per
// collection. A collection root may be a bare container (attributes,
// relationships) or a leaf carrying a value of its own (identifier).
type Resource struct {
	Name          string
	Attributes    *Node
	Relationships *Node
	Identifier    *Node
}

// Collection returns the schema root for the named collection, or nil if
// the name is unknown.
func (r *Resource) Collection(name string) *Node {
	switch name {
	case CollectionAttributes:
		return r.Attributes
	case CollectionRelationships:
		return r.Relationships
	case CollectionIdentifier:
		return r.Identifier
	default:
		return nil
	}
}

// Node is one vertex of a resource's schema tree. Children keep their
// declaration order, which fixes traversal order during callback selection.
type Node struct {
	// Name is the node's own name. Collection roots have an empty name.
	Name string

	// Path is the sequence of names from the collection root down to this
	// node. The collection root itself has an empty path.
	Path []string

	// Type is the declared value type for this node. Container nodes that
	// only hold children have cty.NilType.
	Type cty.Type

	// RequiredOn lists the operations for which a value at this node must be
	// present in the input state.
	RequiredOn []string

	// Callbacks maps an operation name to the callback binding declared for
	// this node, if any.
	Callbacks map[string]*Binding

	childNames []string
	children   map[string]*Node
}

// NewNode creates a schema node with the given name and path.
func NewNode(name string, path []string) *Node {
	return &Node{
		Name:      name,
		Path:      path,
		Callbacks: make(map[string]*Binding),
		children:  make(map[string]*Node),
	}
}

// AddChild attaches a child node, preserving declaration order. A child that
// reuses an existing name replaces the earlier one.
func (n *Node) AddChild(child *Node) {
	if _, exists := n.children[child.Name]; !exists {
		n.childNames = append(n.childNames, child.Name)
	}
	n.children[child.Name] = child
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// ChildNames returns the child names in declaration order.
func (n *Node) ChildNames() []string {
	return n.childNames
}

// PathKey returns the dotted form of the node's path. Collection roots map
// to the empty string.
func (n *Node) PathKey() string {
	return strings.Join(n.Path, ".")
}

// RequiredFor reports whether a value at this node is mandatory for the
// given operation.
func (n *Node) RequiredFor(operation string) bool {
	for _, op := range n.RequiredOn {
		if op == operation {
			return true
		}
	}
	return false
}

// Walk visits the node and every descendant breadth-first, children in
// declaration order.
func (n *Node) Walk(visit func(*Node)) {
	queue := []*Node{n}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visit(node)
		for _, name := range node.childNames {
			queue = append(queue, node.children[name])
		}
	}
}

// Binding declares which registered handler runs at a schema node for one
// operation, together with its ordering constraint. At most one of RunFirst,
// RunLast and RunAfter may be set; the scheduler rejects mixed declarations.
type Binding struct {
	// Handler is the name of the registered Go handler to invoke.
	Handler string

	// RunFirst marks this callback as the unique start point of its
	// collection's schedule.
	RunFirst bool

	// RunLast marks this callback as the sole member of the final group.
	RunLast bool

	// RunAfter lists handler names that must complete before this callback
	// starts.
	RunAfter []string
}
