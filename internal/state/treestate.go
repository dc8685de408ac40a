package state

import "github.com/zclconf/go-cty/cty"

// TreeState is the mutable scratch tree used during the merge phase.
// Callback results are stored at their schema path via Touch, then folded
// into one nested value by Merge. A TreeState lives for a single invoke
// phase and is discarded afterwards.
type TreeState struct {
	root *TreeNode
}

// TreeNode is one vertex of the scratch tree.
type TreeNode struct {
	// Value is the raw callback result stored at this path, or cty.NilVal.
	Value cty.Value

	childNames []string
	children   map[string]*TreeNode
}

// NewTreeState creates an empty scratch tree.
func NewTreeState() *TreeState {
	return &TreeState{root: newTreeNode()}
}

func newTreeNode() *TreeNode {
	return &TreeNode{children: make(map[string]*TreeNode)}
}

// Touch returns the node at the given path, creating it and any missing
// intermediate nodes on demand. An empty path addresses the root.
func (t *TreeState) Touch(path []string) *TreeNode {
	node := t.root
	for _, name := range path {
		child, ok := node.children[name]
		if !ok {
			child = newTreeNode()
			node.childNames = append(node.childNames, name)
			node.children[name] = child
		}
		node = child
	}
	return node
}

// Merge folds the scratch tree into a single nested value, leaf-first.
//
// A node with no children yields its stored value. A node with children
// yields a mapping from child name to merged child value; a mapping-shaped
// value stored at the same node seeds that container, while a non-mapping
// value is discarded in favor of the children. The root's own stored value,
// when mapping-shaped, is the base accumulator for the top-level merge.
func (t *TreeState) Merge() cty.Value {
	base := cty.NilVal
	if isSet(t.root.Value) {
		base = t.root.Value
	}
	return mergeNode(base, cty.NilVal, t.root)
}

func mergeNode(acc, stored cty.Value, node *TreeNode) cty.Value {
	if len(node.childNames) == 0 {
		// Leaf: the stored value wins over whatever accumulated above it.
		if isSet(stored) {
			return stored
		}
		return acc
	}

	if !isSet(acc) {
		acc = stored
	}

	values := make(map[string]cty.Value)
	if isMapping(acc) {
		for name, val := range acc.AsValueMap() {
			values[name] = val
		}
	}

	for _, name := range node.childNames {
		child := node.children[name]
		merged := mergeNode(values[name], child.Value, child)
		if isSet(merged) {
			values[name] = merged
		}
	}

	if len(values) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(values)
}

// isMapping reports whether v has object or map shape and can therefore act
// as a merge container.
func isMapping(v cty.Value) bool {
	if !isSet(v) || !v.IsKnown() {
		return false
	}
	return v.Type().IsObjectType() || v.Type().IsMapType()
}
