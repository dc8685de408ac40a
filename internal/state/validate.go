package state

import (
	"errors"
	"fmt"

	"github.com/vk/restflow/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrValidation marks schema-level validation failures. Callers match it
// with errors.Is.
var ErrValidation = errors.New("state validation failed")

// Validate applies the default validation rule to a ResourceState: every
// non-absent collection must satisfy its schema for the given operation.
// Absent collections are skipped, mirroring payload-less operations.
func Validate(res *config.Resource, rs *ResourceState, operation string) error {
	for _, name := range config.CollectionNames {
		st := rs.Collection(name)
		if st == nil {
			continue
		}
		if err := validateNode(res.Collection(name), st, operation); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// validateNode checks one schema node and its descendants against the
// corresponding state subtree.
func validateNode(schemaNode *config.Node, st *Node, operation string) error {
	if schemaNode == nil {
		return nil
	}

	present := st != nil && (isSet(st.Value) || len(st.childNames) > 0)
	if !present {
		if schemaNode.RequiredFor(operation) {
			return fmt.Errorf("%w: missing required value at %q", ErrValidation, schemaNode.PathKey())
		}
		// Required descendants of an absent subtree still count as missing.
		var missing error
		schemaNode.Walk(func(n *config.Node) {
			if missing == nil && n != schemaNode && n.RequiredFor(operation) {
				missing = fmt.Errorf("%w: missing required value at %q", ErrValidation, n.PathKey())
			}
		})
		return missing
	}

	if schemaNode.Type != cty.NilType && isSet(st.Value) {
		if _, err := convert.Convert(st.Value, schemaNode.Type); err != nil {
			return fmt.Errorf("%w: value at %q is not %s: %v",
				ErrValidation, schemaNode.PathKey(), schemaNode.Type.FriendlyName(), err)
		}
	}

	for _, name := range schemaNode.ChildNames() {
		if err := validateNode(schemaNode.Child(name), st.Child(name), operation); err != nil {
			return err
		}
	}
	return nil
}
