package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translateResource converts an HCL resource declaration into the agnostic
// config model, computing node paths along the way.
func translateResource(decl *schema.ResourceDecl) (*config.Resource, error) {
	res := &config.Resource{
		Name:          decl.Name,
		Attributes:    config.NewNode("", nil),
		Relationships: config.NewNode("", nil),
		Identifier:    config.NewNode("", nil),
	}

	if decl.Attributes != nil {
		if err := attachCallbacks(res.Attributes, decl.Attributes.Callbacks); err != nil {
			return nil, err
		}
		for _, attr := range decl.Attributes.Attributes {
			child, err := translateAttribute(attr, nil)
			if err != nil {
				return nil, err
			}
			res.Attributes.AddChild(child)
		}
	}

	if decl.Relationships != nil {
		if err := attachCallbacks(res.Relationships, decl.Relationships.Callbacks); err != nil {
			return nil, err
		}
		for _, rel := range decl.Relationships.Relationships {
			child, err := translateRelationship(rel, nil)
			if err != nil {
				return nil, err
			}
			res.Relationships.AddChild(child)
		}
	}

	if decl.Identifier != nil {
		idType, err := translateType(decl.Identifier.Type)
		if err != nil {
			return nil, fmt.Errorf("identifier: %w", err)
		}
		if idType == cty.NilType {
			idType = cty.String
		}
		res.Identifier.Type = idType
		for _, op := range decl.Identifier.RequiredOn {
			if !config.KnownOperation(op) {
				return nil, fmt.Errorf("identifier: unknown operation %q in required_on", op)
			}
		}
		res.Identifier.RequiredOn = decl.Identifier.RequiredOn
		if err := attachCallbacks(res.Identifier, decl.Identifier.Callbacks); err != nil {
			return nil, err
		}
	} else {
		res.Identifier.Type = cty.String
	}

	return res, nil
}

// translateAttribute converts an attribute declaration (and its nested
// children) into a schema node rooted at the given parent path.
func translateAttribute(decl *schema.AttributeDecl, parentPath []string) (*config.Node, error) {
	node, err := newNode(decl.Name, parentPath, decl.Type, decl.RequiredOn, decl.Callbacks)
	if err != nil {
		return nil, err
	}
	for _, child := range decl.Attributes {
		childNode, err := translateAttribute(child, node.Path)
		if err != nil {
			return nil, err
		}
		node.AddChild(childNode)
	}
	return node, nil
}

// translateRelationship mirrors translateAttribute for relationship blocks.
func translateRelationship(decl *schema.RelationshipDecl, parentPath []string) (*config.Node, error) {
	node, err := newNode(decl.Name, parentPath, decl.Type, decl.RequiredOn, decl.Callbacks)
	if err != nil {
		return nil, err
	}
	for _, child := range decl.Relationships {
		childNode, err := translateRelationship(child, node.Path)
		if err != nil {
			return nil, err
		}
		node.AddChild(childNode)
	}
	return node, nil
}

func newNode(name string, parentPath []string, typeExpr hcl.Expression, requiredOn []string, callbacks []*schema.CallbackDecl) (*config.Node, error) {
	path := make([]string, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	path = append(path, name)

	node := config.NewNode(name, path)

	nodeType, err := translateType(typeExpr)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	node.Type = nodeType

	for _, op := range requiredOn {
		if !config.KnownOperation(op) {
			return nil, fmt.Errorf("attribute %q: unknown operation %q in required_on", name, op)
		}
	}
	node.RequiredOn = requiredOn

	if err := attachCallbacks(node, callbacks); err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	return node, nil
}

// attachCallbacks translates callback blocks into bindings on the node.
func attachCallbacks(node *config.Node, decls []*schema.CallbackDecl) error {
	for _, cb := range decls {
		if !config.KnownOperation(cb.Operation) {
			return fmt.Errorf("callback for unknown operation %q", cb.Operation)
		}
		if cb.Handler == "" {
			return fmt.Errorf("callback for operation %q is missing a handler", cb.Operation)
		}
		if _, exists := node.Callbacks[cb.Operation]; exists {
			return fmt.Errorf("duplicate callback for operation %q", cb.Operation)
		}
		node.Callbacks[cb.Operation] = &config.Binding{
			Handler:  cb.Handler,
			RunFirst: cb.RunFirst,
			RunLast:  cb.RunLast,
			RunAfter: cb.RunAfter,
		}
	}
	return nil
}

// translateType resolves a declared type expression (e.g. `string`,
// `list(number)`) into a concrete cty.Type. A nil or absent expression
// yields cty.NilType, marking a pure container node.
func translateType(expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.NilType, nil
	}
	// gohcl decodes absent optional expressions as literal nulls.
	if val, diags := expr.Value(nil); !diags.HasErrors() && val.IsNull() {
		return cty.NilType, nil
	}
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid type expression: %w", diags)
	}
	return ty, nil
}
