// Package schema declares the HCL block structure of resource definition
// files. These structs are decode targets for gohcl and are translated into
// the format-agnostic config model by the hcl loader.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// CallbackDecl represents a `callback` block attached to a schema node. The
// label names the operation the callback applies to.
type CallbackDecl struct {
	Operation string   `hcl:"operation,label"`
	Handler   string   `hcl:"handler"`
	RunFirst  bool     `hcl:"run_first,optional"`
	RunLast   bool     `hcl:"run_last,optional"`
	RunAfter  []string `hcl:"run_after,optional"`
}

// AttributeDecl represents an `attribute` block. Attributes nest, forming
// the schema tree.
type AttributeDecl struct {
	Name       string           `hcl:"name,label"`
	Type       hcl.Expression   `hcl:"type,optional"`
	RequiredOn []string         `hcl:"required_on,optional"`
	Callbacks  []*CallbackDecl  `hcl:"callback,block"`
	Attributes []*AttributeDecl `hcl:"attribute,block"`
}

// RelationshipDecl represents a `relationship` block. Relationships nest the
// same way attributes do.
type RelationshipDecl struct {
	Name          string              `hcl:"name,label"`
	Type          hcl.Expression      `hcl:"type,optional"`
	RequiredOn    []string            `hcl:"required_on,optional"`
	Callbacks     []*CallbackDecl     `hcl:"callback,block"`
	Relationships []*RelationshipDecl `hcl:"relationship,block"`
}

// AttributesDecl represents the `attributes` container block of a resource.
// Callbacks declared here bind to the collection root.
type AttributesDecl struct {
	Callbacks  []*CallbackDecl  `hcl:"callback,block"`
	Attributes []*AttributeDecl `hcl:"attribute,block"`
}

// RelationshipsDecl represents the `relationships` container block.
type RelationshipsDecl struct {
	Callbacks     []*CallbackDecl     `hcl:"callback,block"`
	Relationships []*RelationshipDecl `hcl:"relationship,block"`
}

// IdentifierDecl represents the `identifier` block. The identifier is a
// single-node collection carrying the resource id.
type IdentifierDecl struct {
	Type       hcl.Expression  `hcl:"type,optional"`
	RequiredOn []string        `hcl:"required_on,optional"`
	Callbacks  []*CallbackDecl `hcl:"callback,block"`
}

// ResourceDecl represents a top-level `resource` block.
type ResourceDecl struct {
	Name          string             `hcl:"name,label"`
	Attributes    *AttributesDecl    `hcl:"attributes,block"`
	Relationships *RelationshipsDecl `hcl:"relationships,block"`
	Identifier    *IdentifierDecl    `hcl:"identifier,block"`
}

// File represents the top-level structure of a resource definition file.
type File struct {
	Resources []*ResourceDecl `hcl:"resource,block"`
	Body      hcl.Body        `hcl:",remain"`
}
