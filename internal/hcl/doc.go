// Package hcl implements the config.Loader interface for resource schemas
// declared in HCL files. It parses `resource` blocks, resolves declared
// value types via typeexpr, and translates the result into the
// format-agnostic config model.
package hcl
