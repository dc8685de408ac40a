// Package state holds the per-request value trees that mirror a resource's
// schema: the input and output ResourceState triples, the scratch TreeState
// used to merge callback results, and the schema-level validation rule.
//
// All values are cty.Value so they round-trip cleanly between JSON payloads,
// declared schema types and callback results.
package state
