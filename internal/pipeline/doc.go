// Package pipeline orchestrates one request against one resource: it builds
// and validates the input state, selects the callbacks registered for the
// active operation across the schema trees, invokes them in dependency
// order (concurrently within each group, collections concurrently with each
// other), merges their results back into nested values, and builds and
// validates the output state before generating a representation.
//
// Any validation failure, scheduling conflict, dependency cycle or callback
// error is fatal to the whole run; no partial results are returned and
// nothing is retried.
package pipeline
