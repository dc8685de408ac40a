// Package registry provides the central "glue" for the callback system.
//
// The Registry stores mappings between the handler names used in schema
// files (e.g. "OnCreateName") and the compiled Go functions that implement
// them, alongside the loaded resource definitions. During application
// startup the registry is populated and then validated to ensure the Go code
// and the public-facing schemas are in sync, preventing a wide class of
// runtime errors.
package registry
