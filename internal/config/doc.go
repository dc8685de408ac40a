// Package config defines the format-agnostic model of a resource schema:
// the attribute/relationship trees, per-node callback bindings, and the
// Loader interface for reading schema definitions from various sources.
//
// The `config.Model` is the single source of truth for the `registry`,
// `scheduler` and `pipeline` packages. Concrete loader implementations,
// such as for HCL, are provided in separate packages.
package config
