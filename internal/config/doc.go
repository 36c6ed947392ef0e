// Package config defines the operator's runtime configuration.
//
// [Load] starts from defaults, applies an optional YAML file and then
// environment overrides, and validates the result. The same [Operator]
// value drives the manager in cmd/operator and the osoctl admin CLI.
package config
