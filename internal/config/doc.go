// Package config loads, merges, and validates the application configuration.
//
// Values come from three sources merged in priority order: environment
// variables, command-line flags, and an optional JSON file. The merged result
// is returned as a single StructuredConfig that the rest of the application
// consumes read-only.
package config
