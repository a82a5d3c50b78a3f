// Package config defines the format-agnostic model of a pipeline file, along
// with the Loader interface implemented by each file format.
//
// The `config.Model` is what the `app` package turns into batch tasks.
// Concrete loaders for HCL and YAML live in separate packages.
package config
