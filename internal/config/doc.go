// Package config loads the court service settings from defaults, an optional
// config.yaml in the working directory and COURT_-prefixed environment
// variables, then validates them before any component is constructed.
package config
