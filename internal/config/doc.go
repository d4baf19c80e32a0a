// Package config resolves runtime settings for the packer CLI and HTTP service
// from YAML files, environment variables, and CLI flags, with precedence:
// CLI flags > YAML config > Environment variables > Defaults.
//
// The item and weight limits enforced by the selector are fixed and are not
// configurable here.
package config
