// Package application wires the pack selector, result cache, line processor,
// HTTP handlers, router, and server together so that cmd/packer only deals with
// flag parsing and process lifecycle.
package application
