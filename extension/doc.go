// Package extension provides run-time registries that let the runtime work
// with user-defined Go action types (for example typed actions matched by
// take patterns).
//
// The registries are normally modified through the public APIs under the
// root saga package, therefore most applications do not need to import
// this package directly.
package extension
