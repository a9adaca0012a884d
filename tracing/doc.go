// Package tracing integrates observability back-ends with the saga runtime
// to provide distributed tracing information.  All instrumentation is kept in
// this package; the root saga package imports it for the WithTracing option.
package tracing
