// Package progress defines primitives for reporting and aggregating the
// progress of the task tree driven by the saga runtime.  Updates are
// delivered through the OnChange callback; callers can also read the
// counters with Snapshot.
package progress
