// Package model contains the in-memory representation of effect
// descriptors and supporting types used by the saga runtime.
//
// A procedure yields the structures defined in the `effect` sub-package;
// the root model package holds no declarations of its own, and the
// descriptors are imported from model/effect.
package model
