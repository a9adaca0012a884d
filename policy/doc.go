// Package policy provides optional declarative rules that can be applied on
// top of a running saga runtime – for example to require human approval for
// selected effect kinds or to enforce execution constraints.
package policy
