// Package engine defines the core value types and contracts of the OpenPlan
// engine system: operation modes, problem feature sets, guarantee enumerations,
// the capability predicates a backend declares, and the per-mode service
// interfaces that concrete planning backends implement.
//
// The package contains no resolution logic; the factory package selects and
// composes engines purely through the predicates declared here.
package engine
