// Package factory resolves operation-mode requests to planning engines.
//
// A Factory is built over a Catalog of loadable engine definitions. At
// construction it registers a recommended set of defaults best-effort,
// composes the registered meta-engines against every compatible base engine
// under derived names like "oversubscription[enhsp]", and establishes a
// preference list that orders capability searches. Callers then ask for an
// engine per operation mode, either by explicit name or by describing the
// problem's features and the guarantees they need.
//
// Registry state is transportable: Snapshot captures the ordered
// registration instructions and the preference list, and NewFromSnapshot
// replays them against a catalog in another process, reproducing the same
// engine names without moving any loaded code.
package factory
