// Package system is the core of commix: it expands a nested configuration
// tree into components, resolves symbolic references between them into a
// dependency graph, and runs lifecycle transitions (init, halt, suspend,
// resume) over that graph in an order that respects the dependencies.
//
// The package is single-threaded and synchronous by design: a
// lifecycle call is a strict, deterministic fold over a scheduled path
// order. Callers that want to parallelize independent branches of the
// graph must serialize their own writes back into the System.
package system
