// Package builtin provides the engines shipped with this repository: a
// sequential plan validator, a sequential simulator, a set of problem
// compilers, and the oversubscription and replanner meta-engines.
//
// External planners are distributed as separate modules and registered
// through their own catalog entries; everything here works on the declared
// problem and plan kinds alone and has no external dependencies.
package builtin
