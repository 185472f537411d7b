// Package validate provides a graph validation engine that checks a typed
// object graph against a validation profile: a set of rules whose
// predicates are expressions evaluated in a sandboxed environment, plus
// accumulator variables that carry state across the traversal.
//
// The package itself does not parse documents or profile files, and does
// not specify a predicate language; it relies on the Sandbox interface to
// evaluate expressions. See the cel subpackage for a CEL-backed Sandbox,
// memgraph for a reference Object graph builder, and memprofile for a
// YAML-backed Profile loader.
//
// Typical use is as follows:
//
//  1. Build or load a Profile (rules + variables, indexed by object type).
//  2. Build or load the root Object of the document to validate.
//  3. Create an Engine with a Sandbox implementation and options.
//  4. Call Validate with the root Object.
//  5. Inspect the returned ValidationResult.
//
// # Object Ownership
//
// The object graph is read-only to the engine. Objects are visited in
// depth-first order; an Object whose ID method reports an id (ok ==
// true) is visited at most once per run, so cycles that pass through an
// identified Object terminate. Objects without an ID may recur — it is the profile
// author's responsibility to avoid unbounded expansion in that case.
//
// # Cancellation
//
// Cancel may be called from any goroutine at any time. It is cooperative:
// the traversal loop checks the abort flag between objects, and the
// result collector checks it before appending an assertion. The result
// returned after cancellation is a well-formed partial report, not an
// error.
package validate
