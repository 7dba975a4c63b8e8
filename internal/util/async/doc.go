// Package async provides utilities for parallel task execution with
// error collection.
//
// [Collect] fans a function out over a fixed number of slots, optionally
// bounded, and returns results and errors indexed by slot regardless of
// completion order. [RunParallel] builds on it for named tasks that only
// report errors.
package async
