// Package provisioning runs the cluster lifecycle around the core in
// internal/cluster.
//
// # Core Types
//
// Context carries configuration, the provider, the observer, metrics, and State.
// Phase defines a provisioning step with Name() and Provision() methods.
// Pipeline runs phases in order: validation, plan, launch, assemble.
// State accumulates results from each phase (plan, launch result, topology).
//
// Rollback deletes the nodes a failed launch left behind. It is not a
// phase: callers decide whether to run it.
//
// # Subpackages
//
//   - destroy/: tear down a cluster from its saved topology or provider labels
package provisioning
