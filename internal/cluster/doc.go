// Package cluster provides the provisioning core: it turns a cluster
// description into node specs, creates every node concurrently through a
// Provisioner, and assembles the results into a typed topology.
//
// # Architecture
//
//   - plan.go: BuildPlan produces one orchestrator spec and N factory specs
//   - launcher.go: Launcher issues every creation call concurrently
//   - assembler.go: Assemble maps launch results onto instance records
//   - errors.go: typed errors returned at every boundary
//
// # Launch Flow
//
// 1. The orchestrator creation call starts in its own goroutine.
// 2. Factory calls fan out through async.Collect, optionally bounded.
// 3. Launch waits for every call; results keep plan order.
// 4. Any failure yields a *ProvisionError naming each failed node and
// every node that was created anyway.
//
// The package never retries and never deletes anything. Rolling back the
// handles returned by ProvisionError.Orphaned is the caller's decision.
package cluster
