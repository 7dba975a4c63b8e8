// Package testing provides test utilities, builders, and fixtures shared by
// the unit tests of the other packages.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - FakeProvisioner: Programmable in-memory provisioner with per-node delays and failures
//   - MockProvisioner: testify mock of cluster.Provisioner
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - TopologyFixture / PlanFixture: Ready-made clusters for handler and state tests
//
// Usage:
//
//	fake := testing.NewFakeProvisioner().
//	    FailOn("demo-factory-2", &cluster.ProviderError{Code: "QUOTA_EXCEEDED"}).
//	    DelayOn("demo-factory-1", 50*time.Millisecond)
//
//	result, err := cluster.NewLauncher(fake).Launch(ctx, plan)
package testing
