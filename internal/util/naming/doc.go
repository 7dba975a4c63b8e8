// Package naming provides consistent names for cluster nodes.
//
// Nodes follow the pattern {prefix}-orchestrator for the control node and
// {prefix}-factory-{index} for workers, with indices starting at 1.
package naming
