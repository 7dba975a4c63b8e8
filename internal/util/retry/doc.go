// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay, and maximum delay; errors wrapped with [Fatal]
// stop it at once. [Poll] waits for a condition until its context ends.
// Both are used by the provider backends, never by the launcher.
package retry
