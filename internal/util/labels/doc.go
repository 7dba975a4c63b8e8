// Package labels provides consistent labeling for provider resources.
//
// All labels use the hforge.io domain prefix and follow a builder pattern
// for constructing label sets with cluster name, role and manager
// identification. Providers with stricter key rules (GCE) get a sanitized
// view through [Sanitize].
package labels
