// Package destroy handles cluster teardown.
//
// It deletes every node of a cluster, taken from the saved topology when one
// exists, or discovered by querying the provider for nodes carrying the
// cluster label.
package destroy
