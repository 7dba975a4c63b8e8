// Package hcloud provisions cluster nodes as Hetzner Cloud servers.
//
// RealClient implements cluster.Provisioner on top of hcloud-go. A node is
// one server attached to a pre-existing private network, booted with the
// cluster's uploaded SSH key and labelled with the cluster, role and
// managed-by labels.
//
// # Node creation
//
// CreateNode resolves the network and SSH key by name once per client,
// creates the server, waits for the create action and its follow-up actions,
// then polls the server until it reports both a public IPv4 address and a
// private address. If a step after the create call fails, the server is
// deleted again before the error is returned, so a failed call never leaves
// an orphan behind.
//
// Hetzner servers have no attachable GPUs. A spec with an accelerator is
// rejected with the "unsupported" code before any API call.
//
// # Generic Operations
//
// DeleteOperation and EnsureOperation keep the delete and get-or-create
// patterns in one place:
//   - deletion is idempotent and retries locked resources with backoff
//   - ensure validates an existing resource before reusing it
//
// # Errors
//
// Every error returned by the provisioner is a *cluster.ProviderError whose
// Code is the hcloud error code (for example "resource_limit_exceeded") or the
// code of the failed action.
package hcloud
