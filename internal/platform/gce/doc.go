// Package gce provisions cluster nodes as Google Compute Engine instances.
//
// Client implements cluster.Provisioner on top of google.golang.org/api/compute/v1.
// Every node is one zonal instance with a boot disk initialised from the
// spec's image (a family or a named image, optionally in another project),
// one network interface with an external NAT address, the cluster's SSH key in
// the instance metadata and sanitized hforge labels.
//
// Factories that carry an accelerator get guest accelerators attached.
// Instances with GPUs cannot live-migrate, so they are scheduled with
// OnHostMaintenance=TERMINATE and automatic restart.
//
// Insert and delete calls return zonal operations which are polled until they
// are DONE. Operation errors (for example QUOTA_EXCEEDED) and googleapi errors
// are returned as *cluster.ProviderError.
package gce
