// Package state persists the assembled cluster topology so that later runs
// (destroy, downstream orchestration) can find the nodes again.
//
// Two stores exist: FileStore writes a YAML file next to the configuration,
// S3Store writes the same document to an S3-compatible bucket. New picks one
// from the configuration.
package state
