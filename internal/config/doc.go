// Package config defines the cluster configuration model.
//
// The [Config] struct is loaded from a YAML file (hforge.yaml by default),
// defaulted, validated, and turned into [cluster.PlanOptions] for the
// launcher. Provider timeouts are read from the environment by
// [LoadTimeouts].
package config
