package labels

import (
	"maps"
	"strings"
)

// Standard label keys.
const (
	// KeyCluster identifies which cluster a node belongs to
	KeyCluster = "hforge.io/cluster"

	// KeyRole identifies the role of a node (orchestrator, cpu-factory, gpu-factory)
	KeyRole = "hforge.io/role"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "hforge.io/managed-by"
)

// ManagedByHForge is the value of KeyManagedBy on every node hforge creates.
const ManagedByHForge = "hforge"

// LabelBuilder provides a fluent interface for building node labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the cluster name pre-set.
func NewLabelBuilder(clusterName string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyCluster:   clusterName,
			KeyManagedBy: ManagedByHForge,
		},
	}
}

// WithRole adds a role label.
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// Merge adds all labels from the provided map. Standard keys are not overridden.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		if _, reserved := lb.labels[k]; reserved && isStandardKey(k) {
			continue
		}
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	return maps.Clone(lb.labels)
}

// SelectorForCluster returns a label selector string for all nodes in a cluster.
func SelectorForCluster(clusterName string) string {
	return KeyCluster + "=" + clusterName
}

// Sanitize rewrites keys and values to the charset GCE accepts:
// lowercase letters, digits, '-' and '_'.
func Sanitize(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := sanitize(strings.NewReplacer(".", "-", "/", "_").Replace(k))
		if key == "" {
			continue
		}
		out[key] = sanitize(v)
	}
	return out
}

// GCEKey is the sanitized form of a standard key.
func GCEKey(key string) string {
	return sanitize(strings.NewReplacer(".", "-", "/", "_").Replace(key))
}

func sanitize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if len(out) > 63 {
		out = out[:63]
	}
	return out
}

func isStandardKey(k string) bool {
	return k == KeyCluster || k == KeyRole || k == KeyManagedBy
}
