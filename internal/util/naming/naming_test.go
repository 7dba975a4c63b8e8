package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	prefix := "demo"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "Orchestrator", got: Orchestrator(prefix), expected: "demo-orchestrator"},
		{name: "FactoryBase", got: FactoryBase(prefix), expected: "demo-factory"},
		{name: "Factory first", got: Factory(prefix, 1), expected: "demo-factory-1"},
		{name: "Factory double digit", got: Factory(prefix, 12), expected: "demo-factory-12"},
		{name: "StateObject", got: StateObject(prefix), expected: "demo/topology.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.got)
			}
		})
	}
}

func TestFactoryIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		node  string
		index int
		ok    bool
	}{
		{"first factory", "demo-factory-1", 1, true},
		{"large index", "demo-factory-40", 40, true},
		{"orchestrator", "demo-orchestrator", 0, false},
		{"other prefix", "prod-factory-1", 0, false},
		{"zero index", "demo-factory-0", 0, false},
		{"not a number", "demo-factory-x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			i, ok := FactoryIndex("demo", tt.node)
			if ok != tt.ok || i != tt.index {
				t.Errorf("FactoryIndex(%q) = (%d, %v), want (%d, %v)", tt.node, i, ok, tt.index, tt.ok)
			}
		})
	}
}
