package naming

import (
	"fmt"
	"strconv"
	"strings"
)

func Orchestrator(prefix string) string {
	return prefix + "-orchestrator"
}

func FactoryBase(prefix string) string {
	return prefix + "-factory"
}

func Factory(prefix string, index int) string {
	return fmt.Sprintf("%s-%d", FactoryBase(prefix), index)
}

// FactoryIndex extracts the index from a factory node name. It returns false
// when name is not a factory of the given prefix.
func FactoryIndex(prefix, name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, FactoryBase(prefix)+"-")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 1 {
		return 0, false
	}
	return i, true
}

// StateObject is the default object key for a cluster's saved topology.
func StateObject(prefix string) string {
	return fmt.Sprintf("%s/topology.yaml", prefix)
}
