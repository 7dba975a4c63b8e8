package provisioning

import (
	"errors"

	"github.com/imamik/hforge/internal/cluster"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Plan     *cluster.Plan         // populated by the plan phase
	Result   *cluster.LaunchResult // populated by the launch phase
	Topology *cluster.Topology     // populated by the assemble phase, or loaded for destroy
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Orphans returns the nodes a failed run created and left behind: the
// launcher's orphans, or every launched node when assembly failed.
func (s *State) Orphans(err error) []cluster.NodeHandle {
	var perr *cluster.ProvisionError
	if errors.As(err, &perr) {
		return perr.Orphaned()
	}
	if s.Result == nil || s.Topology != nil {
		return nil
	}
	out := make([]cluster.NodeHandle, 0, len(s.Result.Factories)+1)
	out = append(out, s.Result.Orchestrator)
	return append(out, s.Result.Factories...)
}
