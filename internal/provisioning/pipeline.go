package provisioning

import (
	"fmt"
	"time"
)

// Pipeline runs phases sequentially and stops at the first failure.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline of the given phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// CreatePipeline returns the phases of a cluster creation.
func CreatePipeline() *Pipeline {
	return NewPipeline(
		NewValidationPhase(),
		NewPlanPhase(),
		NewLaunchPhase(),
		NewAssemblePhase(),
	)
}

// Run executes all phases in order.
func (p *Pipeline) Run(ctx *Context) error {
	for _, phase := range p.Phases {
		start := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), time.Since(start))
	}
	return nil
}
