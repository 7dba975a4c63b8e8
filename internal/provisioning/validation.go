package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/hforge/internal/config"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// largeClusterSize is the factory count above which a launch is likely to
// hit provider rate limits when unbounded.
const largeClusterSize = 20

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return PhaseValidation
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	var errs []string
	for _, ve := range validate(ctx) {
		if ve.IsError() {
			errs = append(errs, ve.Error())
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Phase:   PhaseValidation,
			Message: ve.Message,
			Fields:  map[string]string{"field": ve.Field},
		})
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// validate runs all validation checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var errs []ValidationError

	if ctx.Provisioner == nil {
		errs = append(errs, ValidationError{
			Field:    "Provisioner",
			Message:  "no provider client configured",
			Severity: "error",
		})
	}

	cfg := ctx.Config
	if cfg == nil {
		return append(errs, ValidationError{
			Field:    "Config",
			Message:  "configuration is required",
			Severity: "error",
		})
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:    "Config",
			Message:  err.Error(),
			Severity: "error",
		})
	}

	// --- Concurrency ---

	if cfg.Concurrency > cfg.Factories.Count {
		errs = append(errs, ValidationError{
			Field:    "Concurrency",
			Message:  fmt.Sprintf("concurrency %d exceeds the factory count %d and has no effect", cfg.Concurrency, cfg.Factories.Count),
			Severity: "warning",
		})
	}
	if cfg.Concurrency == 0 && cfg.Factories.Count > largeClusterSize {
		errs = append(errs, ValidationError{
			Field:    "Concurrency",
			Message:  fmt.Sprintf("%d unbounded creation calls may hit provider rate limits, consider setting concurrency", cfg.Factories.Count),
			Severity: "warning",
		})
	}

	// --- Accelerators ---

	if cfg.Provider == config.ProviderGCE && cfg.Factories.Accelerator != nil {
		family, _, _ := strings.Cut(cfg.Factories.MachineType, "-")
		if family != "n1" {
			errs = append(errs, ValidationError{
				Field:    "Factories.MachineType",
				Message:  fmt.Sprintf("machine type %q may not accept attached accelerators, n1 machine types do", cfg.Factories.MachineType),
				Severity: "warning",
			})
		}
	}

	// --- SSH ---

	if cfg.SSH.User == "root" && cfg.Provider == config.ProviderGCE {
		errs = append(errs, ValidationError{
			Field:    "SSH.User",
			Message:  "GCE images usually disable root login, set ssh.user",
			Severity: "warning",
		})
	}

	return errs
}
