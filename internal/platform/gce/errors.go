package gce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/imamik/hforge/internal/cluster"
)

// Error codes for specs rejected before any API call.
const (
	CodeUnsupported  = "unsupported"
	CodeInvalidInput = "invalid_input"
)

// OperationError is a zonal operation that finished with errors.
type OperationError struct {
	Operation string
	Errors    []*compute.OperationErrorErrors
}

func (e *OperationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", item.Code, item.Message))
	}
	return fmt.Sprintf("GCE operation %s failed: %s", e.Operation, strings.Join(msgs, "; "))
}

// isHTTPError reports whether err is a googleapi error with the given status.
func isHTTPError(err error, status int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == status
}

func isNotFound(err error) bool {
	return isHTTPError(err, http.StatusNotFound)
}

// toProviderError translates operation, API and context errors into the
// launcher's error type.
func toProviderError(err error) *cluster.ProviderError {
	var perr *cluster.ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	var opErr *OperationError
	if errors.As(err, &opErr) && len(opErr.Errors) > 0 {
		first := opErr.Errors[0]
		return &cluster.ProviderError{Code: first.Code, Message: first.Message, Err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		code := fmt.Sprintf("http_%d", gerr.Code)
		if len(gerr.Errors) > 0 && gerr.Errors[0].Reason != "" {
			code = gerr.Errors[0].Reason
		}
		return &cluster.ProviderError{Code: code, Message: gerr.Message, Err: err}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &cluster.ProviderError{Code: cluster.CodeCanceled, Message: err.Error(), Err: err}
	}

	return &cluster.ProviderError{Code: cluster.CodeUnknown, Message: err.Error(), Err: err}
}
