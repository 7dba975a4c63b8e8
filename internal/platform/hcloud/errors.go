package hcloud

import (
	"context"
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/hforge/internal/cluster"
)

// Codes for failures detected before any API call.
const (
	CodeUnsupported  = "unsupported"
	CodeInvalidInput = string(hcloud.ErrorCodeInvalidInput)
	CodeNotFound     = string(hcloud.ErrorCodeNotFound)
)

// isResourceLocked checks if an error indicates a resource is locked.
// Locked resources typically occur during snapshot creation or other
// long-running operations. These errors are retryable.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,   // Item is locked (action running)
		hcloud.ErrorCodeConflict, // Resource changed during request
	)
}

// isRetryableCreate checks if a server creation can be attempted again.
func isRetryableCreate(err error) bool {
	return isResourceLocked(err) || IsRateLimited(err)
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

// IsRateLimited checks if an error indicates rate limiting.
func IsRateLimited(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeRateLimitExceeded)
}

// toProviderError translates API, action and context errors into the
// launcher's error type. The original error stays reachable through Unwrap.
func toProviderError(err error) *cluster.ProviderError {
	var perr *cluster.ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	var apiErr hcloud.Error
	if errors.As(err, &apiErr) {
		return &cluster.ProviderError{Code: string(apiErr.Code), Message: apiErr.Message, Err: err}
	}

	var actionErr hcloud.ActionError
	if errors.As(err, &actionErr) {
		return &cluster.ProviderError{Code: actionErr.Code, Message: actionErr.Message, Err: err}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &cluster.ProviderError{Code: cluster.CodeCanceled, Message: err.Error(), Err: err}
	}

	return &cluster.ProviderError{Code: cluster.CodeUnknown, Message: err.Error(), Err: err}
}
