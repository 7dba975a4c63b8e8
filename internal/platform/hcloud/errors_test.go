package hcloud

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/util/retry"
)

func TestIsResourceLocked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"locked", hcloud.Error{Code: hcloud.ErrorCodeLocked}, true},
		{"conflict", hcloud.Error{Code: hcloud.ErrorCodeConflict}, true},
		{"wrapped locked", fmt.Errorf("delete: %w", hcloud.Error{Code: hcloud.ErrorCodeLocked}), true},
		{"not found", hcloud.Error{Code: hcloud.ErrorCodeNotFound}, false},
		{"plain", errors.New("locked"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isResourceLocked(tt.err))
		})
	}
}

func TestIsRetryableCreate(t *testing.T) {
	assert.True(t, isRetryableCreate(hcloud.Error{Code: hcloud.ErrorCodeRateLimitExceeded}))
	assert.True(t, isRetryableCreate(hcloud.Error{Code: hcloud.ErrorCodeLocked}))
	assert.False(t, isRetryableCreate(hcloud.Error{Code: hcloud.ErrorCodeResourceLimitExceeded}))
	assert.False(t, isRetryableCreate(hcloud.Error{Code: hcloud.ErrorCodeInvalidInput}))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(hcloud.Error{Code: hcloud.ErrorCodeNotFound}))
	assert.False(t, IsNotFound(hcloud.Error{Code: hcloud.ErrorCodeLocked}))
	assert.False(t, IsNotFound(nil))
}

func TestToProviderError(t *testing.T) {
	passthrough := &cluster.ProviderError{Code: "custom", Message: "kept"}

	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:     "provider error passes through",
			err:      fmt.Errorf("wrapped: %w", passthrough),
			wantCode: "custom", wantMessage: "kept",
		},
		{
			name:     "api error",
			err:      retry.Fatal(hcloud.Error{Code: hcloud.ErrorCodeResourceLimitExceeded, Message: "limit"}),
			wantCode: "resource_limit_exceeded", wantMessage: "limit",
		},
		{
			name:     "action error",
			err:      hcloud.ActionError{Code: "server_create_failed", Message: "no capacity"},
			wantCode: "server_create_failed", wantMessage: "no capacity",
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("gave up waiting: %w", context.DeadlineExceeded),
			wantCode: cluster.CodeCanceled,
		},
		{
			name:     "anything else",
			err:      errors.New("boom"),
			wantCode: cluster.CodeUnknown, wantMessage: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := toProviderError(tt.err)
			assert.Equal(t, tt.wantCode, perr.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, perr.Message)
			}
		})
	}

	assert.Same(t, passthrough, toProviderError(passthrough))
}
