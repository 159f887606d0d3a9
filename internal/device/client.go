// Package device talks to the heater vendor's cloud API. The contract is
// small: one status query, two commands, and a token refresh. Errors are
// transient-retryable by contract; retry policy belongs to the caller.
package device

import (
	"context"

	"heatkeeper/internal/models"
)

// Client is the boundary to the device cloud API.
type Client interface {
	QueryStatus(ctx context.Context, creds models.DeviceCredentials) (models.DeviceHeatingStatus, error)
	SetLevel(ctx context.Context, creds models.DeviceCredentials, deviceID string, level, durationSeconds int) error
	TurnOff(ctx context.Context, creds models.DeviceCredentials, deviceID string) error
	Refresh(ctx context.Context, refreshToken, deviceUserID string) (models.DeviceCredentials, error)
}
