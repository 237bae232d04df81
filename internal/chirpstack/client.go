package chirpstack

import (
	"context"
	"errors"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/models"
)

// Common errors, translated from backend RPC status codes
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnavailable      = errors.New("unavailable")
)

// Client defines the backend network-server interface
type Client interface {
	// Application methods
	ListApplications(ctx context.Context, limit, offset int) ([]*models.Application, int64, error)
	GetApplication(ctx context.Context, id string) (*models.Application, error)

	// Device methods
	ListDevices(ctx context.Context, applicationID string, limit, offset int) ([]*models.Device, int64, error)
	GetDevice(ctx context.Context, devEUI models.EUI64) (*models.Device, error)

	// Gateway methods
	ListGateways(ctx context.Context, limit, offset int) ([]*models.Gateway, int64, error)
	GetGateway(ctx context.Context, gatewayID models.EUI64) (*models.Gateway, error)

	// Device profile methods
	ListDeviceProfiles(ctx context.Context, limit, offset int) ([]*models.DeviceProfile, int64, error)
	GetDeviceProfile(ctx context.Context, id string) (*models.DeviceProfile, error)

	// Downlink queue methods
	EnqueueDownlink(ctx context.Context, devEUI models.EUI64, item *models.DownlinkQueueItem) (string, error)
	ListDownlinkQueue(ctx context.Context, devEUI models.EUI64) ([]*models.DownlinkQueueItem, error)
	FlushDownlinkQueue(ctx context.Context, devEUI models.EUI64) error

	Close() error
}
