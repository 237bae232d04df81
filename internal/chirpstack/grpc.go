package chirpstack

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/chirpstack/chirpstack/api/go/v4/api"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/config"
	"github.com/lorawan-server/chirpstack-rest-gateway/internal/models"
)

// apiToken implements credentials.PerRPCCredentials. It attaches the API
// key as bearer metadata to every outbound call.
type apiToken string

// GetRequestMetadata returns the per-call authorization metadata
func (t apiToken) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{
		"authorization": "Bearer " + string(t),
	}, nil
}

// RequireTransportSecurity returns false so the token can also be sent
// over plaintext channels
func (t apiToken) RequireTransportSecurity() bool {
	return false
}

// GRPCClient implements Client over a ChirpStack gRPC connection
type GRPCClient struct {
	conn     *grpc.ClientConn
	tenantID string

	applications   api.ApplicationServiceClient
	devices        api.DeviceServiceClient
	gateways       api.GatewayServiceClient
	deviceProfiles api.DeviceProfileServiceClient
}

// Dial connects to the network server described by cfg. The connection is
// lazy; RPC failures surface per call as ErrUnavailable.
func Dial(cfg *config.ChirpStackConfig) (*GRPCClient, error) {
	target, useTLS := cfg.DialTarget()

	transport := insecure.NewCredentials()
	if useTLS {
		transport = credentials.NewTLS(&tls.Config{})
	}

	conn, err := grpc.Dial(target,
		grpc.WithTransportCredentials(transport),
		grpc.WithPerRPCCredentials(apiToken(cfg.APIKey)),
	)
	if err != nil {
		return nil, fmt.Errorf("dial network server: %w", err)
	}

	log.Info().
		Str("target", target).
		Bool("tls", useTLS).
		Msg("Connected to ChirpStack gRPC API")

	return &GRPCClient{
		conn:           conn,
		tenantID:       cfg.TenantID,
		applications:   api.NewApplicationServiceClient(conn),
		devices:        api.NewDeviceServiceClient(conn),
		gateways:       api.NewGatewayServiceClient(conn),
		deviceProfiles: api.NewDeviceProfileServiceClient(conn),
	}, nil
}

// Close closes the underlying connection
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// ListApplications lists applications of the configured tenant
func (c *GRPCClient) ListApplications(ctx context.Context, limit, offset int) ([]*models.Application, int64, error) {
	resp, err := c.applications.List(ctx, &api.ListApplicationsRequest{
		Limit:    uint32(limit),
		Offset:   uint32(offset),
		TenantId: c.tenantID,
	})
	if err != nil {
		return nil, 0, translateErr(err)
	}

	apps := make([]*models.Application, len(resp.Result))
	for i, item := range resp.Result {
		apps[i] = applicationFromListItem(item)
		apps[i].TenantID = c.tenantID
	}

	return apps, int64(resp.TotalCount), nil
}

// GetApplication gets an application by ID
func (c *GRPCClient) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	resp, err := c.applications.Get(ctx, &api.GetApplicationRequest{
		Id: id,
	})
	if err != nil {
		return nil, translateErr(err)
	}

	return applicationFromProto(resp), nil
}

// ListDevices lists devices of an application
func (c *GRPCClient) ListDevices(ctx context.Context, applicationID string, limit, offset int) ([]*models.Device, int64, error) {
	resp, err := c.devices.List(ctx, &api.ListDevicesRequest{
		Limit:         uint32(limit),
		Offset:        uint32(offset),
		ApplicationId: applicationID,
	})
	if err != nil {
		return nil, 0, translateErr(err)
	}

	devices := make([]*models.Device, len(resp.Result))
	for i, item := range resp.Result {
		devices[i] = deviceFromListItem(item)
		devices[i].ApplicationID = applicationID
	}

	return devices, int64(resp.TotalCount), nil
}

// GetDevice gets a device by DevEUI
func (c *GRPCClient) GetDevice(ctx context.Context, devEUI models.EUI64) (*models.Device, error) {
	resp, err := c.devices.Get(ctx, &api.GetDeviceRequest{
		DevEui: devEUI.String(),
	})
	if err != nil {
		return nil, translateErr(err)
	}

	return deviceFromProto(resp), nil
}

// ListGateways lists gateways of the configured tenant
func (c *GRPCClient) ListGateways(ctx context.Context, limit, offset int) ([]*models.Gateway, int64, error) {
	resp, err := c.gateways.List(ctx, &api.ListGatewaysRequest{
		Limit:    uint32(limit),
		Offset:   uint32(offset),
		TenantId: c.tenantID,
	})
	if err != nil {
		return nil, 0, translateErr(err)
	}

	gateways := make([]*models.Gateway, len(resp.Result))
	for i, item := range resp.Result {
		gateways[i] = gatewayFromListItem(item)
	}

	return gateways, int64(resp.TotalCount), nil
}

// GetGateway gets a gateway by ID
func (c *GRPCClient) GetGateway(ctx context.Context, gatewayID models.EUI64) (*models.Gateway, error) {
	resp, err := c.gateways.Get(ctx, &api.GetGatewayRequest{
		GatewayId: gatewayID.String(),
	})
	if err != nil {
		return nil, translateErr(err)
	}

	return gatewayFromProto(resp), nil
}

// ListDeviceProfiles lists device profiles of the configured tenant
func (c *GRPCClient) ListDeviceProfiles(ctx context.Context, limit, offset int) ([]*models.DeviceProfile, int64, error) {
	resp, err := c.deviceProfiles.List(ctx, &api.ListDeviceProfilesRequest{
		Limit:    uint32(limit),
		Offset:   uint32(offset),
		TenantId: c.tenantID,
	})
	if err != nil {
		return nil, 0, translateErr(err)
	}

	profiles := make([]*models.DeviceProfile, len(resp.Result))
	for i, item := range resp.Result {
		profiles[i] = deviceProfileFromListItem(item)
		profiles[i].TenantID = c.tenantID
	}

	return profiles, int64(resp.TotalCount), nil
}

// GetDeviceProfile gets a device profile by ID
func (c *GRPCClient) GetDeviceProfile(ctx context.Context, id string) (*models.DeviceProfile, error) {
	resp, err := c.deviceProfiles.Get(ctx, &api.GetDeviceProfileRequest{
		Id: id,
	})
	if err != nil {
		return nil, translateErr(err)
	}

	return deviceProfileFromProto(resp), nil
}

// EnqueueDownlink submits one queue item and returns its generated ID
func (c *GRPCClient) EnqueueDownlink(ctx context.Context, devEUI models.EUI64, item *models.DownlinkQueueItem) (string, error) {
	if item.FPort < 1 || item.FPort > 223 {
		return "", fmt.Errorf("%w: fPort must be between 1 and 223", ErrInvalidArgument)
	}

	if len(item.Data) > models.MaxDownlinkPayload {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidArgument, models.MaxDownlinkPayload)
	}

	resp, err := c.devices.Enqueue(ctx, &api.EnqueueDeviceQueueItemRequest{
		QueueItem: &api.DeviceQueueItem{
			DevEui:    devEUI.String(),
			Confirmed: item.Confirmed,
			FPort:     uint32(item.FPort),
			Data:      item.Data,
		},
	})
	if err != nil {
		return "", translateErr(err)
	}

	return resp.Id, nil
}

// ListDownlinkQueue returns the pending downlink queue of a device
func (c *GRPCClient) ListDownlinkQueue(ctx context.Context, devEUI models.EUI64) ([]*models.DownlinkQueueItem, error) {
	resp, err := c.devices.GetQueue(ctx, &api.GetDeviceQueueItemsRequest{
		DevEui: devEUI.String(),
	})
	if err != nil {
		return nil, translateErr(err)
	}

	items := make([]*models.DownlinkQueueItem, len(resp.Result))
	for i, item := range resp.Result {
		items[i] = queueItemFromProto(item)
	}

	return items, nil
}

// FlushDownlinkQueue removes all pending downlinks of a device
func (c *GRPCClient) FlushDownlinkQueue(ctx context.Context, devEUI models.EUI64) error {
	_, err := c.devices.FlushQueue(ctx, &api.FlushDeviceQueueRequest{
		DevEui: devEUI.String(),
	})
	if err != nil {
		return translateErr(err)
	}

	return nil
}

// translateErr maps RPC status codes to package errors. The original
// status message is preserved for the API error body.
func translateErr(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return err
	}
}
