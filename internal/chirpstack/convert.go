package chirpstack

import (
	"time"

	"github.com/chirpstack/chirpstack/api/go/v4/api"
	"github.com/chirpstack/chirpstack/api/go/v4/common"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/lorawan-server/chirpstack-rest-gateway/internal/models"
)

// tsToTime converts a protobuf timestamp to *time.Time
func tsToTime(ts *timestamppb.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.AsTime()
	return &t
}

func applicationFromListItem(item *api.ApplicationListItem) *models.Application {
	return &models.Application{
		ID:          item.Id,
		Name:        item.Name,
		Description: item.Description,
		CreatedAt:   tsToTime(item.CreatedAt),
		UpdatedAt:   tsToTime(item.UpdatedAt),
	}
}

func applicationFromProto(resp *api.GetApplicationResponse) *models.Application {
	app := &models.Application{
		CreatedAt: tsToTime(resp.CreatedAt),
		UpdatedAt: tsToTime(resp.UpdatedAt),
	}

	if resp.Application != nil {
		app.ID = resp.Application.Id
		app.Name = resp.Application.Name
		app.Description = resp.Application.Description
		app.TenantID = resp.Application.TenantId
	}

	return app
}

func deviceStatusFromProto(st *api.DeviceStatus) *models.DeviceStatus {
	if st == nil {
		return nil
	}

	return &models.DeviceStatus{
		Margin:              int(st.Margin),
		ExternalPowerSource: st.ExternalPowerSource,
		BatteryLevel:        float64(st.BatteryLevel),
	}
}

func deviceFromListItem(item *api.DeviceListItem) *models.Device {
	devEUI, _ := models.ParseEUI64(item.DevEui)

	return &models.Device{
		DevEUI:            devEUI,
		Name:              item.Name,
		Description:       item.Description,
		DeviceProfileID:   item.DeviceProfileId,
		DeviceProfileName: item.DeviceProfileName,
		Status:            deviceStatusFromProto(item.DeviceStatus),
		LastSeenAt:        tsToTime(item.LastSeenAt),
		CreatedAt:         tsToTime(item.CreatedAt),
		UpdatedAt:         tsToTime(item.UpdatedAt),
	}
}

func deviceFromProto(resp *api.GetDeviceResponse) *models.Device {
	device := &models.Device{
		ClassEnabled: resp.ClassEnabled.String(),
		Status:       deviceStatusFromProto(resp.DeviceStatus),
		LastSeenAt:   tsToTime(resp.LastSeenAt),
		CreatedAt:    tsToTime(resp.CreatedAt),
		UpdatedAt:    tsToTime(resp.UpdatedAt),
	}

	if resp.Device != nil {
		devEUI, _ := models.ParseEUI64(resp.Device.DevEui)
		device.DevEUI = devEUI
		device.Name = resp.Device.Name
		device.Description = resp.Device.Description
		device.ApplicationID = resp.Device.ApplicationId
		device.DeviceProfileID = resp.Device.DeviceProfileId
	}

	return device
}

func locationFromProto(loc *common.Location) *models.Location {
	if loc == nil {
		return nil
	}

	return &models.Location{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Altitude:  loc.Altitude,
		Source:    loc.Source.String(),
		Accuracy:  float64(loc.Accuracy),
	}
}

func gatewayFromListItem(item *api.GatewayListItem) *models.Gateway {
	gatewayID, _ := models.ParseEUI64(item.GatewayId)

	return &models.Gateway{
		GatewayID:   gatewayID,
		Name:        item.Name,
		Description: item.Description,
		TenantID:    item.TenantId,
		Location:    locationFromProto(item.Location),
		State:       item.State.String(),
		LastSeenAt:  tsToTime(item.LastSeenAt),
		CreatedAt:   tsToTime(item.CreatedAt),
		UpdatedAt:   tsToTime(item.UpdatedAt),
	}
}

func gatewayFromProto(resp *api.GetGatewayResponse) *models.Gateway {
	gateway := &models.Gateway{
		LastSeenAt: tsToTime(resp.LastSeenAt),
		CreatedAt:  tsToTime(resp.CreatedAt),
		UpdatedAt:  tsToTime(resp.UpdatedAt),
	}

	if resp.Gateway != nil {
		gatewayID, _ := models.ParseEUI64(resp.Gateway.GatewayId)
		gateway.GatewayID = gatewayID
		gateway.Name = resp.Gateway.Name
		gateway.Description = resp.Gateway.Description
		gateway.TenantID = resp.Gateway.TenantId
		gateway.Location = locationFromProto(resp.Gateway.Location)
	}

	return gateway
}

func deviceProfileFromListItem(item *api.DeviceProfileListItem) *models.DeviceProfile {
	return &models.DeviceProfile{
		ID:                item.Id,
		Name:              item.Name,
		Region:            item.Region.String(),
		MacVersion:        item.MacVersion.String(),
		RegParamsRevision: item.RegParamsRevision.String(),
		SupportsOTAA:      item.SupportsOtaa,
		SupportsClassB:    item.SupportsClassB,
		SupportsClassC:    item.SupportsClassC,
		CreatedAt:         tsToTime(item.CreatedAt),
		UpdatedAt:         tsToTime(item.UpdatedAt),
	}
}

func deviceProfileFromProto(resp *api.GetDeviceProfileResponse) *models.DeviceProfile {
	profile := &models.DeviceProfile{
		CreatedAt: tsToTime(resp.CreatedAt),
		UpdatedAt: tsToTime(resp.UpdatedAt),
	}

	if dp := resp.DeviceProfile; dp != nil {
		profile.ID = dp.Id
		profile.Name = dp.Name
		profile.Description = dp.Description
		profile.TenantID = dp.TenantId
		profile.Region = dp.Region.String()
		profile.MacVersion = dp.MacVersion.String()
		profile.RegParamsRevision = dp.RegParamsRevision.String()
		profile.PayloadCodecRuntime = dp.PayloadCodecRuntime.String()
		profile.SupportsOTAA = dp.SupportsOtaa
		profile.SupportsClassB = dp.SupportsClassB
		profile.SupportsClassC = dp.SupportsClassC
	}

	return profile
}

func queueItemFromProto(item *api.DeviceQueueItem) *models.DownlinkQueueItem {
	devEUI, _ := models.ParseEUI64(item.DevEui)

	return &models.DownlinkQueueItem{
		ID:        item.Id,
		DevEUI:    devEUI,
		Confirmed: item.Confirmed,
		FPort:     uint8(item.FPort),
		Data:      item.Data,
		IsPending: item.IsPending,
		FCntDown:  item.FCntDown,
	}
}
