package models

import (
	"time"
)

// Device represents a LoRaWAN device as reported by the network server
type Device struct {
	DevEUI            EUI64         `json:"devEui"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	ApplicationID     string        `json:"applicationId,omitempty"`
	DeviceProfileID   string        `json:"deviceProfileId,omitempty"`
	DeviceProfileName string        `json:"deviceProfileName,omitempty"`

	// Enabled device class (A, B or C)
	ClassEnabled string `json:"classEnabled,omitempty"`

	// Status
	Status     *DeviceStatus `json:"status,omitempty"`
	LastSeenAt *time.Time    `json:"lastSeenAt,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DeviceStatus represents the last reported device status
type DeviceStatus struct {
	Margin              int     `json:"margin"`
	ExternalPowerSource bool    `json:"externalPowerSource"`
	BatteryLevel        float64 `json:"batteryLevel"`
}
