package models

import (
	"time"
)

// DeviceProfile represents a device profile as reported by the network server
type DeviceProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TenantID    string `json:"tenantId,omitempty"`

	// Regional and MAC settings
	Region            string `json:"region,omitempty"`
	MacVersion        string `json:"macVersion,omitempty"`
	RegParamsRevision string `json:"regParamsRevision,omitempty"`

	// Codec settings
	PayloadCodecRuntime string `json:"payloadCodecRuntime,omitempty"`

	// Capabilities
	SupportsOTAA   bool `json:"supportsOtaa"`
	SupportsClassB bool `json:"supportsClassB"`
	SupportsClassC bool `json:"supportsClassC"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
