package models

import (
	"time"
)

// Gateway represents a LoRaWAN gateway as reported by the network server
type Gateway struct {
	GatewayID   EUI64  `json:"gatewayId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TenantID    string `json:"tenantId,omitempty"`

	// Location
	Location *Location `json:"location,omitempty"`

	// Connection state (NEVER_SEEN, ONLINE, OFFLINE)
	State      string     `json:"state,omitempty"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Location represents a geographic location
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Source    string  `json:"source,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}
