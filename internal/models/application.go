package models

import (
	"time"
)

// Application represents an application record owned by the network server.
// The gateway passes it through without storing or mutating it.
type Application struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TenantID    string     `json:"tenantId,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
