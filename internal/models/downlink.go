package models

// MaxDownlinkPayload is the maximum downlink payload size in bytes
const MaxDownlinkPayload = 242

// DownlinkQueueItem represents one item in a device's downlink queue.
// Data marshals as base64 in JSON.
type DownlinkQueueItem struct {
	ID        string `json:"id,omitempty"`
	DevEUI    EUI64  `json:"devEui"`
	Confirmed bool   `json:"confirmed"`
	FPort     uint8  `json:"fPort"`
	Data      []byte `json:"data"`
	IsPending bool   `json:"isPending,omitempty"`
	FCntDown  uint32 `json:"fCntDown,omitempty"`
}
