package domain

import "time"

// DeviceSession is one active device session reported by the session
// collaborator for a courier.
type DeviceSession struct {
	DeviceID   string    `json:"device_id"`
	IPAddress  string    `json:"ip_address"`
	LastSeen   time.Time `json:"last_seen"`
	DeviceInfo string    `json:"device_info,omitempty"`
}
