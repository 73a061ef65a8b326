package types

import (
	"time"

	"casa/pkg/db"
	"casa/pkg/discovery"
)

// --- Request DTOs ---

// UpdateSwitchRequest is the request body for PATCH /switches/:id.
// Both fields are optional; absent fields are left untouched.
type UpdateSwitchRequest struct {
	Name     *string `json:"name"`
	Disabled *bool   `json:"disabled"`
}

// UpdateAwayModeRequest is the request body for PUT /awaymode. The
// payload is validated against a JSON Schema before binding, so every
// field is required here.
type UpdateAwayModeRequest struct {
	Enabled             bool `json:"enabled"`
	SunsetWindowMinutes int  `json:"sunset_window_minutes"`
	OffTimeHour         int  `json:"off_time_hour"`
	OffTimeMinute       int  `json:"off_time_minute"`
	OffWindowMinutes    int  `json:"off_window_minutes"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status        string    `json:"status"`
	Database      string    `json:"database"`
	SchemaVersion int       `json:"schema_version,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Switch is the API view of an inventory record.
type Switch struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Hostname        string     `json:"hostname,omitempty"`
	IPAddress       string     `json:"ip_address"`
	Port            int        `json:"port"`
	Model           string     `json:"model,omitempty"`
	ModelName       string     `json:"model_name,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	UDN             string     `json:"udn,omitempty"`
	MACAddress      string     `json:"mac_address,omitempty"`
	Manufacturer    string     `json:"manufacturer,omitempty"`
	FirmwareVersion string     `json:"firmware_version,omitempty"`
	DateAdded       time.Time  `json:"date_added"`
	LastSeen        *time.Time `json:"last_seen,omitempty"`
	Disabled        bool       `json:"disabled"`

	// State and Reachable are set only when the listing polled the
	// device; disabled switches are listed without live state.
	State     *int  `json:"state,omitempty"`
	Reachable *bool `json:"reachable,omitempty"`
}

// NewSwitch maps a database record to its API view.
func NewSwitch(sw *db.Switch) Switch {
	out := Switch{
		ID:              sw.ID,
		Name:            sw.Name,
		Hostname:        sw.Hostname,
		IPAddress:       sw.IPAddress,
		Port:            sw.Port,
		Model:           sw.Model,
		ModelName:       sw.ModelName,
		SerialNumber:    sw.SerialNumber,
		UDN:             sw.UDN,
		MACAddress:      sw.MACAddress,
		Manufacturer:    sw.Manufacturer,
		FirmwareVersion: sw.FirmwareVersion,
		DateAdded:       sw.DateAdded,
		Disabled:        sw.Disabled,
	}
	if !sw.LastSeen.IsZero() {
		seen := sw.LastSeen
		out.LastSeen = &seen
	}
	return out
}

// ListSwitchesResponse is returned from GET /switches. Online counts
// the enabled switches that answered the poll.
type ListSwitchesResponse struct {
	Switches []Switch `json:"switches"`
	Count    int      `json:"count"`
	Online   int      `json:"online"`
}

// SwitchResponse is returned from GET /switches/:id
type SwitchResponse struct {
	Switch Switch `json:"switch"`
}

// StatusResponse is returned from GET /switches/:id/status. State is
// the raw binary state the device reported, or -1 when unreachable.
type StatusResponse struct {
	Switch    string    `json:"switch"`
	State     int       `json:"state"`
	Reachable bool      `json:"reachable"`
	Timestamp time.Time `json:"timestamp"`
}

// ToggleResponse is returned from POST /switches/:id/toggle
type ToggleResponse struct {
	Switch    string    `json:"switch"`
	State     int       `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// DiscoveryRunResponse is returned from POST /discovery/run
type DiscoveryRunResponse struct {
	Status  string            `json:"status"`
	Summary discovery.Summary `json:"summary"`
}

// AwayModeResponse is returned from GET and PUT /awaymode
type AwayModeResponse struct {
	Enabled             bool   `json:"enabled"`
	SunsetWindowMinutes int    `json:"sunset_window_minutes"`
	OffTimeHour         int    `json:"off_time_hour"`
	OffTimeMinute       int    `json:"off_time_minute"`
	OffWindowMinutes    int    `json:"off_window_minutes"`
	LastSunsetOn        string `json:"last_sunset_on,omitempty"`
	LastNightOff        string `json:"last_night_off,omitempty"`
}

// NewAwayMode maps the settings row to its API view.
func NewAwayMode(s *db.AwayModeSettings) AwayModeResponse {
	return AwayModeResponse{
		Enabled:             s.Enabled,
		SunsetWindowMinutes: s.SunsetWindowMinutes,
		OffTimeHour:         s.OffTimeHour,
		OffTimeMinute:       s.OffTimeMinute,
		OffWindowMinutes:    s.OffWindowMinutes,
		LastSunsetOn:        s.LastSunsetOn,
		LastNightOff:        s.LastNightOff,
	}
}
