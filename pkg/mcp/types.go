package mcp

import (
	"casa/pkg/db"
	"casa/pkg/discovery"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status        string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Database      string `json:"database" jsonschema:"description=Database connection status"`
	SchemaVersion int    `json:"schema_version,omitempty" jsonschema:"description=Applied database schema version"`
	Timestamp     string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Switch Tools ---

// SwitchInfo represents a switch in tool outputs. State is the raw
// binary state the device reported, or -1 when it could not be reached.
type SwitchInfo struct {
	ID              int64  `json:"id" jsonschema:"description=Inventory id"`
	Name            string `json:"name" jsonschema:"description=Switch name"`
	IPAddress       string `json:"ip_address" jsonschema:"description=Last known address"`
	Port            int    `json:"port,omitempty" jsonschema:"description=Control port"`
	Model           string `json:"model,omitempty" jsonschema:"description=Device model number"`
	SerialNumber    string `json:"serial_number,omitempty" jsonschema:"description=Device serial number"`
	MACAddress      string `json:"mac_address,omitempty" jsonschema:"description=Device MAC address"`
	FirmwareVersion string `json:"firmware_version,omitempty" jsonschema:"description=Device firmware version"`
	Disabled        bool   `json:"disabled" jsonschema:"description=Excluded from automation when true"`
	State           int    `json:"state" jsonschema:"description=Live binary state (0 off, 1 on, 8 standby, -1 unknown)"`
}

// ListSwitchesOutput is the output for the list_switches tool
type ListSwitchesOutput struct {
	Switches []SwitchInfo `json:"switches" jsonschema:"description=All inventoried switches"`
	Count    int          `json:"count" jsonschema:"description=Total number of switches"`
}

// GetSwitchOutput is the output for the get_switch tool
type GetSwitchOutput struct {
	Switch SwitchInfo `json:"switch" jsonschema:"description=Switch information"`
}

// CommandOutput is the output for the turn_on, turn_off and
// toggle_switch tools
type CommandOutput struct {
	Switch string `json:"switch" jsonschema:"description=Switch name"`
	State  int    `json:"state" jsonschema:"description=Binary state after the command"`
}

// --- Discovery Tool ---

// RunDiscoveryOutput is the output for the run_discovery tool
type RunDiscoveryOutput struct {
	Status  string            `json:"status" jsonschema:"description=Sweep status"`
	Summary discovery.Summary `json:"summary" jsonschema:"description=What the sweep changed"`
}

// --- Away Mode Tools ---

// AwayModeOutput is the output for the get_away_mode and set_away_mode
// tools
type AwayModeOutput struct {
	Enabled             bool   `json:"enabled" jsonschema:"description=Whether the scheduler runs"`
	SunsetWindowMinutes int    `json:"sunset_window_minutes" jsonschema:"description=Half-width of the sunset lights-on window"`
	OffTimeHour         int    `json:"off_time_hour" jsonschema:"description=Hour of the nightly lights-off time"`
	OffTimeMinute       int    `json:"off_time_minute" jsonschema:"description=Minute of the nightly lights-off time"`
	OffWindowMinutes    int    `json:"off_window_minutes" jsonschema:"description=Half-width of the lights-off window"`
	LastSunsetOn        string `json:"last_sunset_on,omitempty" jsonschema:"description=Date the lights-on action last fired"`
	LastNightOff        string `json:"last_night_off,omitempty" jsonschema:"description=Date the lights-off action last fired"`
}

// settingsToOutput converts the settings row to tool output
func settingsToOutput(s *db.AwayModeSettings) AwayModeOutput {
	return AwayModeOutput{
		Enabled:             s.Enabled,
		SunsetWindowMinutes: s.SunsetWindowMinutes,
		OffTimeHour:         s.OffTimeHour,
		OffTimeMinute:       s.OffTimeMinute,
		OffWindowMinutes:    s.OffWindowMinutes,
		LastSunsetOn:        s.LastSunsetOn,
		LastNightOff:        s.LastNightOff,
	}
}

// switchToInfo converts an inventory record to tool output
func switchToInfo(sw *db.Switch, state int) SwitchInfo {
	return SwitchInfo{
		ID:              sw.ID,
		Name:            sw.Name,
		IPAddress:       sw.IPAddress,
		Port:            sw.Port,
		Model:           sw.Model,
		SerialNumber:    sw.SerialNumber,
		MACAddress:      sw.MACAddress,
		FirmwareVersion: sw.FirmwareVersion,
		Disabled:        sw.Disabled,
		State:           state,
	}
}
