package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the Casa service and its database"),
		),
		s.handleGetHealth,
	)

	// List switches
	s.mcpServer.AddTool(
		mcp.NewTool("list_switches",
			mcp.WithDescription("List every switch in the inventory with its live state"),
		),
		s.handleListSwitches,
	)

	// Get switch
	s.mcpServer.AddTool(
		mcp.NewTool("get_switch",
			mcp.WithDescription("Get detailed information about one switch by id or name"),
			mcp.WithString("switch",
				mcp.Required(),
				mcp.Description("Switch id or name"),
			),
		),
		s.handleGetSwitch,
	)

	// Turn on
	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn a switch on"),
			mcp.WithString("switch",
				mcp.Required(),
				mcp.Description("Switch id or name"),
			),
		),
		s.handleTurnOn,
	)

	// Turn off
	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn a switch off"),
			mcp.WithString("switch",
				mcp.Required(),
				mcp.Description("Switch id or name"),
			),
		),
		s.handleTurnOff,
	)

	// Toggle
	s.mcpServer.AddTool(
		mcp.NewTool("toggle_switch",
			mcp.WithDescription("Flip a switch to the opposite of its current state"),
			mcp.WithString("switch",
				mcp.Required(),
				mcp.Description("Switch id or name"),
			),
		),
		s.handleToggleSwitch,
	)

	// Run discovery
	s.mcpServer.AddTool(
		mcp.NewTool("run_discovery",
			mcp.WithDescription("Probe the local network for WeMo switches and reconcile the inventory"),
		),
		s.handleRunDiscovery,
	)

	// Away mode
	s.mcpServer.AddTool(
		mcp.NewTool("get_away_mode",
			mcp.WithDescription("Get the away-mode lighting schedule settings"),
		),
		s.handleGetAwayMode,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_away_mode",
			mcp.WithDescription("Replace the away-mode lighting schedule settings"),
			mcp.WithBoolean("enabled",
				mcp.Required(),
				mcp.Description("Whether the away-mode scheduler runs"),
			),
			mcp.WithNumber("sunset_window_minutes",
				mcp.Description("Half-width of the lights-on window centered on sunset (default 30)"),
			),
			mcp.WithNumber("off_time_hour",
				mcp.Description("Hour of the nightly lights-off time, 0-23 (default 22)"),
			),
			mcp.WithNumber("off_time_minute",
				mcp.Description("Minute of the nightly lights-off time, 0-59 (default 30)"),
			),
			mcp.WithNumber("off_window_minutes",
				mcp.Description("Half-width of the lights-off window (default 30)"),
			),
		),
		s.handleSetAwayMode,
	)
}
