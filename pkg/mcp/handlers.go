package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"casa/pkg/db"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := "healthy"
	dbStatus := "connected"

	version, err := s.db.SchemaVersion(ctx)
	if err != nil {
		status = "unhealthy"
		dbStatus = "unavailable"
	}

	out := GetHealthOutput{
		Status:        status,
		Database:      dbStatus,
		SchemaVersion: version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListSwitches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := s.db.Switches().List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list switches: %s", err)), nil
	}

	infos := make([]SwitchInfo, 0, len(all))
	for _, sw := range all {
		infos = append(infos, switchToInfo(sw, s.commander.Poll(ctx, sw)))
	}

	out := ListSwitchesOutput{Switches: infos, Count: len(infos)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetSwitch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sw, err := s.resolveSwitch(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := GetSwitchOutput{Switch: switchToInfo(sw, s.commander.Poll(ctx, sw))}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sw, err := s.resolveSwitch(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.commander.TurnOn(ctx, sw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to turn on switch: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(CommandOutput{Switch: sw.Name, State: 1})), nil
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sw, err := s.resolveSwitch(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.commander.TurnOff(ctx, sw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to turn off switch: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(CommandOutput{Switch: sw.Name, State: 0})), nil
}

func (s *Server) handleToggleSwitch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sw, err := s.resolveSwitch(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.commander.Toggle(ctx, sw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle switch: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(CommandOutput{Switch: sw.Name, State: state})), nil
}

func (s *Server) handleRunDiscovery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.runner.Sweep(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery sweep failed: %s", err)), nil
	}
	out := RunDiscoveryOutput{Status: "completed", Summary: summary}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetAwayMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.db.Settings().Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load away mode settings: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(settingsToOutput(cfg))), nil
}

func (s *Server) handleSetAwayMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.db.Settings().Get(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load away mode settings: %s", err)), nil
	}

	args := request.GetArguments()
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultError(`required parameter "enabled" must be a boolean`), nil
	}

	// Absent optional fields keep their stored values.
	payload := map[string]any{
		"enabled":               enabled,
		"sunset_window_minutes": float64(cfg.SunsetWindowMinutes),
		"off_time_hour":         float64(cfg.OffTimeHour),
		"off_time_minute":       float64(cfg.OffTimeMinute),
		"off_window_minutes":    float64(cfg.OffWindowMinutes),
	}
	for _, key := range []string{"sunset_window_minutes", "off_time_hour", "off_time_minute", "off_window_minutes"} {
		if v, ok := args[key].(float64); ok {
			payload[key] = v
		}
	}
	if err := s.validator.ValidateAwayMode(payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	cfg.Enabled = enabled
	cfg.SunsetWindowMinutes = int(payload["sunset_window_minutes"].(float64))
	cfg.OffTimeHour = int(payload["off_time_hour"].(float64))
	cfg.OffTimeMinute = int(payload["off_time_minute"].(float64))
	cfg.OffWindowMinutes = int(payload["off_window_minutes"].(float64))

	if err := s.db.Settings().Update(ctx, cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save away mode settings: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(settingsToOutput(cfg))), nil
}

// --- helpers ---

// resolveSwitch looks the "switch" argument up as an inventory id
// first, then as a case-insensitive name.
func (s *Server) resolveSwitch(ctx context.Context, request mcp.CallToolRequest) (*db.Switch, error) {
	ref, err := requiredString(request, "switch")
	if err != nil {
		return nil, err
	}

	store := s.db.Switches()
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		sw, err := store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("switch %d not found", id)
		}
		return sw, nil
	}

	all, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list switches: %w", err)
	}
	for _, sw := range all {
		if strings.EqualFold(sw.Name, ref) {
			return sw, nil
		}
	}
	return nil, fmt.Errorf("no switch named %q", ref)
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return str, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
