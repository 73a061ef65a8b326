package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"casa/pkg/api/schema"
	"casa/pkg/api/types"
	"casa/pkg/db"
)

// AwayModeHandler handles the away-mode settings endpoints
type AwayModeHandler struct {
	settings  db.SettingsStore
	validator *schema.Validator
}

// NewAwayModeHandler creates a new away-mode handler
func NewAwayModeHandler(settings db.SettingsStore, validator *schema.Validator) *AwayModeHandler {
	return &AwayModeHandler{settings: settings, validator: validator}
}

// Get handles GET /awaymode
// @Summary      Get away-mode settings
// @Tags         awaymode
// @Produce      json
// @Success      200  {object}  types.AwayModeResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /awaymode [get]
func (h *AwayModeHandler) Get(c *gin.Context) {
	cfg, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "store_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.NewAwayMode(cfg))
}

// Update handles PUT /awaymode
// @Summary      Replace away-mode settings
// @Description  Replaces the operator-editable settings. The per-day action markers are owned by the scheduler and cannot be set here.
// @Tags         awaymode
// @Accept       json
// @Produce      json
// @Param        request  body      types.UpdateAwayModeRequest  true  "New settings"
// @Success      200      {object}  types.AwayModeResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid or out-of-range payload"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /awaymode [put]
func (h *AwayModeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	// Decode to a map first so the schema sees the raw payload,
	// unknown fields included.
	var raw map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}
	if err := h.validator.ValidateAwayMode(raw); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	var req types.UpdateAwayModeRequest
	payload, _ := json.Marshal(raw)
	if err := json.Unmarshal(payload, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	cfg, err := h.settings.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "store_error",
			Message: err.Error(),
		})
		return
	}
	cfg.Enabled = req.Enabled
	cfg.SunsetWindowMinutes = req.SunsetWindowMinutes
	cfg.OffTimeHour = req.OffTimeHour
	cfg.OffTimeMinute = req.OffTimeMinute
	cfg.OffWindowMinutes = req.OffWindowMinutes

	if err := h.settings.Update(ctx, cfg); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "store_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.NewAwayMode(cfg))
}
