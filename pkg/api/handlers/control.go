package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casa/pkg/api/types"
	"casa/pkg/db"
	"casa/pkg/fleet"
	"casa/pkg/wemo"
)

// ControlHandler handles live device control endpoints
type ControlHandler struct {
	switches  db.SwitchStore
	commander *fleet.Commander
}

// NewControlHandler creates a new control handler
func NewControlHandler(switches db.SwitchStore, commander *fleet.Commander) *ControlHandler {
	return &ControlHandler{switches: switches, commander: commander}
}

func writeDeviceError(c *gin.Context, err error) {
	if errors.Is(err, wemo.ErrConnectivity) {
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "device_unreachable",
			Message: err.Error(),
		})
		return
	}
	if errors.Is(err, wemo.ErrProtocol) {
		c.JSON(http.StatusBadGateway, types.ErrorResponse{
			Error:   "device_protocol_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:   "device_error",
		Message: err.Error(),
	})
}

// Status handles GET /switches/:id/status
// @Summary      Get live switch state
// @Description  Polls the device; an unreachable switch reports state -1 rather than an error
// @Tags         switches
// @Produce      json
// @Param        id   path      int  true  "Switch id"
// @Success      200  {object}  types.StatusResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid id"
// @Failure      404  {object}  types.ErrorResponse  "Switch not found"
// @Router       /switches/{id}/status [get]
func (h *ControlHandler) Status(c *gin.Context) {
	sw, ok := lookupSwitch(c, h.switches)
	if !ok {
		return
	}

	state := h.commander.Poll(c.Request.Context(), sw)
	c.JSON(http.StatusOK, types.StatusResponse{
		Switch:    sw.Name,
		State:     state,
		Reachable: state != fleet.StateUnknown,
		Timestamp: time.Now(),
	})
}

// Toggle handles POST /switches/:id/toggle
// @Summary      Toggle a switch
// @Description  Flips the switch to the opposite of its current state
// @Tags         switches
// @Produce      json
// @Param        id   path      int  true  "Switch id"
// @Success      200  {object}  types.ToggleResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid id"
// @Failure      404  {object}  types.ErrorResponse  "Switch not found"
// @Failure      502  {object}  types.ErrorResponse  "Device answered garbage"
// @Failure      504  {object}  types.ErrorResponse  "Device unreachable"
// @Router       /switches/{id}/toggle [post]
func (h *ControlHandler) Toggle(c *gin.Context) {
	sw, ok := lookupSwitch(c, h.switches)
	if !ok {
		return
	}

	state, err := h.commander.Toggle(c.Request.Context(), sw)
	if err != nil {
		writeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ToggleResponse{
		Switch:    sw.Name,
		State:     state,
		Timestamp: time.Now(),
	})
}
