package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casa/pkg/api/types"
	"casa/pkg/db"
	"casa/pkg/fleet"
)

// SwitchesHandler handles inventory endpoints
type SwitchesHandler struct {
	switches  db.SwitchStore
	commander *fleet.Commander
}

// NewSwitchesHandler creates a new switches handler
func NewSwitchesHandler(switches db.SwitchStore, commander *fleet.Commander) *SwitchesHandler {
	return &SwitchesHandler{switches: switches, commander: commander}
}

// lookupSwitch resolves the :id path parameter to an inventory record,
// writing the error response itself when the record cannot be found.
func lookupSwitch(c *gin.Context, switches db.SwitchStore) (*db.Switch, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_id",
			Message: "Switch id must be an integer",
		})
		return nil, false
	}
	sw, err := switches.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSwitchNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{
				Error:   "not_found",
				Message: "Switch not found",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "store_error",
			Message: err.Error(),
		})
		return nil, false
	}
	return sw, true
}

// ListSwitches handles GET /switches
// @Summary      List all switches
// @Description  Returns every switch in the inventory. Enabled switches are polled for their live state; disabled ones are listed as-is.
// @Tags         switches
// @Produce      json
// @Success      200  {object}  types.ListSwitchesResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /switches [get]
func (h *SwitchesHandler) ListSwitches(c *gin.Context) {
	ctx := c.Request.Context()
	all, err := h.switches.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "store_error",
			Message: err.Error(),
		})
		return
	}

	online := 0
	result := make([]types.Switch, 0, len(all))
	for _, sw := range all {
		out := types.NewSwitch(sw)
		if !sw.Disabled {
			state := h.commander.Poll(ctx, sw)
			reachable := state != fleet.StateUnknown
			out.State = &state
			out.Reachable = &reachable
			if reachable {
				online++
			}
		}
		result = append(result, out)
	}

	c.JSON(http.StatusOK, types.ListSwitchesResponse{
		Switches: result,
		Count:    len(result),
		Online:   online,
	})
}

// GetSwitch handles GET /switches/:id
// @Summary      Get switch details
// @Tags         switches
// @Produce      json
// @Param        id   path      int  true  "Switch id"
// @Success      200  {object}  types.SwitchResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid id"
// @Failure      404  {object}  types.ErrorResponse  "Switch not found"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /switches/{id} [get]
func (h *SwitchesHandler) GetSwitch(c *gin.Context) {
	sw, ok := lookupSwitch(c, h.switches)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.SwitchResponse{Switch: types.NewSwitch(sw)})
}

// UpdateSwitch handles PATCH /switches/:id
// @Summary      Update a switch
// @Description  Renames a switch and/or toggles whether automation addresses it
// @Tags         switches
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "Switch id"
// @Param        request  body      types.UpdateSwitchRequest   true  "Fields to change"
// @Success      200      {object}  types.SwitchResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Switch not found"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /switches/{id} [patch]
func (h *SwitchesHandler) UpdateSwitch(c *gin.Context) {
	sw, ok := lookupSwitch(c, h.switches)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req types.UpdateSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}
	if req.Name == nil && req.Disabled == nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide name and/or disabled",
		})
		return
	}
	if req.Name != nil && *req.Name == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "name must not be empty",
		})
		return
	}

	if req.Name != nil {
		if err := h.switches.Rename(ctx, sw.ID, *req.Name); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "store_error",
				Message: err.Error(),
			})
			return
		}
		sw.Name = *req.Name
	}
	if req.Disabled != nil {
		if err := h.switches.SetDisabled(ctx, sw.ID, *req.Disabled); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "store_error",
				Message: err.Error(),
			})
			return
		}
		sw.Disabled = *req.Disabled
	}

	c.JSON(http.StatusOK, types.SwitchResponse{Switch: types.NewSwitch(sw)})
}
