package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casa/pkg/api/types"
	"casa/pkg/discovery"
)

// DiscoveryHandler handles on-demand discovery sweeps
type DiscoveryHandler struct {
	runner *discovery.Runner
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(runner *discovery.Runner) *DiscoveryHandler {
	return &DiscoveryHandler{runner: runner}
}

// Run handles POST /discovery/run
// @Summary      Run a discovery sweep
// @Description  Probes the LAN for switches and reconciles results into the inventory
// @Tags         discovery
// @Produce      json
// @Success      200  {object}  types.DiscoveryRunResponse
// @Failure      500  {object}  types.ErrorResponse  "Sweep failed"
// @Router       /discovery/run [post]
func (h *DiscoveryHandler) Run(c *gin.Context) {
	summary, err := h.runner.Sweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "discovery_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DiscoveryRunResponse{
		Status:  "completed",
		Summary: summary,
	})
}
