package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casa/pkg/api/types"
	"casa/pkg/db"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db *db.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{db: database}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and its database
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := "healthy"
	dbStatus := "connected"
	httpStatus := http.StatusOK

	version, err := h.db.SchemaVersion(ctx)
	if err != nil {
		status = "degraded"
		dbStatus = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:        status,
		Database:      dbStatus,
		SchemaVersion: version,
		Timestamp:     time.Now(),
	})
}
