// Package api exposes the switch fleet over a JSON HTTP interface.
package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"casa/pkg/api/handlers"
	"casa/pkg/api/schema"
	"casa/pkg/db"
	"casa/pkg/discovery"
	"casa/pkg/fleet"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	db        *db.DB
	commander *fleet.Commander
	runner    *discovery.Runner
	validator *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, commander *fleet.Commander, runner *discovery.Runner) (*Router, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		db:        database,
		commander: commander,
		runner:    runner,
		validator: validator,
	}
	router.setupRoutes()
	return router, nil
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.db)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		discoveryHandler := handlers.NewDiscoveryHandler(r.runner)
		v1.POST("/discovery/run", discoveryHandler.Run)

		switchesHandler := handlers.NewSwitchesHandler(r.db.Switches(), r.commander)
		controlHandler := handlers.NewControlHandler(r.db.Switches(), r.commander)
		switches := v1.Group("/switches")
		{
			switches.GET("", switchesHandler.ListSwitches)
			switches.GET("/:id", switchesHandler.GetSwitch)
			switches.PATCH("/:id", switchesHandler.UpdateSwitch)

			switches.GET("/:id/status", controlHandler.Status)
			switches.POST("/:id/toggle", controlHandler.Toggle)
		}

		awayModeHandler := handlers.NewAwayModeHandler(r.db.Settings(), r.validator)
		v1.GET("/awaymode", awayModeHandler.Get)
		v1.PUT("/awaymode", awayModeHandler.Update)
	}
}

// Engine exposes the underlying Gin engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
