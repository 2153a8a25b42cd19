package api

import (
	"net/http"

	"ddd-course/api/course"
	"ddd-course/api/health"
	"ddd-course/api/middleware"
	"ddd-course/api/order"
	"ddd-course/api/response"
	"ddd-course/api/shipment"
	"ddd-course/config"
	"ddd-course/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine             *gin.Engine
	config             *config.Config
	healthController   *health.Controller
	courseController   *course.Controller
	shipmentController *shipment.Controller
	orderController    *order.Controller
}

// NewRouter Create route configuration
func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	courseController *course.Controller,
	shipmentController *shipment.Controller,
	orderController *order.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Order matters: the request id must exist before anything logs
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	if cfg.Tracing.Enabled {
		engine.Use(middleware.TracingMiddleware(cfg.App.Name))
	}
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:             engine,
		config:             cfg,
		healthController:   healthController,
		courseController:   courseController,
		shipmentController: shipmentController,
		orderController:    orderController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.courseController.RegisterRoutes(apiGroup)
		r.shipmentController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		response.Abort(c, errors.NotFound("route "+c.Request.Method+" "+c.Request.URL.Path+" not found"))
	})

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"storage": r.config.Database.Type,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
