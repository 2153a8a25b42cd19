package health

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"ddd-course/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Pinger a dependency the service needs to be ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// DatabasePinger pings the connection pool behind a GORM handle
func DatabasePinger(db *gorm.DB) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		return sqlDB.PingContext(ctx)
	})
}

// Controller Health check controller
type Controller struct {
	config    *config.Config
	checks    map[string]Pinger
	startTime time.Time
}

// NewController Create health check controller.
// checks maps a dependency name ("database", "redis") to its pinger; nil entries are skipped.
func NewController(cfg *config.Config, checks map[string]Pinger) *Controller {
	filtered := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			filtered[name] = p
		}
	}
	return &Controller{
		config:    cfg,
		checks:    filtered,
		startTime: time.Now(),
	}
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Storage   string           `json:"storage"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health Complete health check
func (c *Controller) Health(ctx *gin.Context) {
	checks, healthy := c.runChecks(ctx.Request.Context())

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	resp := HealthResponse{
		Status:    status,
		Version:   c.config.App.Version,
		Storage:   c.config.Database.Type,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	// Only expose system info in development mode
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		resp.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	statusCode := http.StatusOK
	if !healthy {
		statusCode = http.StatusServiceUnavailable
	}
	ctx.JSON(statusCode, resp)
}

// Liveness Liveness check (Kubernetes liveness probe)
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness Readiness check (Kubernetes readiness probe)
func (c *Controller) Readiness(ctx *gin.Context) {
	checks, healthy := c.runChecks(ctx.Request.Context())
	if !healthy {
		var failed []string
		for name, check := range checks {
			if check.Status != "healthy" {
				failed = append(failed, name)
			}
		}
		sort.Strings(failed)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"failed": failed,
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (c *Controller) runChecks(ctx context.Context) (map[string]Check, bool) {
	checks := make(map[string]Check, len(c.checks))
	healthy := true
	for name, pinger := range c.checks {
		check := ping(ctx, pinger)
		if check.Status != "healthy" {
			healthy = false
		}
		checks[name] = check
	}
	return checks, healthy
}

func ping(ctx context.Context, pinger Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := pinger.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}
