// Package handlers holds the gin handlers for the quote API and the
// operational endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-service/internal/ports"
)

// BuildInfo is injected at build time via ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills GoVersion from the running binary.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandler serves /health and the /-/ probe endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	started   time.Time
	now       func() time.Time
}

// NewHealthHandler creates a HealthHandler. Uptime is measured from here.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		started:   time.Now(),
		now:       time.Now,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

// Health answers {"status":"ok"} while the process is serving. It backs
// both GET /health and the /-/live probe and never consults dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs the registered checks. A degraded result still answers
// 200 so load balancers keep routing; only an unhealthy one answers 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if !result.Status.Ready() {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

type buildResponse struct {
	BuildInfo
	Uptime string `json:"uptime"`
}

// Build reports the build metadata and process uptime.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, buildResponse{
		BuildInfo: h.buildInfo,
		Uptime:    h.now().Sub(h.started).Truncate(time.Second).String(),
	})
}

// RegisterHealthRoutesOnEngine registers GET /health and the probes:
//
//	GET /-/live     liveness
//	GET /-/ready    readiness
//	GET /-/build    build metadata
//	GET /-/metrics  Prometheus exposition
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	engine.GET("/health", h.Health)

	probes := engine.Group("/-")
	probes.GET("/live", h.Health)
	probes.GET("/ready", h.Readiness)
	probes.GET("/build", h.Build)
	probes.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
