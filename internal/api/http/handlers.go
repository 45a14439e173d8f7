package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/resthub/internal/api/middleware"
	"github.com/GriffinCanCode/resthub/internal/domain/files"
	"github.com/GriffinCanCode/resthub/internal/domain/users"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/logging"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/reporting"
	"github.com/GriffinCanCode/resthub/internal/shared/errs"
)

// DefaultMaxBodyBytes caps PUT bodies when no limit is configured
const DefaultMaxBodyBytes int64 = 10 << 20

// Handlers contains all HTTP handlers
type Handlers struct {
	files        *files.Service
	users        *users.Service
	logger       *logging.Logger
	reporter     *reporting.Reporter
	metrics      *monitoring.Metrics
	backend      string
	maxBodyBytes int64
}

// NewHandlers creates a new handler set. A nil logger or reporter disables
// logging or reporting respectively.
func NewHandlers(fileService *files.Service, userService *users.Service, logger *logging.Logger, reporter *reporting.Reporter) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	if reporter == nil {
		reporter = reporting.Disabled()
	}
	return &Handlers{
		files:        fileService,
		users:        userService,
		logger:       logger.Component("http"),
		reporter:     reporter,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// WithMaxBodyBytes limits the size of file update bodies
func (h *Handlers) WithMaxBodyBytes(n int64) *Handlers {
	if n > 0 {
		h.maxBodyBytes = n
	}
	return h
}

// WithHealth adds request totals and the user backend name to /health
func (h *Handlers) WithHealth(metrics *monitoring.Metrics, backend string) *Handlers {
	h.metrics = metrics
	h.backend = backend
	return h
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	file := r.Group("/api/file")
	file.GET("", h.ListFiles)
	file.GET("/:filename", h.GetFile)
	file.GET("/:filename/meta", h.StatFile)
	file.POST("/:filename", h.CreateFile)
	file.PUT("/:filename", h.UpdateFile)
	file.DELETE("/:filename", h.DeleteFile)

	user := r.Group("/api/users")
	user.GET("", h.ListUsers)
	user.GET("/:id", h.GetUser)
	user.POST("", h.CreateUser)
	user.PUT("/:id", h.UpdateUser)
	user.DELETE("/:id", h.DeleteUser)
}

// HealthSummary provides high-level request metrics
type HealthSummary struct {
	TotalRequests    int64   `json:"total_requests"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
	ErrorRate        float64 `json:"error_rate"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"base_dir": h.files.BaseDir(),
	}
	if h.backend != "" {
		body["users_backend"] = h.backend
	}
	if h.metrics != nil {
		body["summary"] = h.summary()
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) summary() HealthSummary {
	snapshot := h.metrics.Snapshot()

	var avgLatency, errorRate float64
	if snapshot.TotalRequests > 0 {
		avgLatency = snapshot.TotalDuration / float64(snapshot.TotalRequests) * 1000
		errorRate = float64(snapshot.TotalErrors) / float64(snapshot.TotalRequests)
	}

	return HealthSummary{
		TotalRequests:    snapshot.TotalRequests,
		AverageLatencyMs: avgLatency,
		ErrorRate:        errorRate,
		UptimeSeconds:    h.metrics.UptimeSeconds(),
	}
}

// errorText is the client-facing body for err. Internal faults carry the
// underlying detail after the message.
func errorText(err error) string {
	msg := errs.Message(err)
	if errs.KindOf(err) != errs.Internal {
		return msg
	}
	detail := errs.Detail(err)
	switch {
	case msg == "":
		return detail
	case detail == "":
		return msg
	default:
		return msg + ": " + detail
	}
}

// observe logs err and reports internal faults
func (h *Handlers) observe(c *gin.Context, err error) {
	_ = c.Error(err)

	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(c.Request.Context())),
		zap.String("route", c.FullPath()),
		zap.String("kind", errs.KindOf(err).String()),
		zap.Error(err),
	}
	if errs.KindOf(err) != errs.Internal {
		h.logger.Debug("request rejected", fields...)
		return
	}

	h.logger.Error("operation failed", fields...)
	h.reporter.CaptureError(c.Request.Context(), err, map[string]string{
		"request_id": middleware.GetRequestID(c.Request.Context()),
		"route":      c.FullPath(),
		"method":     c.Request.Method,
	})
}

// fail writes err as text/plain
func (h *Handlers) fail(c *gin.Context, err error) {
	h.observe(c, err)
	c.String(errs.HTTPStatus(err), errorText(err))
}

// failJSON writes err as {"error": ...}
func (h *Handlers) failJSON(c *gin.Context, err error) {
	h.observe(c, err)
	c.JSON(errs.HTTPStatus(err), gin.H{"error": errorText(err)})
}
