package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/resthub/internal/api/http"
	"github.com/GriffinCanCode/resthub/internal/api/docs"
	"github.com/GriffinCanCode/resthub/internal/api/middleware"
	"github.com/GriffinCanCode/resthub/internal/domain/files"
	"github.com/GriffinCanCode/resthub/internal/domain/users"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/config"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/logging"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/reporting"
	"github.com/GriffinCanCode/resthub/internal/persistence"
	"github.com/GriffinCanCode/resthub/internal/shared/paths"
)

// Version is reported in the API description
const Version = "0.1.0"

// HTTP server timeouts
const (
	ReadTimeout  = 30 * time.Second
	WriteTimeout = 60 * time.Second
	IdleTimeout  = 120 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	reporter *reporting.Reporter
}

// Option customizes server construction
type Option func(*options)

type options struct {
	repo users.Repository
}

// WithRepository uses repo instead of opening the configured backend
func WithRepository(repo users.Repository) Option {
	return func(o *options) { o.repo = repo }
}

// New creates a new server instance
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing resthub server",
		zap.String("port", cfg.Server.Port),
		zap.String("base_dir", cfg.Files.BaseDir),
		zap.String("users_backend", cfg.Users.Backend),
	)

	metrics := monitoring.NewMetrics()

	reporter, err := reporting.New(reporting.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		ServerName:  "resthub",
	})
	if err != nil {
		return nil, err
	}
	if reporter.Enabled() {
		logger.Info("Error reporting enabled", zap.String("environment", cfg.Sentry.Environment))
	}

	if cfg.Files.CreateBaseDir {
		if err := os.MkdirAll(cfg.Files.BaseDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	guard, err := paths.NewGuard(cfg.Files.BaseDir, paths.FollowSymlinks(cfg.Files.ResolveSymlinks))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path guard: %w", err)
	}
	if cfg.Files.ResolveSymlinks {
		logger.Info("Symlink resolution enabled for file paths")
	}

	repo := o.repo
	if repo == nil {
		repo, err = persistence.Open(ctx, cfg.Users, logger.Component("users").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open users repository: %w", err)
		}
	}

	fileService := files.NewService(guard).
		WithDefaultContent(cfg.Files.DefaultContent).
		WithMetrics(metrics)
	userService := users.NewService(repo).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// Encoded slashes in :filename reach the path guard intact
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.AccessLog(logger.Component("access").Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORS.AllowOrigins...)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}
	if cfg.Compression.Enabled {
		router.Use(middleware.Gzip("/metrics"))
	}

	handlers := apihttp.NewHandlers(fileService, userService, logger, reporter).
		WithMaxBodyBytes(cfg.Files.MaxBodyBytes).
		WithHealth(metrics, cfg.Users.Backend)
	handlers.Register(router)
	docs.NewHandler(Version).Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  ReadTimeout,
			WriteTimeout: WriteTimeout,
			IdleTimeout:  IdleTimeout,
		},
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		reporter: reporter,
	}, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the collector shared by the middleware and services
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// up to the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.reporter.CaptureError(context.Background(), err, map[string]string{"phase": "serve"})
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.reporter.CaptureError(context.Background(), err, map[string]string{"phase": "shutdown"})
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.reporter.Flush(2 * time.Second)
	if err == nil {
		s.logger.Info("Server stopped gracefully")
	}
	return err
}
