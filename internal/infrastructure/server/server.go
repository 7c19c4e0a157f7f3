package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GridlineHQ/gridline/backend/internal/api/http"
	"github.com/GridlineHQ/gridline/backend/internal/api/middleware"
	fittingDomain "github.com/GridlineHQ/gridline/backend/internal/domain/fitting"
	"github.com/GridlineHQ/gridline/backend/internal/domain/service"
	"github.com/GridlineHQ/gridline/backend/internal/domain/tomo"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/config"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/logging"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/monitoring"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/tracing"
	"github.com/GridlineHQ/gridline/backend/internal/shared/utils"

	fittingProvider "github.com/GridlineHQ/gridline/backend/internal/providers/fitting"
	"github.com/GridlineHQ/gridline/backend/internal/providers/imgproc"
	tomoProvider "github.com/GridlineHQ/gridline/backend/internal/providers/tomo"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	datasets *tomo.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance. The tomography backend is an
// external collaborator; passing nil leaves the tomo service unregistered.
func NewServer(cfg *config.Config, backend tomo.Backend) (*Server, error) {
	// Initialize logger
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Initializing Gridline Server",
		zap.String("port", cfg.Server.Port),
		zap.Bool("tomo_enabled", cfg.Tomo.Enabled),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	logger.Info("Performance monitoring initialized")

	// Initialize distributed tracing
	tracer := tracing.New("backend", logger.Logger)
	logger.Info("Distributed tracing initialized")

	// Initialize service registry
	serviceRegistry := service.NewRegistry()

	// Register service providers
	logger.Info("Registering service providers...")
	registerProviders(serviceRegistry, cfg)

	// Initialize the tomography manager when a backend is wired in
	var datasets *tomo.Manager
	if cfg.Tomo.Enabled {
		if backend == nil {
			logger.Warn("Tomography enabled but no backend connected",
				zap.String("addr", cfg.Tomo.BackendAddr),
			)
		} else {
			guarded := tomo.GuardBackend(backend, "tomo-backend")
			datasets = tomo.NewManager(guarded).WithMetrics(metrics)
			if err := serviceRegistry.Register(tomoProvider.NewProvider(datasets)); err != nil {
				return nil, fmt.Errorf("failed to register tomo provider: %w", err)
			}
			logger.Info("Tomography service registered",
				zap.String("addr", cfg.Tomo.BackendAddr),
			)
		}
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.BodyLimit(utils.MaxJSONSize))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			ExemptPaths:       []string{"/health", "/metrics"},
		}))
	}

	// Create handler metrics wrapper
	handlerMetrics := http.NewHandlerMetrics(metrics)

	// Create handlers
	handlers := http.NewHandlers(serviceRegistry, datasets, metrics, handlerMetrics, logger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Dataset management
	router.GET("/datasets", handlers.ListDatasets)
	router.GET("/datasets/:id", handlers.GetDataset)
	router.DELETE("/datasets/:id", handlers.ReleaseDataset)

	// Prometheus exposition
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: serviceRegistry,
		datasets: datasets,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine so tests can drive it without a listener.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.datasets != nil {
		for _, info := range s.datasets.List() {
			s.datasets.Release(info.ID)
		}
		s.logger.Info("Released tomography datasets")
	}

	// Sync logger before exit
	s.logger.Sync()

	return nil
}

func registerProviders(registry *service.Registry, cfg *config.Config) {
	// Compute provider
	compute := imgproc.NewProvider(imgproc.Limits{
		MaxArrayElements:    cfg.Limits.MaxArrayElements,
		MaxExpressionLength: cfg.Limits.MaxExpressionLength,
	})
	if err := registry.Register(compute); err != nil {
		fmt.Printf("Warning: Failed to register imgproc provider: %v\n", err)
	}

	// Fitting provider
	fit := fittingProvider.NewProvider(fittingDomain.Config{
		MaxIterations: cfg.Fitting.MaxIterations,
		Tolerance:     cfg.Fitting.Tolerance,
	})
	if err := registry.Register(fit); err != nil {
		fmt.Printf("Warning: Failed to register fitting provider: %v\n", err)
	}
}
