package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/horizonapp/core/internal/adapters/http"
	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/application/services"
	"github.com/horizonapp/core/internal/infrastructure/config"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/infrastructure/storage"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	storage *storage.BoltStore
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance and loads every collection store
func New(cfg *config.Config, store *storage.BoltStore, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(store)
	mediaRepo := repository.NewMediaRepository(store)
	learningRepo := repository.NewLearningRepository(store)
	stateRepo := repository.NewAppStateRepository(store)

	// Initialize collection stores
	taskStore := services.NewTaskService(taskRepo, appLogger, cfg.Seed.Enabled)
	mediaStore := services.NewMediaService(mediaRepo, appLogger, cfg.Seed.Enabled)
	learningStore := services.NewLearningService(learningRepo, appLogger, cfg.Seed.Enabled)
	stateStore := services.NewAppStateService(stateRepo, appLogger)

	ctx := context.Background()
	if err := taskStore.Load(ctx); err != nil {
		return nil, fmt.Errorf("load task store: %w", err)
	}
	if err := mediaStore.Load(ctx); err != nil {
		return nil, fmt.Errorf("load media store: %w", err)
	}
	if err := learningStore.Load(ctx); err != nil {
		return nil, fmt.Errorf("load learning store: %w", err)
	}
	if err := stateStore.Load(ctx); err != nil {
		return nil, fmt.Errorf("load app state: %w", err)
	}

	// Initialize handlers
	taskHandler := httpHandlers.NewTaskHandler(taskStore, appLogger)
	mediaHandler := httpHandlers.NewMediaHandler(mediaStore, appLogger)
	learningHandler := httpHandlers.NewLearningHandler(learningStore, appLogger)
	stateHandler := httpHandlers.NewStateHandler(stateStore, appLogger)

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		storage: store,
	}

	server.setupMiddleware()
	server.setupRoutes(taskHandler, mediaHandler, learningHandler, stateHandler)

	if cfg.Metrics.Enabled {
		server.setupMetrics(taskStore, mediaStore, learningStore)
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(taskHandler *httpHandlers.TaskHandler, mediaHandler *httpHandlers.MediaHandler, learningHandler *httpHandlers.LearningHandler, stateHandler *httpHandlers.StateHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Task routes
	taskGroup := v1.Group("/tasks")
	taskGroup.GET("", taskHandler.ListTasks)
	taskGroup.POST("", taskHandler.CreateTask)
	taskGroup.GET("/grouped", taskHandler.GroupedTasks)
	taskGroup.GET("/summary", taskHandler.GetSummary)
	taskGroup.DELETE("/filters", taskHandler.ClearFilters)
	taskGroup.PUT("/:id", taskHandler.UpdateTask)
	taskGroup.DELETE("/:id", taskHandler.DeleteTask)
	taskGroup.POST("/:id/toggle", taskHandler.ToggleCompletion)

	// Media routes
	mediaGroup := v1.Group("/media")
	mediaGroup.GET("", mediaHandler.ListItems)
	mediaGroup.POST("", mediaHandler.CreateItem)
	mediaGroup.GET("/grouped", mediaHandler.GroupedItems)
	mediaGroup.GET("/favorites", mediaHandler.ListFavorites)
	mediaGroup.DELETE("/filters", mediaHandler.ClearFilters)
	mediaGroup.PUT("/:id", mediaHandler.UpdateItem)
	mediaGroup.DELETE("/:id", mediaHandler.DeleteItem)
	mediaGroup.POST("/:id/favorite", mediaHandler.ToggleFavorite)

	// Playlist routes
	playlistGroup := v1.Group("/playlists")
	playlistGroup.GET("", mediaHandler.ListPlaylists)
	playlistGroup.POST("", mediaHandler.CreatePlaylist)
	playlistGroup.PUT("/:id", mediaHandler.UpdatePlaylist)
	playlistGroup.DELETE("/:id", mediaHandler.DeletePlaylist)
	playlistGroup.POST("/:id/items", mediaHandler.AddToPlaylist)
	playlistGroup.DELETE("/:id/items/:itemID", mediaHandler.RemoveFromPlaylist)

	// Learning routes
	learningGroup := v1.Group("/learning")
	learningGroup.GET("/modules", learningHandler.ListModules)
	learningGroup.POST("/modules", learningHandler.CreateModule)
	learningGroup.GET("/modules/grouped", learningHandler.GroupedModules)
	learningGroup.DELETE("/modules/filters", learningHandler.ClearFilters)
	learningGroup.GET("/modules/:id", learningHandler.GetModule)
	learningGroup.DELETE("/modules/:id", learningHandler.DeleteModule)
	learningGroup.POST("/modules/:id/start", learningHandler.StartModule)
	learningGroup.POST("/lessons/:id/complete", learningHandler.CompleteLesson)
	learningGroup.POST("/quiz/answers", learningHandler.SubmitQuizAnswer)
	learningGroup.POST("/navigate/next", learningHandler.NextLesson)
	learningGroup.POST("/navigate/previous", learningHandler.PreviousLesson)
	learningGroup.GET("/active", learningHandler.GetActive)

	// App state routes
	stateGroup := v1.Group("/state")
	stateGroup.GET("", stateHandler.GetState)
	stateGroup.PUT("/tab", stateHandler.SelectTab)
	stateGroup.POST("/onboarding/complete", stateHandler.CompleteOnboarding)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics(taskStore *services.TaskService, mediaStore *services.MediaService, learningStore *services.LearningService) {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	collectionSize := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collection_records",
			Help: "Number of records per collection store",
		},
		[]string{"store"},
	)

	storeMutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_mutations_total",
			Help: "Total number of collection store mutations",
		},
		[]string{"store"},
	)

	registry.MustRegister(requestsTotal, requestDuration, collectionSize, storeMutations)

	// Each store change updates its size gauge and mutation counter
	taskStore.Subscribe(func() {
		collectionSize.WithLabelValues("tasks").Set(float64(len(taskStore.All())))
		storeMutations.WithLabelValues("tasks").Inc()
	})
	mediaStore.Subscribe(func() {
		collectionSize.WithLabelValues("media").Set(float64(len(mediaStore.Items())))
		storeMutations.WithLabelValues("media").Inc()
	})
	learningStore.Subscribe(func() {
		collectionSize.WithLabelValues("learning").Set(float64(len(learningStore.Modules())))
		storeMutations.WithLabelValues("learning").Inc()
	})

	collectionSize.WithLabelValues("tasks").Set(float64(len(taskStore.All())))
	collectionSize.WithLabelValues("media").Set(float64(len(mediaStore.Items())))
	collectionSize.WithLabelValues("learning").Set(float64(len(learningStore.Modules())))

	// Request metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.storage.Path() == "" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_open",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"storage": s.storage.Path(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if ve, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
