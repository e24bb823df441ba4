package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mortalitydash/internal/charts"
	"mortalitydash/internal/config"
	"mortalitydash/internal/dataprocessing"
	"mortalitydash/internal/errors"
	"mortalitydash/internal/infrastructure"
	customMiddleware "mortalitydash/internal/middleware"
	"mortalitydash/internal/services"
	handlers "mortalitydash/internal/transport/http"
	"mortalitydash/internal/validation"
	"mortalitydash/pkg/contracts"
)

var (
	// BuildTime is set at compile time
	BuildTime = contracts.BuildTime
	// BuildID identifies this build; the git commit when one was stamped
	BuildID = generateBuildID()
)

func generateBuildID() string {
	if contracts.GitCommit != "" && contracts.GitCommit != "unknown" {
		return contracts.GitCommit
	}
	h := sha256.New()
	h.Write([]byte(contracts.Version))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Paths           *config.Paths
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	BusinessMetrics *infrastructure.BusinessMetrics
	FrontendFS      fs.FS
	Inputs          []validation.InputFile
	Dataset         *dataprocessing.Dataset
	Dashboard       *services.DashboardService
	HealthService   *services.HealthService
	ErrorHandler    *errors.ErrorHandler
}

// NewApplication loads configuration, initializes the global logger and
// builds the application. It fails when a required workbook is missing.
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(context.Background(), cfg, logger, frontendFS)
}

// New builds the application from an already loaded configuration.
// The ETL pipeline runs here, once, before any route is registered.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, frontendFS fs.FS) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}

	logger.Info("Ensuring required directories exist")
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	if note := cfg.Analysis.DataNote(); note != "" {
		logger.Warn("Population year differs from analysis year",
			slog.Int("analysis_year", cfg.Analysis.AnalysisYear),
			slog.Int("population_year", cfg.Analysis.PopulationYear),
			slog.String("note", note))
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	businessMetrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:          cfg,
		Paths:           paths,
		Logger:          logger,
		OTelProviders:   otelProviders,
		BusinessMetrics: businessMetrics,
		FrontendFS:      frontendFS,
		ErrorHandler:    errors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices runs the pipeline and creates the services on top of it
func (a *Application) initializeServices(ctx context.Context) error {
	inputs, err := validation.NewFileValidator(a.Logger).ValidateInputs(a.Paths)
	if err != nil {
		return fmt.Errorf("failed to validate inputs: %w", err)
	}
	a.Inputs = inputs

	pipeline := dataprocessing.NewPipeline(
		a.Config.Analysis,
		a.Config.Data.BoundaryFeatureKey,
		dataprocessing.WithLogger(a.Logger),
		dataprocessing.WithTelemetry(a.OTelProviders.Tracer, a.BusinessMetrics),
	)

	dataset, err := pipeline.Run(ctx, a.Paths)
	if err != nil {
		return fmt.Errorf("failed to build dataset: %w", err)
	}
	a.Dataset = dataset

	a.Dashboard = services.NewDashboardService(
		dataset,
		charts.OptionsFromConfig(a.Config.Analysis),
		services.WithDashboardLogger(a.Logger),
		services.WithDashboardTelemetry(a.OTelProviders.Tracer, a.BusinessMetrics),
	)

	a.HealthService = services.NewHealthServiceWithBuildInfo(
		contracts.Version,
		BuildTime,
		BuildID,
		a.Dashboard,
		a.Logger,
	)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	var routeErr error
	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.BusinessMetrics).Handler)
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.BusinessMetrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(errors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		routeErr = a.setupHTMLRoutes(r)
	})
	if routeErr != nil {
		return routeErr
	}

	// Outside the middleware group so scrapes are not rate limited
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/dashboard", handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())
		r.Mount("/geo", handlers.NewGeoHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Compress(5))
			r.Mount("/export", handlers.NewExportHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())
		})

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger, a.ErrorHandler).Handle)
	})
}

// setupHTMLRoutes serves the dashboard page and its static assets
func (a *Application) setupHTMLRoutes(r chi.Router) error {
	if a.FrontendFS == nil {
		a.Logger.Warn("No frontend filesystem provided, serving API only")
		return nil
	}

	page, err := handlers.NewPageHandler(a.FrontendFS, a.Dashboard, a.Logger)
	if err != nil {
		return err
	}

	r.Get("/", page.ServeDashboard)
	r.Route("/static", func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		r.Handle("/*", handlers.StaticHandler(a.FrontendFS, "/static"))
	})
	return nil
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}

	local := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	cfg.AllowedOrigins = []string{local, fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port)}
	if a.Config.Security.EnableCORS {
		for _, origin := range a.Config.Security.AllowedOrigins {
			if origin != local {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.Logger.InfoContext(ctx, "Application paths",
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("export_dir", a.Paths.ExportDir),
		slog.String("logs_dir", a.Paths.LogsDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)),
		slog.Int("records", a.Dashboard.RecordCount()),
		slog.Bool("boundaries", a.Dashboard.BoundariesAvailable()))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	infrastructure.CloseLogFile()
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the export directory is writable
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	if a.Paths.ExportDir != "" {
		if err := validation.NewFileValidator(a.Logger).ValidateOutputDirectory(a.Paths.ExportDir); err != nil {
			return err
		}
	}

	if !a.Dashboard.BoundariesAvailable() {
		a.Logger.InfoContext(ctx, "Boundary document not loaded, map panel shows a placeholder",
			slog.String("path", a.Paths.BoundariesFile))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
