package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/config"
	"github.com/burn-ops-service/internal/delivery/http/handler"
	"github.com/burn-ops-service/internal/delivery/http/middleware"
	"github.com/burn-ops-service/internal/pkg/errors"
	"github.com/burn-ops-service/internal/pkg/metrics"
	"github.com/burn-ops-service/internal/pkg/utils"
)

// HealthChecker - компонент, доступность которого попадает в /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers - набор HTTP обработчиков API
type Handlers struct {
	Geometry  *handler.GeometryHandler
	Draft     *handler.DraftHandler
	Operation *handler.OperationHandler
	Personnel *handler.PersonnelHandler
	Sync      *handler.SyncHandler
	Session   *handler.SessionHandler
	Lookup    *handler.LookupHandler
	Analysis  *handler.AnalysisHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	// local обязателен: без локального хранилища узел не может принимать записи.
	// Остальные проверки информационные.
	local  HealthChecker
	checks map[string]HealthChecker

	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	local HealthChecker,
	checks map[string]HealthChecker,
	handlers Handlers,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Burn Ops Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // анализ через LLM бывает долгим
		IdleTimeout:  60 * time.Second,
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		metrics:  m,
		gatherer: gatherer,
		local:    local,
		checks:   checks,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App отдаёт fiber.App для app.Test в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	if s.metrics != nil {
		s.app.Use(middleware.Metrics(s.metrics))
	}
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	h := s.handlers

	// Geometry
	api.Post("/geometry/stats", h.Geometry.Stats)

	// Draft - форма текущей операции
	api.Get("/draft", h.Draft.Get)
	api.Delete("/draft", h.Draft.Reset)
	api.Put("/draft/form", h.Draft.UpdateForm)
	api.Put("/draft/area", h.Draft.DrawArea)
	api.Delete("/draft/area", h.Draft.ClearArea)
	api.Put("/draft/team", h.Draft.SetTeam)
	api.Post("/draft/analyze", h.Draft.Analyze)
	api.Post("/draft/commit", h.Draft.Commit)

	// Operations
	api.Post("/operations", h.Operation.Create)
	api.Get("/operations", h.Operation.List)
	api.Get("/operations/:id", h.Operation.Get)
	api.Delete("/operations/:id", h.Operation.Delete)
	api.Get("/operations/:id/report", h.Operation.Report)

	// Personnel
	api.Post("/personnel", h.Personnel.Add)
	api.Get("/personnel", h.Personnel.List)
	api.Delete("/personnel/:id", h.Personnel.Remove)

	// Sync and connectivity
	api.Post("/sync", h.Sync.Sweep)
	api.Get("/sync/pending", h.Sync.Pending)
	api.Post("/connectivity", h.Sync.ReportConnectivity)
	api.Get("/connectivity", h.Sync.GetConnectivity)

	// Session
	api.Post("/session", h.Session.SignIn)
	api.Get("/session", h.Session.Get)
	api.Delete("/session", h.Session.SignOut)

	// Lookups
	api.Get("/lookup/weather", h.Lookup.Weather)
	api.Get("/lookup/geocode", h.Lookup.Geocode)

	// Analysis
	api.Post("/analysis", h.Analysis.Analyze)
	api.Post("/chat", h.Analysis.Chat)
	api.Get("/checklist", h.Analysis.Checklist)
}

// health godoc
// @Summary Состояние узла
// @Description 503 только если недоступно локальное хранилище
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	components := fiber.Map{}
	status, code := "healthy", fiber.StatusOK

	if s.local != nil {
		if err := s.local.Health(ctx); err != nil {
			components["local_store"] = err.Error()
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		} else {
			components["local_store"] = "ok"
		}
	}
	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			components[name] = err.Error()
			if code == fiber.StatusOK {
				status = "degraded"
			}
			continue
		}
		components[name] = "ok"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":     status,
		"components": components,
		"time":       time.Now(),
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не прошедшие через utils.SendError (404 маршрута, паники)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			appErr := errors.New(codeForStatus(e.Code), e.Message, e.Code)
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Int("status", e.Code), zap.Error(err))
			}
			return utils.SendError(c, appErr)
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", fiber.StatusInternalServerError),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusBadRequest:
		return "INVALID_REQUEST"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
