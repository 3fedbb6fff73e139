// Package http provides the HTTP adapter for the application layer.
// It is a thin layer translating requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/application/service"
	"github.com/uzima/reimbursement/internal/export"
	"github.com/uzima/reimbursement/pkg/auth"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the application services the server exposes.
type Services struct {
	Auth          service.AuthService
	Claims        service.ClaimService
	Notifications service.NotificationService
	Messages      service.MessageService
	Reports       service.ReportService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	jwtManager *auth.JWTManager
	userRepo   port.UserRepository
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	services Services,
	jwtManager *auth.JWTManager,
	userRepo port.UserRepository,
	categoryRepo port.CategoryRepository,
	departmentRepo port.DepartmentRepository,
	auditRepo port.AuditLogRepository,
	exporter *export.ExcelExporter,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:     config,
		router:     router,
		services:   services,
		jwtManager: jwtManager,
		userRepo:   userRepo,
		logger:     logger,
	}

	server.setupMiddleware()
	server.setupRoutes(categoryRepo, departmentRepo, auditRepo, exporter)

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(
	categoryRepo port.CategoryRepository,
	departmentRepo port.DepartmentRepository,
	auditRepo port.AuditLogRepository,
	exporter *export.ExcelExporter,
) {
	handlers := NewHandlers(s.services, s.userRepo, categoryRepo, departmentRepo, auditRepo, exporter, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")

	// Public auth endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/refresh", handlers.Refresh)
	}

	// Everything else requires a bearer token
	authed := api.Group("")
	authed.Use(s.authMiddleware())
	{
		authed.GET("/claims", handlers.ListClaims)
		authed.POST("/claims", handlers.SubmitClaim)
		authed.POST("/claims/draft", handlers.SaveDraft)
		authed.GET("/claims/:id", handlers.GetClaim)
		authed.POST("/claims/:id/submit", handlers.SubmitDraft)
		authed.GET("/claims/:id/history", handlers.ClaimHistory)
		authed.POST("/claims/:id/review", handlers.ReviewClaim)
		authed.POST("/claims/:id/pay", handlers.MarkPaid)

		authed.GET("/approvals", handlers.PendingApprovals)

		authed.GET("/notifications", handlers.ListNotifications)
		authed.POST("/notifications/:id/read", handlers.MarkNotificationRead)
		authed.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)

		authed.GET("/messages", handlers.ListMessages)
		authed.POST("/messages", handlers.SendMessage)
		authed.POST("/messages/:id/read", handlers.MarkMessageRead)

		authed.GET("/reports", handlers.RunReport)
		authed.GET("/reports/export", handlers.ExportReport)

		authed.GET("/categories", handlers.ListCategories)
		authed.GET("/departments", handlers.ListDepartments)

		// Admin operations
		authed.GET("/users", handlers.ListUsers)
		authed.POST("/users/:id/active", handlers.SetUserActive)
		authed.POST("/departments/:id/manager", handlers.AssignDepartmentManager)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
