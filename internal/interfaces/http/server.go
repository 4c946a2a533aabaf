// Package http provides the HTTP adapter for the application layer.
// This is a thin layer that translates HTTP requests to application
// service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcamargo/equiptrack/internal/application/service"
	"github.com/rcamargo/equiptrack/internal/report"
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

// Server is the HTTP server adapter
type Server struct {
	config          ServerConfig
	httpServer      *http.Server
	router          *gin.Engine
	requestService  service.RequestService
	workflowService service.WorkflowService
	machineService  service.MachineService
	partnerService  service.PartnerService
	renewalService  service.RenewalService
	reportWriter    *report.RenewalReportWriter
	logger          Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	requestService service.RequestService,
	workflowService service.WorkflowService,
	machineService service.MachineService,
	partnerService service.PartnerService,
	renewalService service.RenewalService,
	reportWriter *report.RenewalReportWriter,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:          config,
		router:          router,
		requestService:  requestService,
		workflowService: workflowService,
		machineService:  machineService,
		partnerService:  partnerService,
		renewalService:  renewalService,
		reportWriter:    reportWriter,
		logger:          logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

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
func (s *Server) setupRoutes() {
	handlers := NewHandlers(
		s.requestService,
		s.workflowService,
		s.machineService,
		s.partnerService,
		s.renewalService,
		s.reportWriter,
		s.logger,
	)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		// Requests and workflow
		api.POST("/requests", handlers.CreateRequest)
		api.GET("/requests", handlers.ListRequests)
		api.GET("/requests/:id", handlers.GetRequest)
		api.GET("/requests/:id/history", handlers.GetRequestHistory)
		api.PUT("/requests/:id/contract-details", handlers.UpdateContractDetails)
		api.POST("/requests/:id/quotes", handlers.SubmitQuote)
		api.GET("/requests/:id/quotes", handlers.ListQuotes)
		api.POST("/requests/:id/select-quote", handlers.SelectQuote)
		api.POST("/requests/:id/documents", handlers.UploadDocument)
		api.GET("/requests/:id/documents", handlers.ListDocuments)
		api.POST("/requests/:id/complete", handlers.CompleteRequest)

		// Documents
		api.GET("/documents/:id/download", handlers.DownloadDocument)

		// Machines and maintenance
		api.POST("/machines", handlers.CreateMachine)
		api.GET("/machines", handlers.ListMachines)
		api.GET("/machines/:id", handlers.GetMachine)
		api.POST("/machines/:id/maintenance", handlers.LogMaintenance)
		api.GET("/machines/:id/maintenance", handlers.GetMaintenanceHistory)

		// Partners
		api.POST("/partners", handlers.CreatePartner)
		api.GET("/partners", handlers.ListPartners)
		api.GET("/partners/:id", handlers.GetPartner)

		// Renewals and reporting
		api.GET("/renewals", handlers.ListRenewals)
		api.GET("/reports/renewals", handlers.RenewalReport)

		// Dashboard
		api.GET("/summary", handlers.GetSummary)
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
