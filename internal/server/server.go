// file: internal/server/server.go
// version: 1.4.0
// guid: 8f9a0b1c-2d3e-4f5a-6b7c-0d1e2f3a4b5c

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftwell/giftwell/internal/config"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/giftwell/giftwell/internal/metrics"
	"github.com/giftwell/giftwell/internal/server/middleware"
	"github.com/giftwell/giftwell/internal/sms"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Helper functions for pointer conversions
func stringPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	store      database.Store
	sms        *sms.Handler
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance
func NewServer(store database.Store, smsHandler *sms.Handler) *Server {
	router := gin.Default()

	// Set up middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.BasicAuth())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router: router,
		store:  store,
		sms:    smsHandler,
	}

	server.setupRoutes()

	return server
}

// GetDefaultServerConfig returns the server configuration derived from AppConfig
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         strconv.Itoa(config.AppConfig.ServerPort),
		Host:         config.AppConfig.ServerHost,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Start starts the HTTP server and blocks until an interrupt signal,
// then shuts down gracefully.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Refresh record-count gauges while running
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if s.store == nil {
					continue
				}
				if n, err := s.store.CountRecipients(); err == nil {
					metrics.SetRecipients(n)
				} else {
					log.Printf("[DEBUG] Gauge refresh: failed to count recipients: %v", err)
				}
				if n, err := s.store.CountGifts(); err == nil {
					metrics.SetGifts(n)
				}
			case <-quit:
				return
			}
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	// API routes
	api := s.router.Group("/api/v1")
	api.Use(middleware.NewIPRateLimiter(config.AppConfig.APIRateLimitPerMinute, 20).Middleware())
	{
		// Recipient routes
		api.GET("/recipients", s.listRecipients)
		api.POST("/recipients", s.createRecipient)
		api.GET("/recipients/:id", s.getRecipient)
		api.PUT("/recipients/:id", s.updateRecipient)
		api.DELETE("/recipients/:id", s.deleteRecipient)
		api.GET("/recipients/:id/gifts", s.listRecipientGifts)

		// Name resolution
		api.GET("/match", s.matchRecipient)
		api.GET("/suggest", s.suggestRecipients)

		// Gift routes
		api.GET("/gifts", s.listGifts)
		api.POST("/gifts", s.createGift)
		api.GET("/gifts/:id", s.getGift)

		// Inbound SMS webhook (Twilio-style form post)
		api.POST("/sms/webhook", s.smsWebhook)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	// Gather basic metrics; tolerate errors (don't fail health entirely)
	var recipientCount, giftCount int
	var dbErr error
	if s.store != nil {
		if n, err := s.store.CountRecipients(); err == nil {
			recipientCount = n
			metrics.SetRecipients(n)
		} else {
			dbErr = err
		}
		if n, err := s.store.CountGifts(); err == nil {
			giftCount = n
			metrics.SetGifts(n)
		} else if dbErr == nil {
			dbErr = err
		}
	}
	resp := gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Unix(),
		"version":       "1.4.0",
		"database_type": config.AppConfig.DatabaseType,
		"metrics": gin.H{
			"recipients": recipientCount,
			"gifts":      giftCount,
		},
	}
	if dbErr != nil {
		resp["partial_error"] = dbErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}
