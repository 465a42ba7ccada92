// Package api implements the client-facing HTTP surface: a thin gin adapter
// over the feed, interaction, pinned-event, tag-proposal, and admin-ingest
// operations.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/pulsefeed/pkg/bundler"
	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/feed"
	"github.com/codeready-toolchain/pulsefeed/pkg/interactions"
	"github.com/codeready-toolchain/pulsefeed/pkg/proposals"
	"github.com/codeready-toolchain/pulsefeed/pkg/scheduler"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

// Server wires the core collaborators into an HTTP surface.
type Server struct {
	router *gin.Engine
	http   *http.Server

	db           *store.DB
	feed         *feed.Service
	interactions *interactions.Store
	bundles      *bundler.Store
	proposals    *proposals.Recorder
	scheduler    *scheduler.Scheduler

	apiKey     string
	displayTZ  string
	listenAddr string
}

// NewServer builds the gin router and registers every route.
func NewServer(db *store.DB, apiCfg *config.APIConfig, displayTZ, apiKey string, sched *scheduler.Scheduler) *Server {
	s := &Server{
		router:       gin.New(),
		db:           db,
		feed:         feed.New(db, 0.8),
		interactions: interactions.New(db),
		bundles:      bundler.New(db),
		proposals:    proposals.New(db),
		scheduler:    sched,
		apiKey:       apiKey,
		displayTZ:    displayTZ,
		listenAddr:   apiCfg.Listen,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger())
	s.router.Use(securityHeaders())

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/status", s.handleStatus)

	v1 := s.router.Group("/")
	v1.Use(apiKeyAuth(s.apiKey))
	{
		v1.GET("/feed", s.handleGetFeed)
		v1.POST("/interactions", s.handleRecordInteraction)
		v1.POST("/interactions/batch", s.handleRecordInteractionBatch)
		v1.GET("/users/:userId/pinned-events", s.handleGetPinnedEvents)
		v1.POST("/users/:userId/pinned-events", s.handleSetPinnedEvent)
		v1.GET("/tag-proposals", s.handleGetTagProposals)
		v1.POST("/admin/ingest", s.handleAdminIngestAll)
		v1.POST("/admin/ingest/:sourceId", s.handleAdminIngestOne)
	}
}

// Run starts the HTTP listener and blocks until it exits.
func (s *Server) Run() error {
	s.http = &http.Server{Addr: s.listenAddr, Handler: s.router}
	slog.Info("API server listening", "addr", s.listenAddr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
