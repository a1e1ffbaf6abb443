package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	gin.SetMode(s.ginMode)
	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.maxBodySizeMiddleware())
	s.router.Use(s.rateLimitMiddleware())

	// Public routes (no auth)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/api/stats", s.getStatsData)

	// API routes (auth required when client keys are configured)
	api := s.router.Group("/v1")
	api.Use(s.authenticateClient)
	{
		api.POST("/translate", s.translateText)
		api.POST("/sessions", s.createSession)
		api.GET("/sessions/:id/history", s.getSessionHistory)
		api.DELETE("/sessions/:id/history", s.clearSessionHistory)
	}
}
