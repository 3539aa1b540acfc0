package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aivl-fintrxn-generator/internal/api_gateway/handler"
	"github.com/aivl-fintrxn-generator/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	hookHandler *handler.HookHandler,
	postingHandler *handler.PostingHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Hook notification intake
		hooks := v1.Group("/hooks")
		{
			hooks.POST("/pre", hookHandler.Pre)
			hooks.POST("/post", hookHandler.Post)
		}

		// Posting journal reads
		postings := v1.Group("/postings")
		{
			postings.GET("/:id", postingHandler.GetByID)
		}

		// Postings derived from one contribution
		contributions := v1.Group("/contributions")
		{
			contributions.GET("/:id/postings", postingHandler.GetBySubjectID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
