package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"meetnotes/api/handlers"
	"meetnotes/db"
	"meetnotes/middleware"
	"meetnotes/observability"
)

// Deps carries the collaborators the router wires into handlers.
type Deps struct {
	Service handlers.TranscriptService
	Metrics *observability.Metrics
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// The React frontend is served from a different origin.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AI Meeting Notes Summarizer API"})
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := db.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/transcripts", handlers.ListTranscriptsHandler(deps.Service))
		api.POST("/transcripts", handlers.CreateTranscriptHandler(deps.Service))
		api.GET("/transcripts/:id", handlers.GetTranscriptHandler(deps.Service))
		api.POST("/transcripts/:id/generate-summary", handlers.GenerateSummaryHandler(deps.Service))
		api.PUT("/transcripts/:id/summary", handlers.UpdateSummaryHandler(deps.Service))
		api.POST("/transcripts/:id/email", handlers.SendSummaryHandler(deps.Service))
		api.DELETE("/transcripts/:id", handlers.DeleteTranscriptHandler(deps.Service))
	}

	return r
}
