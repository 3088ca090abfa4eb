package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ranchprice/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(suggestions *handlers.SuggestionHandler, sessions *handlers.SessionHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	ranches := r.Group("/ranches/:id")
	ranches.GET("/suggestions", suggestions.List)
	ranches.POST("/suggestions/apply", suggestions.ApplyAll)
	ranches.POST("/calves/:calfId/apply", suggestions.ApplyOne)
	ranches.GET("/active-period", suggestions.ActivePeriod)
	ranches.GET("/brackets", suggestions.Brackets)
	ranches.PUT("/brackets", suggestions.ReplaceBrackets)
	ranches.POST("/periods", suggestions.SavePeriod)
	ranches.GET("/history", suggestions.History)

	r.GET("/session", sessions.Get)
	r.PUT("/session/ranch", sessions.SelectRanch)
	r.DELETE("/session", sessions.Logout)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
