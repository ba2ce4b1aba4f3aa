package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CORSMiddleware answers permissive cross-origin headers on every route
// and short-circuits pre-flight requests with an empty 200.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// RequestLogger emits one structured line per request, tagged with a
// generated request id that is also echoed back to the caller.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()

		log.Info().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// RequireStore verifies the persistence store is reachable before any
// business logic runs, so callers get a distinguishable failure instead
// of a mid-handler error.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := DB.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			log.Error().Err(err).Msg("persistence store unreachable")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":  "persistence store unavailable",
				"reason": "store_unavailable",
			})
			return
		}
		c.Next()
	}
}
