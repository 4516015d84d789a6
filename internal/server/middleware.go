package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/telemetry"
)

var untrackedPrefixes = []string{"/static/", "/favicon", "/healthz", "/api/stats"}

// visitorTracking records a visit per request with a hashed client
// address. Requests with DNT: 1 and static paths are not recorded.
func visitorTracking(rec telemetry.Recorder, salt string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ev := telemetry.Event{
			Kind:      telemetry.Visit,
			At:        time.Now(),
			HashedIP:  telemetry.HashIP(c.ClientIP(), salt),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := rec.Record(ctx, ev); err != nil {
				log.Warn().Err(err).Msg("record visit")
			}
		}()
		c.Next()
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
