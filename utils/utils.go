package utils

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs every request once it is served
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()
		if len(c.Errors) > 0 {
			log.Printf("[HTTP] %s %s -> %d in %v (%d errors)", c.Request.Method, c.Request.URL.Path, status, latency, len(c.Errors))
			return
		}
		log.Printf("[HTTP] %s %s -> %d in %v", c.Request.Method, c.Request.URL.Path, status, latency)
	}
}
