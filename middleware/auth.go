package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// RunKey is where AuthRequired leaves the run id in the gin context
	RunKey     = "run_id"
	sessionRun = "Run"
)

// AuthRequired accepts a bearer token or, for browsers, the run stored in
// the session by RememberRun
func AuthRequired(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			claims, err := tokens.Validate(strings.TrimSpace(raw))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.Set(RunKey, claims.RunID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		run, ok := session.Get(sessionRun).(string)
		if !ok || run == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(RunKey, run)
		c.Next()
	}
}

// RememberRun stores runID in the session cookie
func RememberRun(c *gin.Context, runID string) error {
	session := sessions.Default(c)
	session.Set(sessionRun, runID)
	return session.Save()
}

// ForgetRun drops the run from the session
func ForgetRun(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionRun)
	return session.Save()
}

// CurrentRun is the run id AuthRequired accepted
func CurrentRun(c *gin.Context) string {
	return c.GetString(RunKey)
}
