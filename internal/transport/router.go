package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the single upgrade route and a liveness probe, matching
// the teacher's route-group registration style.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	r.GET("/ws", Handler(cfg))

	return r
}
