// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"

	"github.com/ferrostor/ferret/pkg/foundry"
)

// newEngine assembles the middleware chain and the route tree. Split from
// Start so tests can drive the full engine through httptest.
func newEngine(client *foundry.Client, l logger.Logger) *gin.Engine {
	engine := gin.New()

	// A panic anywhere in the chain still answers with the envelope.
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		l.Error("Panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  gin.H{"message": "internal server error"},
		})
	}))

	m := newMetrics()
	engine.Use(LoggerMiddleware(l))
	engine.Use(m.middleware())

	// Local liveness, distinct from the proxied agent health at
	// /api/v1/health. Answers as long as the facade process runs.
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	engine.GET("/metrics", gin.WrapH(m.handler()))

	handler := NewProxyHandler(client)

	// API group with version
	v1 := engine.Group("/api/v1")
	{
		handler.RegisterRoutes(v1)
	}

	return engine
}
