// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package server re-exposes the Foundry agent's operations over a local
// HTTP facade.
//
// We're using Gin's Engine (gin.New()) which provides:
// - A router with middleware support
// - HTTP handler implementation (ServeHTTP)
// - Recovery middleware for handling panics
// And then we add custom middlewares for logging and metrics.
//
// When assigned to http.Server.Handler, we're using Gin's ServeHTTP method
// since gin.Engine implements http.Handler interface. While gin.Run() would
// be simpler, it doesn't support graceful shutdown, blocks until the server
// exits, and doesn't integrate with context-based lifecycle management.
//
// Every response carries a JSON envelope with a "status" field, mirroring
// the agent's own envelope, so callers always have one discriminant to
// branch on. Errors from the client keep their classification: an
// authentication failure maps to 401, an unreachable agent to 502, and an
// operation failure to whatever status the agent answered with, 500 when
// it didn't.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"

	"github.com/ferrostor/ferret/config"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/foundry"
)

var srv *http.Server

// Start runs the facade until ctx is cancelled or startup fails. The
// provided client is shared by every request; it is safe for concurrent
// use and its classification rules are what the facade's status mapping
// is built on.
func Start(ctx context.Context, client *foundry.Client, port int) error {
	l, err := logger.NewTag(config.NewLoggerConfig(config.GetConfig()), "server")
	if err != nil {
		return errors.Wrap(err, errors.LoggerError)
	}
	cfg := config.GetConfig()

	// Switch to debug mode for non-production environments
	switch cfg.Environment {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := newEngine(client, l)

	srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	// Channel to catch server startup errors
	errChan := make(chan error, 1)

	go func() {
		l.Info("Facade listening", "addr", srv.Addr, "agent", client.Config().BaseURL())
		if err := srv.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				errChan <- err
			}
		}
	}()

	// Wait for either server error or context cancellation
	select {
	case err := <-errChan:
		return errors.Wrap(err, errors.ServerStart)
	case <-ctx.Done():
		return Shutdown(ctx)
	}
}

// Shutdown drains in-flight requests and stops the listener.
func Shutdown(ctx context.Context) error {
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.ServerShutdown)
	}
	return nil
}
