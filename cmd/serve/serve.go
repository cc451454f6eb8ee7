// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"context"
	"os"

	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/stratastor/logger"

	"github.com/ferrostor/ferret/config"
	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/lifecycle"
	"github.com/ferrostor/ferret/pkg/server"
)

var detached bool

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP facade in front of the agent",
		Long: `Serve exposes the agent's pool, dataset, and snapshot operations as a
local REST API. Agent failures surface in the facade's responses with
their classification intact, so callers can tell an unreachable agent
from a rejected request.`,
		Run: runServe,
	}

	cmd.Flags().BoolVarP(&detached, "detach", "d", false, "Run as a daemon")
	cmd.Flags().Int("listen-port", 0, "Facade listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) {
	lcfg := config.NewLoggerConfig(config.GetConfig())
	log, err := logger.NewTag(lcfg, "serve")
	if err != nil {
		panic(err)
	}

	rc := config.GetConfig()
	pidFile := constants.FerretPIDFilePath
	// Check for existing instance before proceeding
	if err := lifecycle.EnsureSingleInstance(pidFile); err != nil {
		log.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	if detached || rc.Server.Daemonize {
		ctx := &daemon.Context{
			PidFileName: pidFile,
			PidFilePerm: 0644,
			LogFileName: rc.Logs.Path,
			LogFilePerm: 0640,
			WorkDir:     "/",
			Umask:       027,
			Args:        []string{"ferret", "serve"},
		}

		d, err := ctx.Reborn()
		if err != nil {
			log.Error("Failed to start daemon", "error", err)
			os.Exit(1)
		}

		if d != nil {
			log.Info("Ferret is running as a daemon")
			return
		}
		defer ctx.Release()
	}

	startServer(cmd)
}

func startServer(cmd *cobra.Command) {
	lcfg := config.NewLoggerConfig(config.GetConfig())
	log, err := logger.NewTag(lcfg, "serve")
	if err != nil {
		panic(err)
	}
	cfg := config.GetConfig()

	port := cfg.Server.Port
	if cmd.Flags().Changed("listen-port") {
		port, _ = cmd.Flags().GetInt("listen-port")
	}

	client, _, err := cli.NewClient(cmd, "serve")
	if err != nil {
		log.Error("Failed to build agent client", "error", err)
		os.Exit(1)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Register the context canceller
	lifecycle.RegisterContextCanceller(cancel)

	// Register shutdown hook for server cleanup
	lifecycle.RegisterShutdownHook(func() {
		log.Info("Shutting down server...")
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", "error", err)
		}
		client.Close()
	})

	// Start handling lifecycle signals (e.g., SIGTERM, SIGHUP)
	go lifecycle.HandleSignals(ctx)

	// Start the server
	conn := client.Config()
	log.Info("Starting facade", "port", port, "agent_host", conn.Host, "agent_port", conn.Port)
	if err := server.Start(ctx, client, port); err != nil {
		log.Error("Failed to start server", "error", err)
	}
}
