// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	cfgcmd "github.com/ferrostor/ferret/cmd/config"
	"github.com/ferrostor/ferret/cmd/dataset"
	"github.com/ferrostor/ferret/cmd/health"
	"github.com/ferrostor/ferret/cmd/logs"
	"github.com/ferrostor/ferret/cmd/menu"
	"github.com/ferrostor/ferret/cmd/pool"
	"github.com/ferrostor/ferret/cmd/serve"
	"github.com/ferrostor/ferret/cmd/snapshot"
	"github.com/ferrostor/ferret/cmd/status"
	"github.com/ferrostor/ferret/cmd/version"
	"github.com/ferrostor/ferret/cmd/watch"
	"github.com/ferrostor/ferret/config"
	"github.com/ferrostor/ferret/internal/constants"
)

func NewRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "ferret",
		Short: "Ferret: FerroSTOR storage agent client",
		Long: `Ferret manages ZFS pools, datasets, and snapshots through a remote
Foundry storage agent. Connection settings come from the config file,
FERRET_* environment variables, and flags, in that order of precedence.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig(cfgPath)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "Config file path")
	pf.String("host", "", "Agent host")
	pf.Int("port", constants.DefaultAgentPort, "Agent port")
	pf.Int("timeout", constants.DefaultTimeoutSecs, "Request timeout in seconds")
	pf.Bool("insecure", false, "Skip TLS certificate verification")
	pf.String("api-key", "", "Agent API key")

	rootCmd.AddCommand(serve.NewServeCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(health.NewHealthCmd())
	rootCmd.AddCommand(status.NewStatusCmd())
	rootCmd.AddCommand(logs.NewLogsCmd())
	rootCmd.AddCommand(cfgcmd.NewConfigCmd())
	rootCmd.AddCommand(pool.NewPoolCmd())
	rootCmd.AddCommand(dataset.NewDatasetCmd())
	rootCmd.AddCommand(snapshot.NewSnapshotCmd())
	rootCmd.AddCommand(menu.NewMenuCmd())
	rootCmd.AddCommand(watch.NewWatchCmd())

	return rootCmd
}
