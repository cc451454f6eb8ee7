// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/pkg/menu"
)

func NewMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Browse and manage the agent interactively",
		Long: `Menu opens a full-screen session against the agent: pools, datasets,
and snapshots as numbered lists, with create/destroy flows and a live
pool status view. Connection flags and config apply as with any other
command. Requires a TTY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "menu")
			if err != nil {
				return err
			}
			defer client.Close()
			return menu.Run(client)
		},
	}
}
