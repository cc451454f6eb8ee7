// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/internal/cli"
)

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the agent's health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "health")
			if err != nil {
				return err
			}
			defer client.Close()

			hs, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("status:      %s\n", hs.Status)
			if hs.Version != "" {
				fmt.Printf("version:     %s\n", hs.Version)
			}
			if hs.LastAction != "" {
				fmt.Printf("last action: %s\n", hs.LastAction)
			}
			return nil
		},
	}
}
