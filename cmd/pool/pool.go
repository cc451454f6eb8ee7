// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/pkg/format"
	"github.com/ferrostor/ferret/pkg/foundry"
)

func NewPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage storage pools on the agent",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newDestroyCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "pool")
			if err != nil {
				return err
			}
			defer client.Close()

			pools, err := client.ListPools(cmd.Context())
			if err != nil {
				return err
			}

			if len(pools) == 0 {
				fmt.Println("No pools found")
				return nil
			}
			for _, name := range pools {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <pool>",
		Short: "Show pool health and usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "pool")
			if err != nil {
				return err
			}
			defer client.Close()

			st, err := client.PoolStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s\n", st.Name, st.Health)
			fmt.Printf("  size:      %s\n", format.Bytes(st.Size))
			fmt.Printf("  allocated: %s\n", format.Bytes(st.Allocated))
			fmt.Printf("  free:      %s\n", format.SignedBytes(st.Free))
			fmt.Printf("  capacity:  %s\n", format.Percent(st.Capacity))
			fmt.Printf("  vdevs:     %d\n", st.VDevs)
			if st.Errors != "" {
				fmt.Printf("  errors:    %s\n", st.Errors)
			}
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	var raidType string

	cmd := &cobra.Command{
		Use:   "create <pool> <disk>...",
		Short: "Create a pool from the given disks",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raid, err := foundry.ParseRaidType(raidType)
			if err != nil {
				return err
			}

			client, _, err := cli.NewClient(cmd, "pool")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.CreatePool(cmd.Context(), args[0], args[1:], raid); err != nil {
				return err
			}
			fmt.Printf("Pool %s created\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&raidType, "raid", "r", "single",
		"Redundancy layout: single, mirror, raidz, raidz2, raidz3")
	return cmd
}

func newDestroyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy <pool>",
		Short: "Destroy a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "pool")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DestroyPool(cmd.Context(), args[0], force); err != nil {
				return err
			}
			fmt.Printf("Pool %s destroyed\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Destroy even when the pool still has datasets")
	return cmd
}
