// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/pkg/names"
)

func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage dataset snapshots on the agent",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <pool/path>",
		Short: "List snapshots of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "snapshot")
			if err != nil {
				return err
			}
			defer client.Close()

			snaps, err := client.ListSnapshots(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(snaps) == 0 {
				fmt.Printf("No snapshots of dataset %s\n", args[0])
				return nil
			}
			for _, name := range snaps {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <pool/path> <label>",
		Short: "Create a snapshot of a dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "snapshot")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.CreateSnapshot(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Snapshot %s@%s created\n", args[0], args[1])
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pool/path@label> | delete <pool/path> <label>",
		Short: "Delete a snapshot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, label := args[0], ""
			if len(args) == 2 {
				label = args[1]
			} else {
				ref, err := names.ParseSnapshotRef(args[0])
				if err != nil {
					return err
				}
				dataset, label = ref.Dataset, ref.Label
			}

			client, _, err := cli.NewClient(cmd, "snapshot")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DeleteSnapshot(cmd.Context(), dataset, label); err != nil {
				return err
			}
			fmt.Printf("Snapshot %s@%s deleted\n", dataset, label)
			return nil
		},
	}
}
