// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/pkg/format"
	"github.com/ferrostor/ferret/pkg/foundry"
)

func NewDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage datasets on the agent",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newSetCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <pool>",
		Short: "List datasets in a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "dataset")
			if err != nil {
				return err
			}
			defer client.Close()

			datasets, err := client.ListDatasets(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(datasets) == 0 {
				fmt.Printf("No datasets in pool %s\n", args[0])
				return nil
			}
			for _, name := range datasets {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "create <pool/path> [key=value...]",
		Short: "Create a dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsKind, err := foundry.ParseDatasetKind(kind)
			if err != nil {
				return err
			}

			props, err := cli.ParseProperties(args[1:])
			if err != nil {
				return err
			}

			client, _, err := cli.NewClient(cmd, "dataset")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.CreateDataset(cmd.Context(), args[0], dsKind, props); err != nil {
				return err
			}
			fmt.Printf("Dataset %s created\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "filesystem",
		"Dataset kind: filesystem or volume")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pool/path>",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cli.NewClient(cmd, "dataset")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DeleteDataset(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Dataset %s deleted\n", args[0])
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <pool/path> <key=value>...",
		Short: "Set dataset properties",
		Long: `Set properties on an existing dataset. Applying the same mapping
twice is harmless; the agent treats each application as last-write-wins.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := cli.ParseProperties(args[1:])
			if err != nil {
				return err
			}

			client, _, err := cli.NewClient(cmd, "dataset")
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.SetDatasetProperties(cmd.Context(), args[0], props); err != nil {
				return err
			}
			for _, line := range format.PropertyLines(props) {
				fmt.Println(line)
			}
			return nil
		},
	}
}
