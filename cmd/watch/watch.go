// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/config"
	"github.com/ferrostor/ferret/internal/cli"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/lifecycle"
	"github.com/ferrostor/ferret/pkg/watch"
)

func NewWatchCmd() *cobra.Command {
	var interval string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the agent and log pool state transitions",
		Long: `Watch polls the agent on a fixed interval and logs transitions:
pools appearing or vanishing, health changes, capacity crossing the
warning threshold, and the agent becoming unreachable or recovering.
It keeps no history beyond the previous round; the log stream is the
record. Runs in the foreground until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := interval
			if !cmd.Flags().Changed("interval") {
				raw = config.GetConfig().Watch.Interval
			}
			every, err := time.ParseDuration(raw)
			if err != nil || every <= 0 {
				return errors.New(errors.ConfigInvalid,
					fmt.Sprintf("watch interval must be a positive duration, got %q", raw))
			}

			client, _, err := cli.NewClient(cmd, "watch")
			if err != nil {
				return err
			}

			w, err := watch.New(client, every)
			if err != nil {
				client.Close()
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			lifecycle.RegisterContextCanceller(cancel)
			lifecycle.RegisterShutdownHook(client.Close)
			lifecycle.RegisterShutdownHook(func() { _ = w.Stop() })
			go lifecycle.HandleSignals(ctx)

			conn := client.Config()
			fmt.Printf("Watching agent at %s:%d every %s\n", conn.Host, conn.Port, every)
			return w.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&interval, "interval", "i", "60s",
		"Poll interval, e.g. 30s or 5m (overrides config)")
	return cmd
}
