// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferrostor/ferret/pkg/foundry"
)

// opTimeout bounds every agent round-trip issued from the menu. The
// client's own timeout still applies; this is the UI's patience.
const opTimeout = 10 * time.Second

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func listPoolsCmd(c *foundry.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		pools, err := c.ListPools(ctx)
		return poolsMsg{Pools: pools, Err: err}
	}
}

func poolStatusCmd(c *foundry.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		st, err := c.PoolStatus(ctx, name)
		return poolStatusMsg{Status: st, Err: err}
	}
}

func createPoolCmd(c *foundry.Client, name string, disks []string, raid foundry.RaidType) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.CreatePool(ctx, name, disks, raid); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Pool %s created", name)}
	}
}

func destroyPoolCmd(c *foundry.Client, name string, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.DestroyPool(ctx, name, force); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Pool %s destroyed", name)}
	}
}

func listDatasetsCmd(c *foundry.Client, pool string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		datasets, err := c.ListDatasets(ctx, pool)
		return datasetsMsg{Pool: pool, Datasets: datasets, Err: err}
	}
}

func createDatasetCmd(c *foundry.Client, name string, kind foundry.DatasetKind, props map[string]string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.CreateDataset(ctx, name, kind, props); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Dataset %s created", name)}
	}
}

func deleteDatasetCmd(c *foundry.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.DeleteDataset(ctx, name); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Dataset %s deleted", name)}
	}
}

func setPropertiesCmd(c *foundry.Client, name string, props map[string]string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.SetDatasetProperties(ctx, name, props); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Properties set on %s", name)}
	}
}

func listSnapshotsCmd(c *foundry.Client, dataset string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		snaps, err := c.ListSnapshots(ctx, dataset)
		return snapshotsMsg{Dataset: dataset, Snapshots: snaps, Err: err}
	}
}

func createSnapshotCmd(c *foundry.Client, dataset, label string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.CreateSnapshot(ctx, dataset, label); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Snapshot %s@%s created", dataset, label)}
	}
}

func deleteSnapshotCmd(c *foundry.Client, dataset, label string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()
		if err := c.DeleteSnapshot(ctx, dataset, label); err != nil {
			return actionMsg{Err: err}
		}
		return actionMsg{Done: fmt.Sprintf("Snapshot %s@%s deleted", dataset, label)}
	}
}
