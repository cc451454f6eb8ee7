// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"net/http"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/names"
)

// ListSnapshots returns the snapshots of a dataset in the agent's
// canonical "dataset@label" form. Parse entries with names.ParseSnapshotRef
// to recover the deletable label.
func (c *Client) ListSnapshots(ctx context.Context, dataset string) ([]string, error) {
	if err := names.DatasetCheck(dataset); err != nil {
		return nil, err
	}

	raw, err := c.dispatch(ctx, http.MethodGet,
		constants.AgentSnapshotsPath+"/"+names.EncodeName(dataset), nil)
	if err != nil {
		return nil, err
	}

	var out snapshotListResponse
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	if out.Snapshots == nil {
		out.Snapshots = []string{}
	}
	return out.Snapshots, nil
}

// CreateSnapshot takes a point-in-time snapshot of a dataset under the
// given label. Label uniqueness is scoped to the dataset and enforced by
// the agent.
func (c *Client) CreateSnapshot(ctx context.Context, dataset, label string) error {
	if err := names.DatasetCheck(dataset); err != nil {
		return err
	}
	if err := names.LabelCheck(label); err != nil {
		return err
	}

	_, err := c.dispatch(ctx, http.MethodPost,
		constants.AgentSnapshotsPath+"/"+names.EncodeName(dataset),
		createSnapshotRequest{SnapshotName: label})
	return err
}

// DeleteSnapshot destroys one snapshot of a dataset by its label.
func (c *Client) DeleteSnapshot(ctx context.Context, dataset, label string) error {
	if err := names.DatasetCheck(dataset); err != nil {
		return err
	}
	if err := names.LabelCheck(label); err != nil {
		return err
	}

	_, err := c.dispatch(ctx, http.MethodDelete,
		constants.AgentSnapshotsPath+"/"+names.EncodeName(dataset)+"/"+names.EncodeName(label),
		nil)
	return err
}
