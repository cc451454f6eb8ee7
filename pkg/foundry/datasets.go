// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"net/http"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/names"
)

// ListDatasets returns the names of all datasets in a pool. An agent
// response without a datasets field means the pool is empty.
func (c *Client) ListDatasets(ctx context.Context, pool string) ([]string, error) {
	if err := names.PoolCheck(pool); err != nil {
		return nil, err
	}

	raw, err := c.dispatch(ctx, http.MethodGet,
		constants.AgentDatasetsPath+"/"+names.EncodeName(pool), nil)
	if err != nil {
		return nil, err
	}

	var out datasetListResponse
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	if out.Datasets == nil {
		out.Datasets = []string{}
	}
	return out.Datasets, nil
}

// CreateDataset creates a filesystem or volume dataset with the given
// properties. Property values are not validated client-side; the agent is
// the authority on legal ZFS properties.
func (c *Client) CreateDataset(ctx context.Context, name string, kind DatasetKind, properties map[string]string) error {
	if err := names.DatasetCheck(name); err != nil {
		return err
	}
	if properties == nil {
		properties = map[string]string{}
	}

	_, err := c.dispatch(ctx, http.MethodPost, constants.AgentDatasetsPath, createDatasetRequest{
		Name:       name,
		Kind:       kind,
		Properties: properties,
	})
	return err
}

// DeleteDataset destroys a dataset.
func (c *Client) DeleteDataset(ctx context.Context, name string) error {
	if err := names.DatasetCheck(name); err != nil {
		return err
	}

	_, err := c.dispatch(ctx, http.MethodDelete,
		constants.AgentDatasetsPath+"/"+names.EncodeName(name), nil)
	return err
}

// SetDatasetProperties applies a property mapping to an existing dataset.
// Last write wins: reapplying the same mapping is a no-op on the agent
// side, so the call is idempotent. kind is fixed to filesystem in the
// agent's current property contract.
func (c *Client) SetDatasetProperties(ctx context.Context, name string, properties map[string]string) error {
	if err := names.DatasetCheck(name); err != nil {
		return err
	}
	if properties == nil {
		properties = map[string]string{}
	}

	_, err := c.dispatch(ctx, http.MethodPost,
		constants.AgentDatasetsPath+"/"+names.EncodeName(name)+"/properties",
		setPropertiesRequest{
			Name:       name,
			Kind:       KindFilesystem,
			Properties: properties,
		})
	return err
}
