// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"net/http"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/names"
)

// ListPools returns the names of all pools the agent manages.
func (c *Client) ListPools(ctx context.Context) ([]string, error) {
	raw, err := c.dispatch(ctx, http.MethodGet, constants.AgentPoolsPath, nil)
	if err != nil {
		return nil, err
	}

	var out poolListResponse
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	if out.Pools == nil {
		out.Pools = []string{}
	}
	return out.Pools, nil
}

// PoolStatus returns the status record for one pool. The agent reports
// failures on this endpoint inside a success-shaped body, so a 200 carrying
// a status "error" marker still fails with an operation error holding the
// agent's message.
func (c *Client) PoolStatus(ctx context.Context, name string) (*PoolStatus, error) {
	if err := names.PoolCheck(name); err != nil {
		return nil, err
	}

	raw, err := c.dispatch(ctx, http.MethodGet,
		constants.AgentPoolsPath+"/"+names.EncodeName(name), nil)
	if err != nil {
		return nil, err
	}

	var probe statusProbe
	if err := decode(raw, &probe); err != nil {
		return nil, err
	}
	if probe.Status == "error" {
		return nil, errors.New(errors.AgentReportedError, probe.Message).
			WithMetadata("pool", name)
	}

	var status PoolStatus
	if err := decode(raw, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CreatePool creates a pool from the given disks under the chosen
// redundancy scheme. The call blocks until the agent finishes or fails.
func (c *Client) CreatePool(ctx context.Context, name string, disks []string, raid RaidType) error {
	if err := names.PoolCheck(name); err != nil {
		return err
	}
	if len(disks) == 0 {
		return errors.New(errors.RequestInvalid, "pool creation requires at least one disk")
	}

	_, err := c.dispatch(ctx, http.MethodPost, constants.AgentPoolsPath, createPoolRequest{
		Name:     name,
		Disks:    disks,
		RaidType: raid,
	})
	return err
}

// DestroyPool destroys a pool. force tells the agent to proceed even when
// the pool still contains datasets; without it the agent refuses and the
// refusal surfaces as an operation error.
func (c *Client) DestroyPool(ctx context.Context, name string, force bool) error {
	if err := names.PoolCheck(name); err != nil {
		return err
	}

	path := constants.AgentPoolsPath + "/" + names.EncodeName(name)
	if force {
		path += "?force=true"
	}

	_, err := c.dispatch(ctx, http.MethodDelete, path, nil)
	return err
}
