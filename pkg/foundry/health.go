// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"net/http"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/errors"
)

// Health probes the agent. The payload is returned as-is; interpreting the
// status string is the caller's business. An operation failure during the
// probe is re-classified as a connection failure: for health checking,
// "reachable but unhappy" and "unreachable" call for the same reaction.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	raw, err := c.dispatch(ctx, http.MethodGet, constants.AgentHealthPath, nil)
	if err != nil {
		return nil, reclassifyProbeError(err)
	}

	var hs HealthStatus
	if err := decode(raw, &hs); err != nil {
		return nil, reclassifyProbeError(err)
	}
	return &hs, nil
}

func reclassifyProbeError(err error) error {
	fe, ok := errors.AsFerretError(err)
	if !ok || fe.Kind != errors.KindOperation {
		return err
	}
	return errors.New(errors.HealthProbeFailed, fe.Details)
}
