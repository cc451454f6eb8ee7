// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrostor/ferret/pkg/errors"
)

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"healthy","version":"2.4.1","last_action":"scrub tank"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	hs, err := c.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "healthy", hs.Status)
	assert.Equal(t, "2.4.1", hs.Version)
	assert.Equal(t, "scrub tank", hs.LastAction)
}

func TestHealthAgentFailureIsConnectionError(t *testing.T) {
	// An agent that answers the probe with a 5xx is as good as down. The
	// operation failure is re-classified so callers only branch on
	// reachable vs. not.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "zfs subsystem unavailable", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	_, err := c.Health(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsConnection(err))
	assert.False(t, errors.IsOperation(err))
	assert.True(t, errors.Is(err, errors.HealthProbeFailed))

	fe, ok := errors.AsFerretError(err)
	require.True(t, ok)
	assert.Contains(t, fe.Details, "zfs subsystem unavailable")
}

func TestHealthAuthFailureStaysAuthentication(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "wrong")
	_, err := c.Health(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsAuthentication(err))
	assert.False(t, errors.IsConnection(err))
}

func TestHealthRefusedStaysConnectionFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, ts, "k")
	ts.Close()

	_, err := c.Health(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsConnection(err))
	assert.True(t, errors.Is(err, errors.ConnectionFailed))
}
