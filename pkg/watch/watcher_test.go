// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stratastor/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/foundry"
	"github.com/ferrostor/ferret/pkg/testutil"
)

func newTestWatcher(t *testing.T) (*Watcher, *testutil.FakeAgent) {
	t.Helper()
	t.Setenv(constants.APIKeyEnvVar, "")

	agent := testutil.NewFakeAgent(t)
	host, port := agent.Endpoint()

	l, err := logger.New(logger.Config{LogLevel: "error"})
	require.NoError(t, err)

	client, err := foundry.New(foundry.ConnectionConfig{
		Host:    host,
		Port:    port,
		Timeout: 5 * time.Second,
	}, l)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	w, err := New(client, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	return w, agent
}

func (w *Watcher) snapshotState() (bool, string, map[string]poolRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	pools := make(map[string]poolRecord, len(w.pools))
	for k, v := range w.pools {
		pools[k] = v
	}
	return w.agentUp, w.status, pools
}

func TestTickRecordsPoolState(t *testing.T) {
	w, agent := newTestWatcher(t)
	agent.SeedPool("tank", "mirror", "/dev/sdb", "/dev/sdc")
	agent.SeedPool("backup", "", "/dev/sdd")

	w.tick(context.Background())

	up, status, pools := w.snapshotState()
	assert.True(t, up)
	assert.Equal(t, "healthy", status)
	require.Len(t, pools, 2)
	assert.Equal(t, "ONLINE", pools["tank"].health)
	assert.Equal(t, uint8(10), pools["tank"].capacity)
	assert.False(t, pools["tank"].flagged)
}

func TestTickTracksHealthTransition(t *testing.T) {
	w, agent := newTestWatcher(t)
	agent.SeedPool("tank", "mirror", "/dev/sdb", "/dev/sdc")

	w.tick(context.Background())
	agent.SetPoolHealth("tank", "DEGRADED")
	w.tick(context.Background())

	_, _, pools := w.snapshotState()
	assert.Equal(t, "DEGRADED", pools["tank"].health)
}

func TestTickFlagsCapacityThreshold(t *testing.T) {
	w, agent := newTestWatcher(t)
	agent.SeedPool("tank", "", "/dev/sdb")

	agent.SetPoolCapacity("tank", 85)
	w.tick(context.Background())
	_, _, pools := w.snapshotState()
	assert.True(t, pools["tank"].flagged)

	// Stays flagged while full, clears when usage drops back.
	w.tick(context.Background())
	_, _, pools = w.snapshotState()
	assert.True(t, pools["tank"].flagged)

	agent.SetPoolCapacity("tank", 40)
	w.tick(context.Background())
	_, _, pools = w.snapshotState()
	assert.False(t, pools["tank"].flagged)
}

func TestTickAgentDownAndRecovery(t *testing.T) {
	w, agent := newTestWatcher(t)
	agent.SeedPool("tank", "", "/dev/sdb")

	w.tick(context.Background())
	up, _, _ := w.snapshotState()
	require.True(t, up)

	agent.FailNext(500, `{"status":"error","message":"zfs subsystem unavailable"}`)
	w.tick(context.Background())
	up, status, _ := w.snapshotState()
	assert.False(t, up)
	assert.Empty(t, status)

	w.tick(context.Background())
	up, status, _ = w.snapshotState()
	assert.True(t, up)
	assert.Equal(t, "healthy", status)
}

func TestTickDropsVanishedPools(t *testing.T) {
	w, agent := newTestWatcher(t)
	agent.SeedPool("tank", "", "/dev/sdb")
	agent.SeedPool("scratch", "", "/dev/sdc")

	w.tick(context.Background())
	_, _, pools := w.snapshotState()
	require.Len(t, pools, 2)

	// Destroy through the wire so the next round sees it gone.
	require.NoError(t, w.client.DestroyPool(context.Background(), "scratch", true))

	w.tick(context.Background())
	_, _, pools = w.snapshotState()
	require.Len(t, pools, 1)
	assert.Contains(t, pools, "tank")
}
