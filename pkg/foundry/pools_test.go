// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrostor/ferret/pkg/errors"
)

func TestListPools(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pools", r.URL.Path)
		w.Write([]byte(`{"pools":["tank","backup"],"status":"success"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	pools, err := c.ListPools(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"tank", "backup"}, pools)
}

func TestListPoolsAbsentFieldMeansEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	pools, err := c.ListPools(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, pools)
	assert.Empty(t, pools)
}

func TestPoolStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pools/tank", r.URL.Path)
		w.Write([]byte(`{
			"name": "tank",
			"health": "ONLINE",
			"size": 10995116277760,
			"allocated": 2199023255552,
			"free": 8796093022208,
			"capacity": 20,
			"vdevs": 2
		}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	status, err := c.PoolStatus(context.Background(), "tank")

	require.NoError(t, err)
	assert.Equal(t, "tank", status.Name)
	assert.Equal(t, "ONLINE", status.Health)
	assert.Equal(t, uint64(10995116277760), status.Size)
	assert.Equal(t, uint64(2199023255552), status.Allocated)
	assert.Equal(t, int64(8796093022208), status.Free)
	assert.Equal(t, uint8(20), status.Capacity)
	assert.Equal(t, uint32(2), status.VDevs)
	assert.Empty(t, status.Errors)
}

func TestPoolStatusEmbeddedErrorMarker(t *testing.T) {
	// The agent reports pool-status failures inside a 200 body.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"cannot open 'tank': no such pool"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	_, err := c.PoolStatus(context.Background(), "tank")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.AgentReportedError))
	assert.True(t, errors.IsOperation(err))

	fe, _ := errors.AsFerretError(err)
	assert.Equal(t, "cannot open 'tank': no such pool", fe.Details)
}

func TestPoolStatusRejectsBadName(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the agent")
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	_, err := c.PoolStatus(context.Background(), "mirror")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NameReserved))
}

func TestCreatePoolBodyShape(t *testing.T) {
	tests := []struct {
		name     string
		raid     RaidType
		wantBody map[string]interface{}
	}{
		{
			name: "mirror",
			raid: RaidMirror,
			wantBody: map[string]interface{}{
				"name":      "tank",
				"disks":     []interface{}{"/dev/sda", "/dev/sdb"},
				"raid_type": "mirror",
			},
		},
		{
			// Single-disk layout travels as an absent raid_type field, not
			// as null, so older agents don't trip over it.
			name: "single omits raid_type",
			raid: RaidSingle,
			wantBody: map[string]interface{}{
				"name":  "tank",
				"disks": []interface{}{"/dev/sda", "/dev/sdb"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			var got map[string]interface{}
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/pools", r.URL.Path)
				body, _ := io.ReadAll(r.Body)
				mu.Lock()
				require.NoError(t, json.Unmarshal(body, &got))
				mu.Unlock()
				w.Write([]byte(`{"status":"success","message":"pool created"}`))
			}))
			defer ts.Close()

			c := newTestClient(t, ts, "k")
			err := c.CreatePool(context.Background(), "tank",
				[]string{"/dev/sda", "/dev/sdb"}, tt.raid)

			require.NoError(t, err)
			mu.Lock()
			assert.Equal(t, tt.wantBody, got)
			mu.Unlock()
		})
	}
}

func TestCreatePoolRequiresDisks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the agent")
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	err := c.CreatePool(context.Background(), "tank", nil, RaidSingle)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.RequestInvalid))
}

func TestDestroyPoolForceFlag(t *testing.T) {
	var gotForce []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/pools/tank", r.URL.Path)
		gotForce = append(gotForce, r.URL.Query().Get("force"))
		w.Write([]byte(`{"status":"success","message":"pool destroyed"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")

	require.NoError(t, c.DestroyPool(context.Background(), "tank", false))
	require.NoError(t, c.DestroyPool(context.Background(), "tank", true))

	assert.Equal(t, []string{"", "true"}, gotForce)
}

func TestDestroyPoolConflictDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("pool has datasets"))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	err := c.DestroyPool(context.Background(), "tank", false)

	require.Error(t, err)
	assert.True(t, errors.IsOperation(err))
	fe, _ := errors.AsFerretError(err)
	assert.Equal(t, "pool has datasets", fe.Details)
	assert.Equal(t, http.StatusConflict, fe.HTTPStatus)
}

func TestParseRaidType(t *testing.T) {
	tests := []struct {
		in      string
		want    RaidType
		wantErr bool
	}{
		{"single", RaidSingle, false},
		{"", RaidSingle, false},
		{"mirror", RaidMirror, false},
		{"raidz", RaidZ, false},
		{"raidz2", RaidZ2, false},
		{"raidz3", RaidZ3, false},
		{"raid5", RaidSingle, true},
	}

	for _, tt := range tests {
		got, err := ParseRaidType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}

	assert.Equal(t, "single", RaidSingle.String())
	assert.Equal(t, "raidz2", RaidZ2.String())
}
