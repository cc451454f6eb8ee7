// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/names"
)

func TestListSnapshots(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/snapshots/tank/data", r.URL.Path)
		w.Write([]byte(`{"snapshots":["tank/data@snap1","tank/data@nightly"],"status":"success"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	snaps, err := c.ListSnapshots(context.Background(), "tank/data")

	require.NoError(t, err)
	assert.Equal(t, []string{"tank/data@snap1", "tank/data@nightly"}, snaps)
}

func TestSnapshotLabelRoundTrip(t *testing.T) {
	// A listed snapshot reference yields the label that DeleteSnapshot
	// needs, and feeding that label back targets the same snapshot.
	var deletedPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.Write([]byte(`{"status":"success","message":"snapshot destroyed"}`))
		default:
			w.Write([]byte(`{"snapshots":["pool/ds@snap1"],"status":"success"}`))
		}
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	snaps, err := c.ListSnapshots(context.Background(), "pool/ds")
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	ref, err := names.ParseSnapshotRef(snaps[0])
	require.NoError(t, err)
	assert.Equal(t, "snap1", ref.Label)
	assert.Equal(t, "pool/ds", ref.Dataset)

	require.NoError(t, c.DeleteSnapshot(context.Background(), ref.Dataset, ref.Label))
	assert.Equal(t, "/snapshots/pool/ds/snap1", deletedPath)
}

func TestListSnapshotsAbsentFieldMeansEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	snaps, err := c.ListSnapshots(context.Background(), "tank/data")

	require.NoError(t, err)
	assert.NotNil(t, snaps)
	assert.Empty(t, snaps)
}

func TestCreateSnapshotRequestShape(t *testing.T) {
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/snapshots/tank/data", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"status":"success","message":"snapshot created"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	require.NoError(t, c.CreateSnapshot(context.Background(), "tank/data", "before-upgrade"))

	assert.JSONEq(t, `{"snapshot_name":"before-upgrade"}`, string(gotBody))
}

func TestCreateSnapshotRejectsBadLabel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the agent")
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")

	err := c.CreateSnapshot(context.Background(), "tank/data", "a@b")
	require.Error(t, err)
	assert.True(t, errors.IsOperation(err))

	err = c.CreateSnapshot(context.Background(), "tank/data", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NameEmptyComponent))
}

func TestDeleteSnapshotEncodesBothSegments(t *testing.T) {
	var gotEscaped string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotEscaped = r.URL.EscapedPath()
		w.Write([]byte(`{"status":"success","message":"snapshot destroyed"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	require.NoError(t, c.DeleteSnapshot(context.Background(), "tank/my data", "pre upgrade"))

	assert.Equal(t, "/snapshots/tank/my%20data/pre%20upgrade", gotEscaped)
}

func TestDeleteSnapshotRejectsBadDataset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the agent")
	}))
	defer ts.Close()

	c := newTestClient(t, ts, "k")
	err := c.DeleteSnapshot(context.Background(), "tank/data@oops", "snap1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NameInvalidChar))
}
