// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratastor/logger"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/foundry"
	"github.com/ferrostor/ferret/pkg/testutil"
)

// newTestFacade wires a full engine to a scripted agent. apiKey is what the
// client sends; what the agent demands is up to the test.
func newTestFacade(t *testing.T, apiKey string) (*gin.Engine, *testutil.FakeAgent) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv(constants.APIKeyEnvVar, "")

	agent := testutil.NewFakeAgent(t)
	host, port := agent.Endpoint()

	l, err := logger.New(logger.Config{LogLevel: "error"})
	require.NoError(t, err)

	client, err := foundry.New(foundry.ConnectionConfig{
		Host:    host,
		Port:    port,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
	}, l)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return newEngine(client, l), agent
}

func performRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// envelope is the facade's uniform response shape.
type envelope struct {
	Status    string              `json:"status"`
	Message   string              `json:"message"`
	Error     *errors.FerretError `json:"error"`
	Pools     []string            `json:"pools"`
	Datasets  []string            `json:"datasets"`
	Snapshots []string            `json:"snapshots"`
	Result    json.RawMessage     `json:"result"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env),
		"response body is not a JSON envelope: %s", w.Body.String())
	return env
}

func TestRouteRegistration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewProxyHandler(nil) // We just need the handler for route registration

	group := router.Group("/api/v1")
	handler.RegisterRoutes(group)

	routes := router.Routes()

	expectedRoutes := map[string]bool{
		"GET /api/v1/health":               false,
		"GET /api/v1/pools":                false,
		"POST /api/v1/pools":               false,
		"DELETE /api/v1/pools/:name":       false,
		"GET /api/v1/pools/:name/status":   false,
		"GET /api/v1/pools/:name/datasets": false,
		"POST /api/v1/datasets":            false,
		"DELETE /api/v1/datasets":          false,
		"PUT /api/v1/datasets/properties":  false,
		"GET /api/v1/snapshots":            false,
		"POST /api/v1/snapshots":           false,
		"DELETE /api/v1/snapshots":         false,
	}

	for _, route := range routes {
		path := route.Method + " " + route.Path
		if _, exists := expectedRoutes[path]; exists {
			expectedRoutes[path] = true
		}
	}

	for route, found := range expectedRoutes {
		if !found {
			t.Errorf("Expected route %s was not registered", route)
		}
	}
}

func TestPoolLifecycle(t *testing.T) {
	engine, _ := newTestFacade(t, "k")

	w := performRequest(engine, http.MethodPost, "/api/v1/pools",
		`{"name":"tank","disks":["/dev/sdb","/dev/sdc"],"raid_type":"mirror"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "success", decodeEnvelope(t, w).Status)

	w = performRequest(engine, http.MethodGet, "/api/v1/pools", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Pools, "tank")

	w = performRequest(engine, http.MethodGet, "/api/v1/pools/tank/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status foundry.PoolStatus
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Result, &status))
	assert.Equal(t, "tank", status.Name)
	assert.Equal(t, "ONLINE", status.Health)

	w = performRequest(engine, http.MethodDelete, "/api/v1/pools/tank", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(engine, http.MethodGet, "/api/v1/pools", "")
	assert.Empty(t, decodeEnvelope(t, w).Pools)
}

func TestDatasetLifecycle(t *testing.T) {
	engine, agent := newTestFacade(t, "k")
	agent.SeedPool("tank", "mirror", "/dev/sdb", "/dev/sdc")

	w := performRequest(engine, http.MethodPost, "/api/v1/datasets",
		`{"name":"tank/data","kind":"filesystem","properties":{"compression":"zstd"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(engine, http.MethodPut, "/api/v1/datasets/properties",
		`{"name":"tank/data","properties":{"atime":"off"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performRequest(engine, http.MethodGet, "/api/v1/pools/tank/datasets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Datasets, "tank/data")

	w = performRequest(engine, http.MethodDelete, "/api/v1/datasets", `{"name":"tank/data"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(engine, http.MethodGet, "/api/v1/pools/tank/datasets", "")
	assert.Empty(t, decodeEnvelope(t, w).Datasets)
}

func TestSnapshotFlow(t *testing.T) {
	engine, agent := newTestFacade(t, "k")
	agent.SeedPool("tank", "", "/dev/sdb")
	agent.SeedDataset("tank/data", nil)

	w := performRequest(engine, http.MethodPost, "/api/v1/snapshots",
		`{"name":"tank/data","snapshot_name":"nightly"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(engine, http.MethodGet, "/api/v1/snapshots", `{"name":"tank/data"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tank/data@nightly"}, decodeEnvelope(t, w).Snapshots)

	w = performRequest(engine, http.MethodDelete, "/api/v1/snapshots",
		`{"name":"tank/data@nightly"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performRequest(engine, http.MethodGet, "/api/v1/snapshots", `{"name":"tank/data"}`)
	assert.Empty(t, decodeEnvelope(t, w).Snapshots)
}

func TestAuthenticationFailureMapsTo401(t *testing.T) {
	engine, agent := newTestFacade(t, "wrong")
	agent.RequireAPIKey("secret")

	w := performRequest(engine, http.MethodGet, "/api/v1/pools", "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.KindAuthentication, env.Error.Kind)
}

func TestUnreachableAgentMapsTo502(t *testing.T) {
	engine, agent := newTestFacade(t, "k")
	agent.Close()

	w := performRequest(engine, http.MethodGet, "/api/v1/pools", "")

	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.KindConnection, env.Error.Kind)
}

func TestAgentStatusIsPreserved(t *testing.T) {
	engine, agent := newTestFacade(t, "k")
	agent.SeedPool("tank", "", "/dev/sdb")
	agent.SeedDataset("tank/data", nil)

	// Without force the agent refuses with a 409 and the facade must not
	// flatten it into a 500.
	w := performRequest(engine, http.MethodDelete, "/api/v1/pools/tank", "")

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.KindOperation, env.Error.Kind)
	assert.Contains(t, env.Error.Details, "pool has datasets")

	w = performRequest(engine, http.MethodDelete, "/api/v1/pools/tank?force=true", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidNameMapsTo400(t *testing.T) {
	engine, _ := newTestFacade(t, "k")

	w := performRequest(engine, http.MethodPost, "/api/v1/pools",
		`{"name":"mirror","disks":["/dev/sdb"]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.ErrorCode(errors.NameReserved), env.Error.Code)
}

func TestMalformedBodyMapsTo400(t *testing.T) {
	engine, _ := newTestFacade(t, "k")

	w := performRequest(engine, http.MethodPost, "/api/v1/pools", `{"disks":[]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.ErrorCode(errors.ServerRequestValidation), env.Error.Code)
}

func TestHealthProxy(t *testing.T) {
	engine, agent := newTestFacade(t, "k")

	w := performRequest(engine, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var hs foundry.HealthStatus
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Result, &hs))
	assert.Equal(t, "healthy", hs.Status)

	agent.Close()
	w = performRequest(engine, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestLivenessAndMetricsEndpoints(t *testing.T) {
	engine, _ := newTestFacade(t, "k")

	w := performRequest(engine, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Generate one measured request, then scrape.
	performRequest(engine, http.MethodGet, "/api/v1/pools", "")

	w = performRequest(engine, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ferret_requests_total")
	assert.Contains(t, w.Body.String(), "ferret_request_duration_seconds")
}
