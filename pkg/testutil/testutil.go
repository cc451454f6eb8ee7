// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides a scripted in-memory Foundry agent for tests
// that need a live endpoint behind the client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/exp/rand"
)

const (
	// TestPoolPrefix is used as prefix for test pool names
	TestPoolPrefix = "test"

	// TestPoolNameLength is the length of random suffix
	TestPoolNameLength = 6

	// Chars used for random name generation
	poolNameChars = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GeneratePoolName creates a unique pool name for testing
func GeneratePoolName() string {
	rand.Seed(uint64(time.Now().UnixNano()))
	suffix := make([]byte, TestPoolNameLength)
	for i := range suffix {
		suffix[i] = poolNameChars[rand.Intn(len(poolNameChars))]
	}
	return fmt.Sprintf("%s-%s", TestPoolPrefix, string(suffix))
}

type poolState struct {
	raidType string
	disks    []string
	health   string
	capacity uint8
	datasets map[string]map[string]string
	snaps    map[string][]string
}

// FakeAgent is an in-memory Foundry agent behind an httptest server. It
// keeps real pool, dataset, and snapshot state so a sequence of calls
// behaves like a sequence, not a set of canned replies. All mutators are
// safe for concurrent use.
type FakeAgent struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	apiKey string
	health string
	pools  map[string]*poolState

	// forced, when set, answers exactly one request and is cleared.
	forced *forcedReply
}

type forcedReply struct {
	status int
	body   string
}

// NewFakeAgent starts an agent with no pools and a healthy probe. The
// server shuts down with the test.
func NewFakeAgent(t *testing.T) *FakeAgent {
	a := &FakeAgent{
		t:      t,
		health: "healthy",
		pools:  make(map[string]*poolState),
	}
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
	t.Cleanup(a.server.Close)
	return a
}

// URL returns the agent's base URL.
func (a *FakeAgent) URL() string {
	return a.server.URL
}

// Endpoint splits the agent address into the host and port the client
// config wants.
func (a *FakeAgent) Endpoint() (string, int) {
	u := strings.TrimPrefix(a.server.URL, "http://")
	host, portStr, err := net.SplitHostPort(u)
	if err != nil {
		a.t.Fatalf("unparseable test server address %q: %v", a.server.URL, err)
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// Close shuts the agent down early, turning subsequent calls into
// connection failures.
func (a *FakeAgent) Close() {
	a.server.Close()
}

// RequireAPIKey makes the agent reject requests that do not carry the key.
func (a *FakeAgent) RequireAPIKey(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.apiKey = key
}

// SetHealth changes what the health probe reports.
func (a *FakeAgent) SetHealth(status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.health = status
}

// FailNext scripts the next request to answer with the given status and
// body, then resumes normal behavior.
func (a *FakeAgent) FailNext(status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forced = &forcedReply{status: status, body: body}
}

// SeedPool registers a pool without going through the create endpoint.
func (a *FakeAgent) SeedPool(name, raidType string, disks ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pools[name] = &poolState{
		raidType: raidType,
		disks:    disks,
		health:   "ONLINE",
		capacity: 10,
		datasets: make(map[string]map[string]string),
		snaps:    make(map[string][]string),
	}
}

// SetPoolHealth overrides what the status endpoint reports for a pool.
func (a *FakeAgent) SetPoolHealth(name, health string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.pools[name]; p != nil {
		p.health = health
	}
}

// SetPoolCapacity overrides the reported fill percentage for a pool.
func (a *FakeAgent) SetPoolCapacity(name string, pct uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.pools[name]; p != nil {
		p.capacity = pct
	}
}

// SeedDataset registers a dataset on an already seeded pool.
func (a *FakeAgent) SeedDataset(name string, props map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.pools[poolOf(name)]
	if p == nil {
		a.t.Fatalf("SeedDataset: pool of %q not seeded", name)
	}
	if props == nil {
		props = map[string]string{}
	}
	p.datasets[name] = props
}

// SeedSnapshot registers a snapshot on an already seeded dataset.
func (a *FakeAgent) SeedSnapshot(dataset, label string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.pools[poolOf(dataset)]
	if p == nil {
		a.t.Fatalf("SeedSnapshot: pool of %q not seeded", dataset)
	}
	p.snaps[dataset] = append(p.snaps[dataset], label)
}

func poolOf(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}

func (a *FakeAgent) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.forced != nil {
		f := a.forced
		a.forced = nil
		w.WriteHeader(f.status)
		fmt.Fprint(w, f.body)
		return
	}

	if a.apiKey != "" && r.Header.Get("X-API-Key") != a.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","message":"invalid or missing API key"}`)
		return
	}

	path := r.URL.Path
	switch {
	case path == "/health":
		a.reply(w, map[string]string{
			"status": a.health, "version": "0.0.0-fake", "last_action": "none",
		})

	case path == "/pools" && r.Method == http.MethodGet:
		names := make([]string, 0, len(a.pools))
		for n := range a.pools {
			names = append(names, n)
		}
		a.reply(w, map[string]interface{}{"status": "success", "pools": names})

	case path == "/pools" && r.Method == http.MethodPost:
		a.createPool(w, r)

	case strings.HasPrefix(path, "/pools/") && r.Method == http.MethodGet:
		a.poolStatus(w, strings.TrimPrefix(path, "/pools/"))

	case strings.HasPrefix(path, "/pools/") && r.Method == http.MethodDelete:
		a.destroyPool(w, strings.TrimPrefix(path, "/pools/"),
			r.URL.Query().Get("force") == "true")

	case path == "/datasets" && r.Method == http.MethodPost:
		a.createDataset(w, r)

	case strings.HasPrefix(path, "/datasets/") && strings.HasSuffix(path, "/properties") &&
		r.Method == http.MethodPost:
		name := strings.TrimSuffix(strings.TrimPrefix(path, "/datasets/"), "/properties")
		a.setProperties(w, r, name)

	case strings.HasPrefix(path, "/datasets/") && r.Method == http.MethodGet:
		a.listDatasets(w, strings.TrimPrefix(path, "/datasets/"))

	case strings.HasPrefix(path, "/datasets/") && r.Method == http.MethodDelete:
		a.deleteDataset(w, strings.TrimPrefix(path, "/datasets/"))

	case strings.HasPrefix(path, "/snapshots/") && r.Method == http.MethodGet:
		a.listSnapshots(w, strings.TrimPrefix(path, "/snapshots/"))

	case strings.HasPrefix(path, "/snapshots/") && r.Method == http.MethodPost:
		a.createSnapshot(w, r, strings.TrimPrefix(path, "/snapshots/"))

	case strings.HasPrefix(path, "/snapshots/") && r.Method == http.MethodDelete:
		ref := strings.TrimPrefix(path, "/snapshots/")
		slash := strings.LastIndexByte(ref, '/')
		if slash < 0 {
			a.fail(w, http.StatusBadRequest, "snapshot path must be dataset/label")
			return
		}
		a.deleteSnapshot(w, ref[:slash], ref[slash+1:])

	default:
		a.fail(w, http.StatusNotFound, "no such endpoint: "+path)
	}
}

func (a *FakeAgent) reply(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (a *FakeAgent) fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": message})
}

func (a *FakeAgent) createPool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string   `json:"name"`
		Disks    []string `json:"disks"`
		RaidType string   `json:"raid_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if _, exists := a.pools[req.Name]; exists {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot create '%s': pool already exists", req.Name))
		return
	}
	a.pools[req.Name] = &poolState{
		raidType: req.RaidType,
		disks:    req.Disks,
		health:   "ONLINE",
		capacity: 10,
		datasets: make(map[string]map[string]string),
		snaps:    make(map[string][]string),
	}
	a.reply(w, map[string]string{"status": "success", "message": "pool created"})
}

func (a *FakeAgent) poolStatus(w http.ResponseWriter, name string) {
	p, ok := a.pools[name]
	if !ok {
		// The agent's status endpoint reports missing pools inside a 200.
		a.reply(w, map[string]string{
			"status":  "error",
			"message": fmt.Sprintf("cannot open '%s': no such pool", name),
		})
		return
	}
	size := uint64(len(p.disks)) * 64 << 20
	allocated := size * uint64(p.capacity) / 100
	a.reply(w, map[string]interface{}{
		"name":      name,
		"health":    p.health,
		"size":      size,
		"allocated": allocated,
		"free":      size - allocated,
		"capacity":  p.capacity,
		"vdevs":     len(p.disks),
	})
}

func (a *FakeAgent) destroyPool(w http.ResponseWriter, name string, force bool) {
	p, ok := a.pools[name]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot destroy '%s': no such pool", name))
		return
	}
	if len(p.datasets) > 0 && !force {
		a.fail(w, http.StatusConflict,
			fmt.Sprintf("cannot destroy '%s': pool has datasets", name))
		return
	}
	delete(a.pools, name)
	a.reply(w, map[string]string{"status": "success", "message": "pool destroyed"})
}

func (a *FakeAgent) createDataset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string            `json:"name"`
		Kind       string            `json:"kind"`
		Properties map[string]string `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, ok := a.pools[poolOf(req.Name)]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot create '%s': no such pool '%s'", req.Name, poolOf(req.Name)))
		return
	}
	if req.Properties == nil {
		req.Properties = map[string]string{}
	}
	p.datasets[req.Name] = req.Properties
	a.reply(w, map[string]string{"status": "success", "message": "dataset created"})
}

func (a *FakeAgent) listDatasets(w http.ResponseWriter, pool string) {
	p, ok := a.pools[pool]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot open '%s': no such pool", pool))
		return
	}
	names := make([]string, 0, len(p.datasets))
	for n := range p.datasets {
		names = append(names, n)
	}
	a.reply(w, map[string]interface{}{"status": "success", "datasets": names})
}

func (a *FakeAgent) deleteDataset(w http.ResponseWriter, name string) {
	p, ok := a.pools[poolOf(name)]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot destroy '%s': dataset does not exist", name))
		return
	}
	if _, ok := p.datasets[name]; !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot destroy '%s': dataset does not exist", name))
		return
	}
	delete(p.datasets, name)
	delete(p.snaps, name)
	a.reply(w, map[string]string{"status": "success", "message": "dataset destroyed"})
}

func (a *FakeAgent) setProperties(w http.ResponseWriter, r *http.Request, name string) {
	var req struct {
		Name       string            `json:"name"`
		Kind       string            `json:"kind"`
		Properties map[string]string `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, ok := a.pools[poolOf(name)]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot set properties on '%s': dataset does not exist", name))
		return
	}
	props, ok := p.datasets[name]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot set properties on '%s': dataset does not exist", name))
		return
	}
	for k, v := range req.Properties {
		props[k] = v
	}
	a.reply(w, map[string]string{"status": "success", "message": "properties updated"})
}

func (a *FakeAgent) listSnapshots(w http.ResponseWriter, dataset string) {
	p, ok := a.pools[poolOf(dataset)]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot open '%s': dataset does not exist", dataset))
		return
	}
	if _, ok := p.datasets[dataset]; !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot open '%s': dataset does not exist", dataset))
		return
	}
	refs := make([]string, 0, len(p.snaps[dataset]))
	for _, label := range p.snaps[dataset] {
		refs = append(refs, dataset+"@"+label)
	}
	a.reply(w, map[string]interface{}{"status": "success", "snapshots": refs})
}

func (a *FakeAgent) createSnapshot(w http.ResponseWriter, r *http.Request, dataset string) {
	var req struct {
		SnapshotName string `json:"snapshot_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, ok := a.pools[poolOf(dataset)]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot snapshot '%s': dataset does not exist", dataset))
		return
	}
	if _, ok := p.datasets[dataset]; !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot snapshot '%s': dataset does not exist", dataset))
		return
	}
	for _, label := range p.snaps[dataset] {
		if label == req.SnapshotName {
			a.fail(w, http.StatusInternalServerError,
				fmt.Sprintf("cannot snapshot '%s@%s': snapshot exists", dataset, req.SnapshotName))
			return
		}
	}
	p.snaps[dataset] = append(p.snaps[dataset], req.SnapshotName)
	a.reply(w, map[string]string{"status": "success", "message": "snapshot created"})
}

func (a *FakeAgent) deleteSnapshot(w http.ResponseWriter, dataset, label string) {
	p, ok := a.pools[poolOf(dataset)]
	if !ok {
		a.fail(w, http.StatusInternalServerError,
			fmt.Sprintf("cannot destroy '%s@%s': snapshot does not exist", dataset, label))
		return
	}
	labels := p.snaps[dataset]
	for i, l := range labels {
		if l == label {
			p.snaps[dataset] = append(labels[:i], labels[i+1:]...)
			a.reply(w, map[string]string{"status": "success", "message": "snapshot destroyed"})
			return
		}
	}
	a.fail(w, http.StatusInternalServerError,
		fmt.Sprintf("cannot destroy '%s@%s': snapshot does not exist", dataset, label))
}
