// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/foundry"
	"github.com/ferrostor/ferret/pkg/names"
)

// ProxyHandler re-exposes the agent operations over the facade. Names that
// can contain '/' (datasets, snapshot references) travel in request bodies,
// never in URL paths; pool names are path parameters.
type ProxyHandler struct {
	client *foundry.Client
}

func NewProxyHandler(client *foundry.Client) *ProxyHandler {
	return &ProxyHandler{client: client}
}

// Request types

type createPoolRequest struct {
	Name     string   `json:"name"     binding:"required"`
	Disks    []string `json:"disks"    binding:"required"`
	RaidType string   `json:"raid_type"`
}

type datasetRequest struct {
	Name string `json:"name" binding:"required"`
}

type createDatasetRequest struct {
	Name       string            `json:"name" binding:"required"`
	Kind       string            `json:"kind" binding:"required"`
	Properties map[string]string `json:"properties"`
}

type setPropertiesRequest struct {
	Name       string            `json:"name"       binding:"required"`
	Properties map[string]string `json:"properties" binding:"required"`
}

type createSnapshotRequest struct {
	Name         string `json:"name"          binding:"required"`
	SnapshotName string `json:"snapshot_name" binding:"required"`
}

// Health:
//
//	GET    /health               Proxied agent health probe
//	  Response: {"status": "success", "result": {"status": "healthy", ...}}
//
// Pool Operations:
//
//	GET    /pools                List pools
//	  Response: {"status": "success", "pools": [...]}
//
//	POST   /pools                Create pool
//	  Request:  {"name": "tank", "disks": ["/dev/sdb", "/dev/sdc"], "raid_type": "mirror"}
//	  Response: 201 {"status": "success", "message": "pool created"}
//
//	DELETE /pools/:name          Destroy pool (?force=true)
//	  Response: {"status": "success", "message": "pool destroyed"}
//
//	GET    /pools/:name/status   Pool status
//	  Response: {"status": "success", "result": {...}}
//
//	GET    /pools/:name/datasets List datasets of a pool
//	  Response: {"status": "success", "datasets": [...]}
//
// Dataset Operations:
//
//	POST   /datasets             Create dataset
//	  Request:  {"name": "tank/data", "kind": "filesystem", "properties": {"compression": "zstd"}}
//	  Response: 201 {"status": "success", "message": "dataset created"}
//
//	DELETE /datasets             Destroy dataset
//	  Request:  {"name": "tank/data"}
//	  Response: {"status": "success", "message": "dataset destroyed"}
//
//	PUT    /datasets/properties  Set dataset properties
//	  Request:  {"name": "tank/data", "properties": {"atime": "off"}}
//	  Response: {"status": "success", "message": "properties updated"}
//
// Snapshot Operations:
//
//	GET    /snapshots            List snapshots of a dataset
//	  Request:  {"name": "tank/data"}
//	  Response: {"status": "success", "snapshots": ["tank/data@snap1", ...]}
//
//	POST   /snapshots            Create snapshot
//	  Request:  {"name": "tank/data", "snapshot_name": "nightly"}
//	  Response: 201 {"status": "success", "message": "snapshot created"}
//
//	DELETE /snapshots            Destroy snapshot
//	  Request:  {"name": "tank/data@nightly"}
//	  Response: {"status": "success", "message": "snapshot destroyed"}
func (h *ProxyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.health)

	pools := router.Group("/pools")
	{
		pools.GET("", h.listPools)
		pools.POST("", h.createPool)
		pools.DELETE("/:name", h.destroyPool)
		pools.GET("/:name/status", h.poolStatus)
		pools.GET("/:name/datasets", h.listDatasets)
	}

	datasets := router.Group("/datasets")
	{
		datasets.POST("", h.createDataset)
		datasets.DELETE("", h.deleteDataset)
		datasets.PUT("/properties", h.setProperties)
	}

	snapshots := router.Group("/snapshots")
	{
		snapshots.GET("", h.listSnapshots)
		snapshots.POST("", h.createSnapshot)
		snapshots.DELETE("", h.deleteSnapshot)
	}
}

// respondError maps a client error onto the facade response. The error's
// own HTTPStatus carries the classification: 401 for authentication, 502
// for an unreachable agent, the agent's status for operation failures.
// Anything else is a plain 500.
func (h *ProxyHandler) respondError(c *gin.Context, err error) {
	c.Error(err)
	if fe, ok := errors.AsFerretError(err); ok && fe.HTTPStatus != 0 {
		c.JSON(fe.HTTPStatus, gin.H{"status": "error", "error": fe})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"status": "error",
		"error":  gin.H{"message": err.Error()},
	})
}

func (h *ProxyHandler) bindError(c *gin.Context, err error) {
	h.respondError(c, errors.New(errors.ServerRequestValidation, err.Error()))
}

func (h *ProxyHandler) health(c *gin.Context) {
	hs, err := h.client.Health(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "result": hs})
}

func (h *ProxyHandler) listPools(c *gin.Context) {
	pools, err := h.client.ListPools(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "pools": pools})
}

func (h *ProxyHandler) createPool(c *gin.Context) {
	var req createPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	raid, err := foundry.ParseRaidType(req.RaidType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.client.CreatePool(c.Request.Context(), req.Name, req.Disks, raid); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "pool created"})
}

func (h *ProxyHandler) destroyPool(c *gin.Context) {
	name := c.Param("name")
	force := c.Query("force") == "true"

	if err := h.client.DestroyPool(c.Request.Context(), name, force); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "pool destroyed"})
}

func (h *ProxyHandler) poolStatus(c *gin.Context) {
	status, err := h.client.PoolStatus(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "result": status})
}

func (h *ProxyHandler) listDatasets(c *gin.Context) {
	datasets, err := h.client.ListDatasets(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "datasets": datasets})
}

func (h *ProxyHandler) createDataset(c *gin.Context) {
	var req createDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	kind, err := foundry.ParseDatasetKind(req.Kind)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.client.CreateDataset(c.Request.Context(), req.Name, kind, req.Properties); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "dataset created"})
}

func (h *ProxyHandler) deleteDataset(c *gin.Context) {
	var req datasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.client.DeleteDataset(c.Request.Context(), req.Name); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "dataset destroyed"})
}

func (h *ProxyHandler) setProperties(c *gin.Context) {
	var req setPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.client.SetDatasetProperties(c.Request.Context(), req.Name, req.Properties); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "properties updated"})
}

func (h *ProxyHandler) listSnapshots(c *gin.Context) {
	var req datasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	snaps, err := h.client.ListSnapshots(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "snapshots": snaps})
}

func (h *ProxyHandler) createSnapshot(c *gin.Context) {
	var req createSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.client.CreateSnapshot(c.Request.Context(), req.Name, req.SnapshotName); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "snapshot created"})
}

func (h *ProxyHandler) deleteSnapshot(c *gin.Context) {
	var req datasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	ref, err := names.ParseSnapshotRef(req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.client.DeleteSnapshot(c.Request.Context(), ref.Dataset, ref.Label); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "snapshot destroyed"})
}
