// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"github.com/ferrostor/ferret/pkg/errors"
)

// RaidType is the redundancy scheme for a new pool. The zero value selects
// individual disks with no redundancy; it serializes as an absent field
// because the agent treats a missing raid_type as single-disk layout and
// some agent versions mishandle an explicit null.
type RaidType string

const (
	RaidSingle RaidType = ""
	RaidMirror RaidType = "mirror"
	RaidZ      RaidType = "raidz"
	RaidZ2     RaidType = "raidz2"
	RaidZ3     RaidType = "raidz3"
)

// ParseRaidType maps user input to a RaidType. "single" and the empty
// string both select the no-redundancy layout.
func ParseRaidType(s string) (RaidType, error) {
	switch s {
	case "", "single":
		return RaidSingle, nil
	case "mirror":
		return RaidMirror, nil
	case "raidz":
		return RaidZ, nil
	case "raidz2":
		return RaidZ2, nil
	case "raidz3":
		return RaidZ3, nil
	default:
		return RaidSingle, errors.New(errors.RequestInvalid,
			"raid type must be one of: single, mirror, raidz, raidz2, raidz3")
	}
}

func (r RaidType) String() string {
	if r == RaidSingle {
		return "single"
	}
	return string(r)
}

// DatasetKind is the closed set of dataset types the agent manages.
type DatasetKind string

const (
	KindFilesystem DatasetKind = "filesystem"
	KindVolume     DatasetKind = "volume"
)

// ParseDatasetKind maps user input to a DatasetKind.
func ParseDatasetKind(s string) (DatasetKind, error) {
	switch s {
	case "filesystem", "fs":
		return KindFilesystem, nil
	case "volume", "vol":
		return KindVolume, nil
	default:
		return "", errors.New(errors.RequestInvalid,
			"dataset kind must be one of: filesystem, volume")
	}
}

// PoolStatus is the agent's status record for a single pool. Health is an
// opaque string (ONLINE, DEGRADED, ...) owned by the agent.
type PoolStatus struct {
	Name      string `json:"name"`
	Health    string `json:"health"`
	Size      uint64 `json:"size"`
	Allocated uint64 `json:"allocated"`
	Free      int64  `json:"free"`
	Capacity  uint8  `json:"capacity"`
	VDevs     uint32 `json:"vdevs"`
	Errors    string `json:"errors,omitempty"`
}

// HealthStatus is the agent's health probe payload.
type HealthStatus struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	LastAction string `json:"last_action"`
}

// Collection envelopes. Absent or null arrays decode as empty slices.
type poolListResponse struct {
	Pools  []string `json:"pools"`
	Status string   `json:"status"`
}

type datasetListResponse struct {
	Datasets []string `json:"datasets"`
	Status   string   `json:"status"`
}

type snapshotListResponse struct {
	Snapshots []string `json:"snapshots"`
	Status    string   `json:"status"`
}

// statusProbe picks the embedded status marker out of a success-shaped
// body, for the endpoints where the agent answers 200 with an error inside.
type statusProbe struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type createPoolRequest struct {
	Name     string   `json:"name"`
	Disks    []string `json:"disks"`
	RaidType RaidType `json:"raid_type,omitempty"`
}

type createDatasetRequest struct {
	Name       string            `json:"name"`
	Kind       DatasetKind       `json:"kind"`
	Properties map[string]string `json:"properties"`
}

type setPropertiesRequest struct {
	Name       string            `json:"name"`
	Kind       DatasetKind       `json:"kind"`
	Properties map[string]string `json:"properties"`
}

type createSnapshotRequest struct {
	SnapshotName string `json:"snapshot_name"`
}
