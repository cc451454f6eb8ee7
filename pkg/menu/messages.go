// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import "github.com/ferrostor/ferret/pkg/foundry"

// poolsMsg delivers a pool listing.
type poolsMsg struct {
	Pools []string
	Err   error
}

// poolStatusMsg delivers one pool's status record.
type poolStatusMsg struct {
	Status *foundry.PoolStatus
	Err    error
}

// datasetsMsg delivers a pool's dataset listing.
type datasetsMsg struct {
	Pool     string
	Datasets []string
	Err      error
}

// snapshotsMsg delivers a dataset's snapshot listing.
type snapshotsMsg struct {
	Dataset   string
	Snapshots []string
	Err       error
}

// actionMsg reports the outcome of a mutating call (create, destroy,
// delete, set properties). Done is the past-tense status line shown on
// success, e.g. "Pool tank created".
type actionMsg struct {
	Done string
	Err  error
}
