// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferrostor/ferret/pkg/foundry"
)

type confirmKind int

const (
	confirmDestroyPool confirmKind = iota
	confirmDeleteDataset
	confirmDeleteSnapshot
)

// confirm is a pending destructive action awaiting y/n. Pool destruction
// additionally carries a force toggle for pools that still hold datasets.
type confirm struct {
	kind    confirmKind
	target  string // pool name, dataset name, or dataset@label
	dataset string // snapshot owner, confirmDeleteSnapshot only
	label   string
	force   bool
}

func newDestroyPoolConfirm(pool string) *confirm {
	return &confirm{kind: confirmDestroyPool, target: pool}
}

func newDeleteDatasetConfirm(dataset string) *confirm {
	return &confirm{kind: confirmDeleteDataset, target: dataset}
}

func newDeleteSnapshotConfirm(dataset, label string) *confirm {
	return &confirm{
		kind:    confirmDeleteSnapshot,
		target:  dataset + "@" + label,
		dataset: dataset,
		label:   label,
	}
}

func (cf *confirm) verb() string {
	switch cf.kind {
	case confirmDestroyPool:
		return "Destroy pool"
	case confirmDeleteDataset:
		return "Delete dataset"
	default:
		return "Delete snapshot"
	}
}

// run builds the agent call for the confirmed action.
func (cf *confirm) run(c *foundry.Client) tea.Cmd {
	switch cf.kind {
	case confirmDestroyPool:
		return destroyPoolCmd(c, cf.target, cf.force)
	case confirmDeleteDataset:
		return deleteDatasetCmd(c, cf.target)
	default:
		return deleteSnapshotCmd(c, cf.dataset, cf.label)
	}
}
