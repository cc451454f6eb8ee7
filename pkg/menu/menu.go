// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package menu is the interactive front end. It walks pools, datasets,
// and snapshots as numbered lists (digits or arrows select), keeps a
// current-pool and current-dataset for the session, and runs every
// mutation through a form or a confirmation overlay. Entity state is
// never cached beyond the listing on screen; every action round-trips
// to the agent and refreshes.
package menu

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferrostor/ferret/pkg/foundry"
	"github.com/ferrostor/ferret/pkg/names"
)

type screen int

const (
	screenMain screen = iota
	screenPools
	screenDatasets
	screenSnapshots
	screenPoolStatus
)

// Model is the root Bubble Tea model for the menu.
type Model struct {
	client *foundry.Client

	screen screen
	width  int
	height int

	busy   bool   // an agent call is in flight
	status string // last successful action, shown under the list
	err    error  // last failure, rendered by kind

	pools     []string
	datasets  []string
	snapshots []string
	poolStat  *foundry.PoolStatus
	cursor    int

	// Session state. Convenience defaults only; the agent remains the
	// source of truth for what exists.
	currentPool    string
	currentDataset string

	form    *form
	confirm *confirm
}

// New creates the menu model. The client is borrowed; the caller closes it.
func New(client *foundry.Client) *Model {
	return &Model{
		client: client,
		screen: screenMain,
		busy:   true, // Init issues the first pool listing
	}
}

// Run drives the menu to completion on the caller's terminal.
func Run(client *foundry.Client) error {
	p := tea.NewProgram(New(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model. Pools are prefetched so the first screen
// change is instant and connection problems surface at launch.
func (m *Model) Init() tea.Cmd {
	return listPoolsCmd(m.client)
}

// Update implements tea.Model. All state changes happen here.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case poolsMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.pools = msg.Pools
		m.clampCursor(len(m.pools))
		return m, nil

	case datasetsMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.datasets = msg.Datasets
		m.clampCursor(len(m.datasets))
		return m, nil

	case snapshotsMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.snapshots = msg.Snapshots
		m.clampCursor(len(m.snapshots))
		return m, nil

	case poolStatusMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.poolStat = msg.Status
		m.screen = screenPoolStatus
		return m, nil

	case actionMsg:
		return m.finishAction(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// finishAction lands the result of a mutating call: overlays close either
// way, success updates session state and refreshes the active listing.
func (m *Model) finishAction(msg actionMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.Err != nil {
		m.err = msg.Err
		m.form = nil
		m.confirm = nil
		return m, nil
	}

	m.err = nil
	m.status = msg.Done

	if m.form != nil {
		switch m.form.kind {
		case formCreatePool:
			m.currentPool = m.form.value(0)
			m.currentDataset = ""
		case formCreateDataset:
			m.currentDataset = m.form.target + "/" + m.form.value(0)
		}
		m.form = nil
	}

	if m.confirm != nil {
		switch m.confirm.kind {
		case confirmDestroyPool:
			if m.currentPool == m.confirm.target {
				m.currentPool = ""
				m.currentDataset = ""
			}
		case confirmDeleteDataset:
			if m.currentDataset == m.confirm.target {
				m.currentDataset = ""
			}
		}
		m.confirm = nil
	}

	return m, m.refreshCmd()
}

// refreshCmd reloads whatever listing the active screen shows.
func (m *Model) refreshCmd() tea.Cmd {
	switch m.screen {
	case screenPools:
		m.busy = true
		return listPoolsCmd(m.client)
	case screenDatasets:
		m.busy = true
		return listDatasetsCmd(m.client, m.currentPool)
	case screenSnapshots:
		m.busy = true
		return listSnapshotsCmd(m.client, m.currentDataset)
	case screenPoolStatus:
		m.busy = true
		return poolStatusCmd(m.client, m.poolStat.Name)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.screen {
	case screenMain:
		return m.handleMainKey(msg)
	case screenPools:
		return m.handlePoolsKey(msg)
	case screenDatasets:
		return m.handleDatasetsKey(msg)
	case screenSnapshots:
		return m.handleSnapshotsKey(msg)
	case screenPoolStatus:
		return m.handlePoolStatusKey(msg)
	}
	return m, nil
}

// listLen is the entry count of the active screen's list.
func (m *Model) listLen() int {
	switch m.screen {
	case screenMain:
		return len(mainEntries)
	case screenPools:
		return len(m.pools)
	case screenDatasets:
		return len(m.datasets)
	case screenSnapshots:
		return len(m.snapshots)
	}
	return 0
}

// digitIndex translates a pressed digit into a 0-based list index, or -1.
func digitIndex(msg tea.KeyMsg, listLen int) int {
	if !key.Matches(msg, keys.Digit) {
		return -1
	}
	n, err := strconv.Atoi(msg.String())
	if err != nil || n < 1 || n > listLen {
		return -1
	}
	return n - 1
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := digitIndex(msg, len(mainEntries))
	if idx < 0 && key.Matches(msg, keys.Select) {
		idx = m.cursor
	}

	switch idx {
	case 0:
		return m.gotoPools()
	case 1:
		return m.gotoDatasets()
	case 2:
		return m.gotoSnapshots()
	}
	return m, nil
}

func (m *Model) gotoPools() (tea.Model, tea.Cmd) {
	m.screen = screenPools
	m.cursor = 0
	m.status = ""
	m.busy = true
	return m, listPoolsCmd(m.client)
}

func (m *Model) gotoDatasets() (tea.Model, tea.Cmd) {
	if m.currentPool == "" {
		m.status = "Select a pool first (Pools, then enter)"
		return m, nil
	}
	m.screen = screenDatasets
	m.cursor = 0
	m.status = ""
	m.busy = true
	return m, listDatasetsCmd(m.client, m.currentPool)
}

func (m *Model) gotoSnapshots() (tea.Model, tea.Cmd) {
	if m.currentDataset == "" {
		m.status = "Select a dataset first (Datasets, then enter)"
		return m, nil
	}
	m.screen = screenSnapshots
	m.cursor = 0
	m.status = ""
	m.busy = true
	return m, listSnapshotsCmd(m.client, m.currentDataset)
}

func (m *Model) handlePoolsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx := digitIndex(msg, len(m.pools)); idx >= 0 {
		m.cursor = idx
		return m.selectPool()
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.screen = screenMain
		m.cursor = 0
		return m, nil
	case key.Matches(msg, keys.Select):
		return m.selectPool()
	case key.Matches(msg, keys.Status):
		if len(m.pools) == 0 {
			return m, nil
		}
		m.busy = true
		return m, poolStatusCmd(m.client, m.pools[m.cursor])
	case key.Matches(msg, keys.Create):
		m.form = newCreatePoolForm()
		return m, nil
	case key.Matches(msg, keys.Delete):
		if len(m.pools) == 0 {
			return m, nil
		}
		m.confirm = newDestroyPoolConfirm(m.pools[m.cursor])
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.busy = true
		return m, listPoolsCmd(m.client)
	}
	return m, nil
}

func (m *Model) selectPool() (tea.Model, tea.Cmd) {
	if len(m.pools) == 0 {
		return m, nil
	}
	m.currentPool = m.pools[m.cursor]
	m.currentDataset = ""
	m.status = "Current pool set to " + m.currentPool
	return m, nil
}

func (m *Model) handleDatasetsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx := digitIndex(msg, len(m.datasets)); idx >= 0 {
		m.cursor = idx
		return m.selectDataset()
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.screen = screenMain
		m.cursor = 0
		return m, nil
	case key.Matches(msg, keys.Select):
		return m.selectDataset()
	case key.Matches(msg, keys.Create):
		m.form = newCreateDatasetForm(m.currentPool)
		return m, nil
	case key.Matches(msg, keys.Delete):
		if len(m.datasets) == 0 {
			return m, nil
		}
		m.confirm = newDeleteDatasetConfirm(m.datasets[m.cursor])
		return m, nil
	case key.Matches(msg, keys.Props):
		if len(m.datasets) == 0 {
			return m, nil
		}
		m.form = newSetPropertiesForm(m.datasets[m.cursor])
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.busy = true
		return m, listDatasetsCmd(m.client, m.currentPool)
	}
	return m, nil
}

func (m *Model) selectDataset() (tea.Model, tea.Cmd) {
	if len(m.datasets) == 0 {
		return m, nil
	}
	m.currentDataset = m.datasets[m.cursor]
	m.status = "Current dataset set to " + m.currentDataset
	return m, nil
}

func (m *Model) handleSnapshotsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx := digitIndex(msg, len(m.snapshots)); idx >= 0 {
		m.cursor = idx
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.screen = screenMain
		m.cursor = 0
		return m, nil
	case key.Matches(msg, keys.Create):
		m.form = newCreateSnapshotForm(m.currentDataset)
		return m, nil
	case key.Matches(msg, keys.Delete):
		if len(m.snapshots) == 0 {
			return m, nil
		}
		ref, err := names.ParseSnapshotRef(m.snapshots[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.confirm = newDeleteSnapshotConfirm(ref.Dataset, ref.Label)
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.busy = true
		return m, listSnapshotsCmd(m.client, m.currentDataset)
	}
	return m, nil
}

func (m *Model) handlePoolStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.screen = screenPools
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.busy = true
		return m, poolStatusCmd(m.client, m.poolStat.Name)
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.form = nil
		return m, nil
	case "up", "shift+tab":
		m.form.prev()
		return m, nil
	case "down", "tab":
		m.form.next()
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.onLastField() {
			return m.submitForm()
		}
		m.form.next()
		return m, nil
	default:
		return m, m.form.update(msg)
	}
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	cmd := m.form.submit(m.client)
	if cmd == nil {
		// validation failed; m.form.problem explains
		return m, nil
	}
	m.busy = true
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, keys.Yes):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.confirm.run(m.client)
	case key.Matches(msg, keys.No):
		m.confirm = nil
		return m, nil
	case key.Matches(msg, keys.Force):
		if m.confirm.kind == confirmDestroyPool {
			m.confirm.force = !m.confirm.force
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.confirm != nil:
		body = renderConfirm(m)
	case m.form != nil:
		body = renderForm(m)
	default:
		switch m.screen {
		case screenMain:
			body = renderMain(m)
		case screenPools:
			body = renderPools(m)
		case screenDatasets:
			body = renderDatasets(m)
		case screenSnapshots:
			body = renderSnapshots(m)
		case screenPoolStatus:
			body = renderPoolStatus(m)
		}
	}

	parts := []string{renderHeader(m), body}
	if line := renderNotice(m); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, renderFooter(m))
	return strings.Join(parts, "\n")
}
