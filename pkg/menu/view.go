// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/format"
)

var mainEntries = []string{
	"Pool Management",
	"Dataset Management",
	"Snapshot Management",
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// renderHeader renders the full-width bar: connection on the left, the
// session's current pool and dataset on the right.
func renderHeader(m *Model) string {
	width := m.viewWidth()
	conn := m.client.Config()
	left := fmt.Sprintf("Ferret  %s:%d", conn.Host, conn.Port)

	var right string
	if m.currentPool != "" {
		right = "pool: " + m.currentPool
	}
	if m.currentDataset != "" {
		right += "  dataset: " + m.currentDataset
	}

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleHeader.Width(width).MaxWidth(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderList renders entries as a 1-based numbered list with the cursor
// row highlighted and the session's current entry marked.
func renderList(entries []string, cursor int, current, empty string) string {
	if len(entries) == 0 {
		return styleDim.Render("  " + empty)
	}
	lines := make([]string, 0, len(entries))
	for i, name := range entries {
		line := fmt.Sprintf("  %d. %s", i+1, name)
		if current != "" && name == current {
			line += "  (current)"
		}
		if i == cursor {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderMain(m *Model) string {
	title := styleTitle.Render("Foundry Agent Management")
	return title + "\n\n" + renderList(mainEntries, m.cursor, "", "")
}

func renderPools(m *Model) string {
	title := styleTitle.Render("Pools")
	return title + "\n\n" + renderList(m.pools, m.cursor, m.currentPool, "No pools found.")
}

func renderDatasets(m *Model) string {
	title := styleTitle.Render("Datasets in " + m.currentPool)
	return title + "\n\n" + renderList(m.datasets, m.cursor, m.currentDataset,
		"No datasets in pool "+m.currentPool+".")
}

func renderSnapshots(m *Model) string {
	title := styleTitle.Render("Snapshots of " + m.currentDataset)
	return title + "\n\n" + renderList(m.snapshots, m.cursor, "",
		"No snapshots of "+m.currentDataset+".")
}

func renderPoolStatus(m *Model) string {
	st := m.poolStat
	if st == nil {
		return ""
	}

	lines := []string{
		styleTitle.Render("Pool " + st.Name),
		"",
		"  Health:     " + healthStyle(st.Health).Render(st.Health),
		"  Size:       " + format.Bytes(st.Size),
		fmt.Sprintf("  Allocated:  %s (%s)", format.Bytes(st.Allocated), format.Percent(st.Capacity)),
		"  Free:       " + format.SignedBytes(st.Free),
		fmt.Sprintf("  Vdevs:      %d", st.VDevs),
	}
	if st.Errors != "" {
		lines = append(lines, "  Errors:     "+styleOpErr.Render(st.Errors))
	}
	return strings.Join(lines, "\n")
}

func renderForm(m *Model) string {
	f := m.form
	lines := []string{styleTitle.Render(f.title), ""}

	for i := range f.fields {
		field := &f.fields[i]
		label := fmt.Sprintf("  %-24s", field.label)
		if i == f.focused {
			label = styleTitle.Render(label)
		}
		lines = append(lines, label+field.input.View())
		if field.hint != "" {
			lines = append(lines, "  "+strings.Repeat(" ", 24)+styleDim.Render(field.hint))
		}
	}

	if f.problem != "" {
		lines = append(lines, "", "  "+styleOpErr.Render(f.problem))
	}
	return strings.Join(lines, "\n")
}

func renderConfirm(m *Model) string {
	cf := m.confirm

	lines := []string{
		styleTitle.Render(cf.verb() + " Confirmation"),
		"",
		"  " + styleConnErr.Render("WARNING: This action cannot be undone."),
		"",
		fmt.Sprintf("  %s '%s'?", cf.verb(), cf.target),
	}

	if cf.kind == confirmDestroyPool {
		state := "off"
		if cf.force {
			state = "on"
		}
		lines = append(lines, "",
			"  Force: "+state+"  "+styleDim.Render("(f toggles; forces pools that still hold datasets)"))
	}

	lines = append(lines, "", "  "+styleAuthErr.Render("Press y to confirm, n or esc to cancel."))
	return strings.Join(lines, "\n")
}

// renderNotice is the single line under the body: the last error styled by
// kind, or the last successful action.
func renderNotice(m *Model) string {
	if m.err != nil {
		return "  " + renderError(m.err)
	}
	if m.status != "" {
		return "  " + styleOK.Render(m.status)
	}
	return ""
}

// renderError gives each failure kind a distinct prefix and style, so an
// unreachable agent never reads like a rejected request.
func renderError(err error) string {
	msg := err.Error()
	if fe, ok := errors.AsFerretError(err); ok {
		msg = fe.Message
		if fe.Details != "" {
			msg += ": " + fe.Details
		}
	}

	switch {
	case errors.IsConnection(err):
		return styleConnErr.Render("agent unreachable: " + msg)
	case errors.IsAuthentication(err):
		return styleAuthErr.Render("authentication failed: " + msg)
	case errors.IsOperation(err):
		return styleOpErr.Render("operation failed: " + msg)
	default:
		return styleOpErr.Render("error: " + msg)
	}
}

func renderFooter(m *Model) string {
	text := footerHint(m)
	if m.busy {
		text = "working...  " + text
	}
	return styleDim.Width(m.viewWidth()).Render(text)
}

func footerHint(m *Model) string {
	switch {
	case m.confirm != nil && m.confirm.kind == confirmDestroyPool:
		return "y: confirm  f: toggle force  n/esc: cancel"
	case m.confirm != nil:
		return "y: confirm  n/esc: cancel"
	case m.form != nil:
		return "enter: next/submit  ctrl+s: submit  tab: move  esc: cancel"
	}

	switch m.screen {
	case screenMain:
		return "1-3 or enter: choose  q: quit"
	case screenPools:
		return "enter: set current  s: status  c: create  d: destroy  r: refresh  esc: back  q: quit"
	case screenDatasets:
		return "enter: set current  c: create  d: delete  p: properties  r: refresh  esc: back  q: quit"
	case screenSnapshots:
		return "c: create  d: delete  r: refresh  esc: back  q: quit"
	case screenPoolStatus:
		return "r: refresh  esc: back  q: quit"
	}
	return ""
}
