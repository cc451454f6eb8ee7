// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
)

// styleHeader — full-width dark header bar.
var styleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleSelected = lipgloss.NewStyle().Background(colorDark).Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorGray)
	styleOK       = lipgloss.NewStyle().Foreground(colorGreen)
)

// One style per error kind so a glance tells connectivity from rejection.
var (
	styleConnErr = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleAuthErr = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleOpErr   = lipgloss.NewStyle().Foreground(colorRed)
)

// healthStyle maps an agent health string to a status style. The set is
// owned by the agent; anything unrecognized renders dim.
func healthStyle(health string) lipgloss.Style {
	switch strings.ToUpper(health) {
	case "ONLINE":
		return lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	case "DEGRADED":
		return lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	case "FAULTED", "UNAVAIL", "OFFLINE":
		return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	default:
		return styleDim
	}
}
