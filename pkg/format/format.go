// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package format renders agent-reported quantities for terminal output.
package format

import (
	"fmt"
	"maps"
	"slices"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB"}

// Bytes formats a byte count in binary units with two decimal places.
// Example: 1536 → "1.50 KB", 512 → "512.00 B".
func Bytes(n uint64) string {
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(byteUnits)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", size, byteUnits[i])
}

// SignedBytes is Bytes for values the agent reports as signed, such as a
// pool's free space.
func SignedBytes(n int64) string {
	if n < 0 {
		return "-" + Bytes(uint64(-n))
	}
	return Bytes(uint64(n))
}

// Percent renders an integer capacity percentage. Example: 42 → "42%".
func Percent(p uint8) string {
	return fmt.Sprintf("%d%%", p)
}

// PropertyLines renders a property map as sorted "key=value" lines so
// output is stable across runs.
func PropertyLines(props map[string]string) []string {
	keys := slices.Sorted(maps.Keys(props))
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", k, props[k]))
	}
	return lines
}
