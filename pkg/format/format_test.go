// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name  string
		input uint64
		want  string
	}{
		{"zero", 0, "0.00 B"},
		{"bytes", 512, "512.00 B"},
		{"bytes_max", 1023, "1023.00 B"},
		{"one_kb", 1024, "1.00 KB"},
		{"one_and_half_kb", 1536, "1.50 KB"},
		{"one_mb", 1024 * 1024, "1.00 MB"},
		{"one_gb", 1024 * 1024 * 1024, "1.00 GB"},
		{"ten_tb", 10 * 1024 * 1024 * 1024 * 1024, "10.00 TB"},
		{"two_pb", 2 * 1024 * 1024 * 1024 * 1024 * 1024, "2.00 PB"},
		{"one_eb", 1 << 60, "1.00 EB"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Bytes(tc.input))
		})
	}
}

func TestSignedBytes(t *testing.T) {
	assert.Equal(t, "1.50 KB", SignedBytes(1536))
	assert.Equal(t, "-1.50 KB", SignedBytes(-1536))
	assert.Equal(t, "0.00 B", SignedBytes(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0%", Percent(0))
	assert.Equal(t, "87%", Percent(87))
}

func TestPropertyLines(t *testing.T) {
	lines := PropertyLines(map[string]string{
		"compression": "zstd",
		"atime":       "off",
		"quota":       "10G",
	})

	assert.Equal(t, []string{"atime=off", "compression=zstd", "quota=10G"}, lines)
	assert.Empty(t, PropertyLines(nil))
}
