// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrostor/ferret/pkg/errors"
)

func TestPoolCheck(t *testing.T) {
	tests := []struct {
		name     string
		pool     string
		wantErr  bool
		wantCode errors.ErrorCode
	}{
		{"simple", "tank", false, 0},
		{"with digits", "tank01", false, 0},
		{"mixed case", "Backup", false, 0},
		{"empty", "", true, errors.NameNoLetter},
		{"leading digit", "0pool", true, errors.NameNoLetter},
		{"leading dash", "-tank", true, errors.NameNoLetter},
		{"reserved mirror", "mirror", true, errors.NameReserved},
		{"reserved raidz", "raidz", true, errors.NameReserved},
		{"reserved draid", "draid", true, errors.NameReserved},
		{"bad char", "tank!", true, errors.NameInvalidChar},
		{"slash", "tank/data", true, errors.NameInvalidChar},
		{"too long", "t" + strings.Repeat("a", MaxNameLen), true, errors.NameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PoolCheck(tt.pool)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantCode),
				"expected code %d, got %v", tt.wantCode, err)
		})
	}
}

func TestDatasetCheck(t *testing.T) {
	tests := []struct {
		name     string
		dataset  string
		wantErr  bool
		wantCode errors.ErrorCode
	}{
		{"simple", "tank/data", false, 0},
		{"nested", "tank/data/projects", false, 0},
		{"with space", "tank/my data", false, 0},
		{"with colon", "tank/data:archive", false, 0},
		{"bare pool", "tank", true, errors.NameMissingPoolPrefix},
		{"empty", "", true, errors.NameEmptyComponent},
		{"leading slash", "/tank/data", true, errors.NameLeadingSlash},
		{"trailing slash", "tank/data/", true, errors.NameTrailingSlash},
		{"empty component", "tank//data", true, errors.NameEmptyComponent},
		{"self ref", "tank/./data", true, errors.NameSelfRef},
		{"parent ref", "tank/../data", true, errors.NameParentRef},
		{"snapshot delim", "tank/data@snap", true, errors.NameInvalidChar},
		{"bad char", "tank/da*ta", true, errors.NameInvalidChar},
		{"pool not a letter", "1tank/data", true, errors.NameNoLetter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DatasetCheck(tt.dataset)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantCode),
				"expected code %d, got %v", tt.wantCode, err)
		})
	}
}

func TestDatasetCheckNesting(t *testing.T) {
	deep := "tank" + strings.Repeat("/d", MaxNesting)
	err := DatasetCheck(deep)

	require.Error(t, err)
	// Either too long or too nested depending on limits; depth wins here.
	assert.True(t, errors.Is(err, errors.NameTooNested) || errors.Is(err, errors.NameTooLong))
}

func TestLabelCheck(t *testing.T) {
	assert.NoError(t, LabelCheck("daily-2026-08-26"))
	assert.NoError(t, LabelCheck("before upgrade"))

	assert.Error(t, LabelCheck(""))
	assert.Error(t, LabelCheck("bad/label"))
	assert.Error(t, LabelCheck("bad@label"))
}

func TestParseSnapshotRefRoundTrip(t *testing.T) {
	ref, err := ParseSnapshotRef("pool/ds@snap1")
	require.NoError(t, err)

	assert.Equal(t, "pool/ds", ref.Dataset)
	assert.Equal(t, "snap1", ref.Label)
	assert.Equal(t, "pool/ds@snap1", ref.String())
}

func TestParseSnapshotRefErrors(t *testing.T) {
	_, err := ParseSnapshotRef("pool/ds")
	assert.True(t, errors.Is(err, errors.NameNoAtSign))

	_, err = ParseSnapshotRef("pool/ds@a@b")
	assert.True(t, errors.Is(err, errors.NameMultipleDelimiters))

	_, err = ParseSnapshotRef("pool/ds@")
	assert.True(t, errors.Is(err, errors.NameEmptyComponent))
}

func TestPoolOf(t *testing.T) {
	assert.Equal(t, "tank", PoolOf("tank/data/projects"))
	assert.Equal(t, "tank", PoolOf("tank/data@snap"))
	assert.Equal(t, "tank", PoolOf("tank@snap"))
	assert.Equal(t, "tank", PoolOf("tank"))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth("tank"))
	assert.Equal(t, 2, Depth("tank/a/b"))
	assert.Equal(t, 1, Depth("tank/a@snap/notcounted"))
}

func TestEncodeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tank", "tank"},
		{"tank/data", "tank/data"},
		{"tank/my data", "tank/my%20data"},
		{"tank/data:archive", "tank/data:archive"},
		{"tank/a b/c d", "tank/a%20b/c%20d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeName(tt.in), "input %q", tt.in)
	}
}
