// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvesDefinition(t *testing.T) {
	err := New(AuthenticationFailed, "key rejected")

	assert.Equal(t, ErrorCode(AuthenticationFailed), err.Code)
	assert.Equal(t, KindAuthentication, err.Kind)
	assert.Equal(t, http.StatusUnauthorized, err.HTTPStatus)
	assert.Contains(t, err.Error(), "key rejected")
	assert.Contains(t, err.Error(), "authentication")
}

func TestNewUnknownCodeFallsBack(t *testing.T) {
	err := New(ErrorCode(9999), "who knows")

	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWrapPreservesExistingClassification(t *testing.T) {
	orig := New(ConnectionTimeout, "deadline exceeded")
	wrapped := Wrap(orig, OperationFailed)

	// Classification happens once; a second Wrap must not re-kind the error.
	assert.Same(t, orig, wrapped)
	assert.True(t, IsConnection(wrapped))
}

func TestWrapForeignError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(cause, ConnectionFailed)

	require.NotNil(t, err)
	assert.Equal(t, KindConnection, err.Kind)
	assert.Contains(t, err.Details, "connection refused")
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, OperationFailed))
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		conn bool
		auth bool
		op   bool
	}{
		{"connection", New(ConnectionFailed, ""), true, false, false},
		{"authentication", New(AuthenticationFailed, ""), false, true, false},
		{"operation", New(OperationFailed, ""), false, false, true},
		{"probe reclassified", New(HealthProbeFailed, "status 500"), true, false, false},
		{"name check", New(NameInvalidChar, "tank/bad!name"), false, false, true},
		{"foreign", fmt.Errorf("plain"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conn, IsConnection(tt.err))
			assert.Equal(t, tt.auth, IsAuthentication(tt.err))
			assert.Equal(t, tt.op, IsOperation(tt.err))
		})
	}
}

func TestIsByCode(t *testing.T) {
	err := New(NameReserved, "mirror")

	assert.True(t, Is(err, NameReserved))
	assert.False(t, Is(err, NameInvalid))
	assert.False(t, Is(nil, NameReserved))
}

func TestWithMetadataAndStatus(t *testing.T) {
	err := New(OperationFailed, "pool has datasets").
		WithMetadata("pool", "tank").
		WithHTTPStatus(http.StatusConflict)

	assert.Equal(t, "tank", err.Metadata["pool"])
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)

	// Zero is not a status; the default must survive.
	err.WithHTTPStatus(0)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
}

func TestAsFerretErrorThroughWrapping(t *testing.T) {
	inner := New(AgentReportedError, "pool busy")
	outer := fmt.Errorf("status query: %w", inner)

	fe, ok := AsFerretError(outer)
	require.True(t, ok)
	assert.Equal(t, ErrorCode(AgentReportedError), fe.Code)
	assert.True(t, IsOperation(outer))
}
