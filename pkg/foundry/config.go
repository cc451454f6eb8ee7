// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package foundry

import (
	"fmt"
	"strings"
	"time"

	"github.com/ferrostor/ferret/internal/constants"
)

const (
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
	userAgent              = "Ferret"
)

// ConnectionConfig describes how to reach a Foundry agent. It is read once
// when the client is constructed and never mutated afterwards.
type ConnectionConfig struct {
	// Host is required. A bare host gets the http scheme; a host carrying
	// an explicit "https://" prefix is used as given.
	Host string

	// Port the agent listens on.
	Port int

	// Timeout bounds the whole request, connect included. Expiry is
	// reported as a connection failure, not an operation failure.
	Timeout time.Duration

	// VerifyTLS disables certificate verification when false. Only
	// meaningful for https hosts.
	VerifyTLS bool

	// APIKey is sent as the X-API-Key header. When empty, the environment
	// fallback is consulted at construction; with no key at all the client
	// still works, the agent just rejects authenticated calls.
	APIKey string
}

// NewConnectionConfig returns a ConnectionConfig with agent defaults.
func NewConnectionConfig(host string) ConnectionConfig {
	return ConnectionConfig{
		Host:      host,
		Port:      constants.DefaultAgentPort,
		Timeout:   constants.DefaultTimeoutSecs * time.Second,
		VerifyTLS: true,
	}
}

// BaseURL composes the agent base URL from host and port.
func (c ConnectionConfig) BaseURL() string {
	host := c.Host
	scheme := "http"
	if i := strings.Index(host, "://"); i >= 0 {
		scheme = host[:i]
		host = host[i+len("://"):]
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, c.Port)
}

// ResolveAPIKey picks the effective API key: an explicit value wins, then
// the environment fallback, then none. lookup is the environment snapshot,
// passed in so resolution stays a pure function evaluated exactly once at
// client construction.
func ResolveAPIKey(explicit string, lookup func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if lookup == nil {
		return ""
	}
	return lookup(constants.APIKeyEnvVar)
}
