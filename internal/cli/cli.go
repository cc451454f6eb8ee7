// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds what every verb needs: building a connected client
// from the layered configuration, and small argument parsers.
package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stratastor/logger"

	"github.com/ferrostor/ferret/config"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/foundry"
)

// BuildConnection layers the agent connection settings: config file values
// first, FERRET_* environment on top of those (viper does that), and
// explicitly set command-line flags last.
func BuildConnection(cmd *cobra.Command) foundry.ConnectionConfig {
	cfg := config.GetConfig()

	cc := foundry.ConnectionConfig{
		Host:      cfg.Agent.Host,
		Port:      cfg.Agent.Port,
		Timeout:   time.Duration(cfg.Agent.Timeout) * time.Second,
		VerifyTLS: cfg.Agent.VerifyTLS,
		APIKey:    cfg.Agent.APIKey,
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cc.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cc.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("timeout") {
		secs, _ := flags.GetInt("timeout")
		cc.Timeout = time.Duration(secs) * time.Second
	}
	if flags.Changed("insecure") {
		insecure, _ := flags.GetBool("insecure")
		cc.VerifyTLS = !insecure
	}
	if flags.Changed("api-key") {
		cc.APIKey, _ = flags.GetString("api-key")
	}

	return cc
}

// NewClient builds the agent client for a verb. The returned logger carries
// the verb's tag; callers own Close on the client.
func NewClient(cmd *cobra.Command, tag string) (*foundry.Client, logger.Logger, error) {
	l, err := logger.NewTag(config.NewLoggerConfig(config.GetConfig()), tag)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.LoggerError)
	}

	client, err := foundry.New(BuildConnection(cmd), l)
	if err != nil {
		return nil, nil, err
	}
	return client, l, nil
}

// ParseProperties turns key=value arguments into a property map.
func ParseProperties(args []string) (map[string]string, error) {
	props := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, errors.New(errors.RequestInvalid,
				"properties must be key=value, got: "+arg)
		}
		props[key] = value
	}
	return props, nil
}
