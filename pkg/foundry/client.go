/*
 * Copyright 2025 The FerroSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package foundry is the typed client for the Foundry storage agent. It
// turns pool, dataset, and snapshot operations into authenticated JSON/HTTP
// round trips and classifies every outcome as a connection, authentication,
// or operation failure.
package foundry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stratastor/logger"

	"github.com/ferrostor/ferret/internal/constants"
	"github.com/ferrostor/ferret/pkg/errors"
)

// Client talks to a single Foundry agent. It is safe for concurrent use:
// the configuration is immutable after New and the underlying transport
// pools connections per host. Each call is one independent request; the
// client never retries, caches, or tracks remote state.
type Client struct {
	resty  *resty.Client
	config ConnectionConfig
	log    logger.Logger
}

// New builds a Client from cfg. The API key is resolved here, exactly once:
// explicit config value, then the environment fallback, then none. A
// missing key is not an error, the agent will reject authenticated calls
// on its own. New performs no I/O.
func New(cfg ConnectionConfig, l logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New(errors.ConfigMissingHost, "connection config requires a host")
	}
	if cfg.Port <= 0 {
		cfg.Port = constants.DefaultAgentPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultTimeoutSecs * time.Second
	}

	cfg.APIKey = ResolveAPIKey(cfg.APIKey, os.Getenv)
	if cfg.APIKey == "" {
		l.Warn("No API key provided. Authenticated calls will likely fail.")
	}

	rc := resty.New()
	rc.SetBaseURL(cfg.BaseURL())
	rc.SetTimeout(cfg.Timeout)
	rc.SetHeader("User-Agent", userAgent+"/"+constants.Version)
	if cfg.APIKey != "" {
		// Omitted entirely when no key is configured; an empty credential
		// header is never sent.
		rc.SetHeader("X-API-Key", cfg.APIKey)
	}
	rc.SetLogger(noopLogger{})

	transport := &http.Transport{
		MaxIdleConns:    defaultMaxIdleConns,
		IdleConnTimeout: defaultIdleConnTimeout,
	}
	if !cfg.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		l.Warn("TLS certificate verification disabled")
	}
	rc.SetTransport(transport)

	return &Client{resty: rc, config: cfg, log: l}, nil
}

// Config returns the immutable connection configuration, key resolved.
func (c *Client) Config() ConnectionConfig {
	return c.config
}

// Close releases pooled connections. The client must not be used after.
func (c *Client) Close() {
	c.resty.GetClient().CloseIdleConnections()
}

// dispatch performs one agent round trip and classifies the outcome. This
// is the single classification point: operations above it pass errors
// through untouched, the sole exception being the health probe.
//
// Classification order on a received response:
//  1. 401/403 is an authentication failure regardless of body content.
//  2. Any other 4xx/5xx is an operation failure carrying the body text.
//  3. A 2xx body must be valid JSON; anything else is a protocol
//     violation reported as an operation failure.
//
// Failing to get a response at all (DNS, refused, timeout) is a connection
// failure, never an operation failure: callers treat "agent unreachable"
// and "agent rejected the request" differently.
func (c *Client) dispatch(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	req := c.resty.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	c.log.Debug("Dispatching agent request", "method", method, "path", path)

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, errors.New(errors.AuthenticationFailed,
			fmt.Sprintf("agent returned status %d", status)).
			WithMetadata("method", method).
			WithMetadata("path", path)

	case status >= http.StatusBadRequest:
		detail := strings.TrimSpace(resp.String())
		if detail == "" {
			detail = fmt.Sprintf("agent returned status %d", status)
		}
		return nil, errors.New(errors.OperationFailed, truncate(detail, maxErrorDetail)).
			WithHTTPStatus(status).
			WithMetadata("method", method).
			WithMetadata("path", path)
	}

	raw := resp.Body()
	if !json.Valid(raw) {
		return nil, errors.New(errors.ResponseDecodeError,
			truncate(strings.TrimSpace(string(raw)), maxErrorDetail)).
			WithMetadata("method", method).
			WithMetadata("path", path)
	}

	return json.RawMessage(raw), nil
}

// decode unmarshals a dispatch result into its typed form.
func decode(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.New(errors.ResponseDecodeError, err.Error())
	}
	return nil
}

// classifyTransportError maps request-level failures onto connection
// error codes.
func classifyTransportError(err error) error {
	var certErr *tls.CertificateVerificationError
	if stderrors.As(err, &certErr) {
		return errors.New(errors.ConnectionTLS, err.Error())
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.New(errors.ConnectionTimeout, err.Error())
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.New(errors.ConnectionTimeout, err.Error())
	}

	return errors.New(errors.ConnectionFailed, err.Error())
}

// maxErrorDetail bounds how much response text rides along in an error.
const maxErrorDetail = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// noopLogger silences resty's internal logging; ferret logs dispatches
// through its own logger.
type noopLogger struct{}

func (noopLogger) Errorf(format string, v ...interface{}) {}
func (noopLogger) Warnf(format string, v ...interface{})  {}
func (noopLogger) Debugf(format string, v ...interface{}) {}
