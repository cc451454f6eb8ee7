// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import "net/http"

// Kind is the failure category a FerretError belongs to. The three wire
// kinds are the only ones the agent client ever returns; KindInternal is
// reserved for local failures (config, server lifecycle) that never cross
// the Operations API boundary.
const (
	KindConnection     Kind = "connection"
	KindAuthentication Kind = "authentication"
	KindOperation      Kind = "operation"
	KindInternal       Kind = "internal"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Kind represents the failure category used for classification
type Kind string

type FerretError struct {
	Code    ErrorCode `json:"code"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// HTTPStatus is what the facade responds with. The dispatcher overrides
	// it with the agent's own status code when one was received, so a 409
	// from the agent surfaces as a 409, not a generic 500.
	HTTPStatus int `json:"-"`

	// Metadata carries contextual key/values that don't fit the standard
	// fields: agent endpoint, response excerpts, resource names. Serialized
	// in API responses and attached to structured logs.
	Metadata map[string]string `json:"metadata,omitempty"`

	err error
}

// Error code ranges:
// 1000-1099: Connection failures (agent unreachable)
// 1100-1199: Authentication failures (agent rejected credentials)
// 1200-1299: Operation failures (agent reached, request failed)
// 1300-1399: Resource name validation
// 1400-1499: Configuration errors
// 1500-1599: Facade server errors
// 1600-1699: Ferret errors
const (
	// Connection failures (1000-1099)
	ConnectionFailed  = 1000 + iota // Could not reach the agent
	ConnectionTimeout               // Request deadline exceeded
	ConnectionTLS                   // TLS handshake failed
	HealthProbeFailed               // Agent reachable but reported unhealthy
)

const (
	// Authentication failures (1100-1199)
	AuthenticationFailed = 1100 + iota // Agent rejected the API key
)

const (
	// Operation failures (1200-1299)
	OperationFailed     = 1200 + iota // Agent rejected or failed the request
	AgentReportedError                // Success-shaped body carrying status "error"
	ResponseDecodeError               // Agent response was not valid JSON
	RequestEncodeError                // Request body could not be serialized
	RequestInvalid                    // Request rejected before dispatch
)

const (
	// Resource name validation (1300-1399)
	NameEmptyComponent = 1300 + iota // Empty name or empty path component
	NameLeadingSlash
	NameTrailingSlash
	NameInvalidChar
	NameMultipleDelimiters // multiple '@' delimiters found
	NameNoLetter           // pool doesn't begin with a letter
	NameReserved
	NameTooLong
	NameTooNested
	NameSelfRef   // "."
	NameParentRef // ".."
	NameNoAtSign  // missing '@' in snapshot reference
	NameMissingPoolPrefix
	NameInvalid
)

const (
	// Configuration errors (1400-1499)
	ConfigNotFound      = 1400 + iota // Config file not found
	ConfigInvalid                     // Invalid config format
	ConfigLoadFailed                  // Failed to load config
	ConfigWriteFailed                 // Failed to write config
	ConfigMarshalFailed               // Config serialization failed
	ConfigHomeDirError                // Error getting home directory
	ConfigMissingHost                 // Agent host not configured
)

const (
	// Facade server errors (1500-1599)
	ServerStart             = 1500 + iota // Failed to start server
	ServerShutdown                        // Error during shutdown
	ServerRequestValidation               // Request validation failed
	ServerInternalError
)

const (
	// Ferret errors (1600-1699)
	FerretMisc = 1600 + iota // Miscellaneous program error
	LoggerError
	SchedulerError // Watch scheduler error
)

var errorDefinitions = map[ErrorCode]struct {
	message    string
	kind       Kind
	httpStatus int
}{
	// Connection failure definitions
	ConnectionFailed: {
		"Failed to connect to the storage agent",
		KindConnection,
		http.StatusBadGateway,
	},
	ConnectionTimeout: {
		"Storage agent did not respond in time",
		KindConnection,
		http.StatusGatewayTimeout,
	},
	ConnectionTLS: {
		"TLS handshake with the storage agent failed",
		KindConnection,
		http.StatusBadGateway,
	},
	HealthProbeFailed: {
		"Storage agent health probe failed",
		KindConnection,
		http.StatusBadGateway,
	},

	// Authentication failure definitions
	AuthenticationFailed: {
		"Storage agent rejected the API key",
		KindAuthentication,
		http.StatusUnauthorized,
	},

	// Operation failure definitions
	OperationFailed: {
		"Storage agent rejected the operation",
		KindOperation,
		http.StatusInternalServerError,
	},
	AgentReportedError: {
		"Storage agent reported an error",
		KindOperation,
		http.StatusInternalServerError,
	},
	ResponseDecodeError: {
		"Storage agent returned a malformed response",
		KindOperation,
		http.StatusInternalServerError,
	},
	RequestEncodeError: {
		"Failed to encode request body",
		KindOperation,
		http.StatusInternalServerError,
	},
	RequestInvalid: {
		"Invalid request",
		KindOperation,
		http.StatusBadRequest,
	},

	// Name validation definitions
	NameEmptyComponent: {
		"Name contains an empty component",
		KindOperation,
		http.StatusBadRequest,
	},
	NameLeadingSlash: {
		"Name must not begin with a slash",
		KindOperation,
		http.StatusBadRequest,
	},
	NameTrailingSlash: {
		"Name must not end with a slash",
		KindOperation,
		http.StatusBadRequest,
	},
	NameInvalidChar: {
		"Name contains an invalid character",
		KindOperation,
		http.StatusBadRequest,
	},
	NameMultipleDelimiters: {
		"Name contains multiple '@' delimiters",
		KindOperation,
		http.StatusBadRequest,
	},
	NameNoLetter: {
		"Pool name must begin with a letter",
		KindOperation,
		http.StatusBadRequest,
	},
	NameReserved: {
		"Name is reserved",
		KindOperation,
		http.StatusBadRequest,
	},
	NameTooLong: {
		"Name exceeds the maximum length",
		KindOperation,
		http.StatusBadRequest,
	},
	NameTooNested: {
		"Name exceeds the maximum nesting depth",
		KindOperation,
		http.StatusBadRequest,
	},
	NameSelfRef: {
		"Name component must not be '.'",
		KindOperation,
		http.StatusBadRequest,
	},
	NameParentRef: {
		"Name component must not be '..'",
		KindOperation,
		http.StatusBadRequest,
	},
	NameNoAtSign: {
		"Snapshot reference is missing '@'",
		KindOperation,
		http.StatusBadRequest,
	},
	NameMissingPoolPrefix: {
		"Dataset name must be prefixed by its pool",
		KindOperation,
		http.StatusBadRequest,
	},
	NameInvalid: {
		"Invalid resource name",
		KindOperation,
		http.StatusBadRequest,
	},

	// Configuration error definitions
	ConfigNotFound: {
		"Configuration file not found",
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigInvalid: {
		"Invalid configuration format",
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigLoadFailed: {
		"Failed to load configuration",
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigWriteFailed: {
		"Failed to write configuration",
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigMarshalFailed: {
		"Failed to serialize configuration",
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigHomeDirError: {
		"Failed to resolve home directory",
		KindInternal,
		http.StatusInternalServerError,
	},
	ConfigMissingHost: {
		"Storage agent host is not configured",
		KindInternal,
		http.StatusInternalServerError,
	},

	// Facade server error definitions
	ServerStart: {
		"Failed to start server",
		KindInternal,
		http.StatusInternalServerError,
	},
	ServerShutdown: {
		"Error during server shutdown",
		KindInternal,
		http.StatusInternalServerError,
	},
	ServerRequestValidation: {
		"Request validation failed",
		KindInternal,
		http.StatusBadRequest,
	},
	ServerInternalError: {
		"Internal server error",
		KindInternal,
		http.StatusInternalServerError,
	},

	// Ferret error definitions
	FerretMisc: {
		"Unexpected error",
		KindInternal,
		http.StatusInternalServerError,
	},
	LoggerError: {
		"Logger error",
		KindInternal,
		http.StatusInternalServerError,
	},
	SchedulerError: {
		"Watch scheduler error",
		KindInternal,
		http.StatusInternalServerError,
	},
}
