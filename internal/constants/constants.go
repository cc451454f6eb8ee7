// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.0.1-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	FerretPIDFilePath = "/tmp/ferret.pid"
	FerretLogFilePath = "/tmp/ferret.log"

	// config
	ConfigFileName = "ferret.yml"
	ConfigDirName  = ".ferret"

	// Agent connection defaults
	DefaultAgentPort   = 9876
	DefaultTimeoutSecs = 30

	// Agent API key environment fallback, shared with the other FerroSTOR
	// tooling that talks to the same agent.
	APIKeyEnvVar = "ZFS_API_KEY"

	// Agent endpoint families
	AgentHealthPath    = "/health"
	AgentPoolsPath     = "/pools"
	AgentDatasetsPath  = "/datasets"
	AgentSnapshotsPath = "/snapshots"
)
