// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ferrostor/ferret/internal/constants"
)

var configDir string // Directory for configuration files

func init() {
	if os.Geteuid() == 0 {
		configDir = filepath.Join("/etc", "ferret")
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
	configDir = filepath.Join(homeDir, constants.ConfigDirName)
}

// GetConfigDir returns the appropriate configuration directory.
// If running as root, it returns the system config directory;
// otherwise, the user config directory.
func GetConfigDir() string {
	return configDir
}
