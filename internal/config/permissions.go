// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

//go:build !windows

package config

import (
	"fmt"
	"log/slog"
	"os"
)

// WarnInsecurePermissions logs a warning when the config file is readable
// by group or other. Config files may hold provider API keys, so anything
// looser than 0600 deserves a nudge. An empty path means no file was
// loaded and is a no-op.
func WarnInsecurePermissions(path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat config file", "path", path, "error", err)
		return
	}

	perm := info.Mode().Perm()
	if perm&(0o040|0o004) != 0 {
		slog.Warn("config file has insecure permissions",
			"path", path,
			"permissions", fmt.Sprintf("%04o", perm),
			"recommended", "0600")
	}
}
