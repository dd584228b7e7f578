// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

//go:embed kgraph.yaml.default
var defaultConfig []byte

// DefaultConfigPath returns the standard location of the user config file,
// ~/.config/kgraph/kgraph.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kgraph", "kgraph.yaml"), nil
}

// BootstrapConfig writes a commented default config to DefaultConfigPath
// when no file exists there yet and returns the written path, or "" when
// nothing was written. Failures are logged and swallowed so a read-only
// home directory never blocks startup.
func BootstrapConfig() string {
	path, err := DefaultConfigPath()
	if err != nil {
		slog.Debug("skipping config bootstrap", "reason", err)
		return ""
	}

	if _, err := os.Stat(path); err == nil {
		return ""
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		slog.Debug("skipping config bootstrap", "path", path, "reason", err)
		return ""
	}
	if err := os.WriteFile(path, defaultConfig, 0o600); err != nil {
		slog.Debug("skipping config bootstrap", "path", path, "reason", err)
		return ""
	}

	slog.Info("wrote default config", "path", path)
	return path
}
