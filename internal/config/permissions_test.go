// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

//go:build !windows

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnInsecurePermissions(t *testing.T) {
	tests := []struct {
		name       string
		perm       os.FileMode
		expectWarn bool
	}{
		{name: "secure 0600", perm: 0o600, expectWarn: false},
		{name: "secure 0400", perm: 0o400, expectWarn: false},
		{name: "insecure 0644 (group and other readable)", perm: 0o644, expectWarn: true},
		{name: "insecure 0640 (group readable)", perm: 0o640, expectWarn: true},
		{name: "insecure 0604 (other readable)", perm: 0o604, expectWarn: true},
		{name: "insecure 0666 (world readable)", perm: 0o666, expectWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "kgraph.yaml")
			err := os.WriteFile(configPath, []byte("server:\n  listen: ':8080'\n"), tt.perm)
			require.NoError(t, err, "failed to create test config file")

			var buf bytes.Buffer
			oldDefault := slog.Default()
			defer slog.SetDefault(oldDefault)
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

			WarnInsecurePermissions(configPath)

			logOutput := buf.String()
			if tt.expectWarn {
				assert.Contains(t, logOutput, "insecure permissions")
				assert.Contains(t, logOutput, configPath)
				assert.Contains(t, logOutput, "0600",
					"expected recommended permissions in log output")
			} else {
				assert.NotContains(t, logOutput, "insecure permissions")
			}
		})
	}
}

func TestWarnInsecurePermissions_EmptyPath(t *testing.T) {
	var buf bytes.Buffer
	oldDefault := slog.Default()
	defer slog.SetDefault(oldDefault)
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Empty path means no config file was loaded at all.
	WarnInsecurePermissions("")

	assert.Empty(t, buf.String())
}

func TestWarnInsecurePermissions_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	oldDefault := slog.Default()
	defer slog.SetDefault(oldDefault)
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	WarnInsecurePermissions("/nonexistent/path/kgraph.yaml")

	logOutput := buf.String()
	if logOutput != "" {
		assert.True(t, strings.Contains(logOutput, "level=DEBUG"),
			"expected debug log for missing file, got: %s", logOutput)
		assert.NotContains(t, logOutput, "insecure permissions")
	}
}
