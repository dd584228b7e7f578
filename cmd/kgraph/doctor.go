// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/learning-commons-org/knowledge-graph/internal/config"
	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/snapshot"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long:  "Check binary health, configuration, the snapshot, stored embeddings, provider API keys, a running server, and disk space.",
		RunE:  runDoctor,
	}

	cmd.Flags().Bool("validate-keys", false, "call each configured provider to verify its API key")
	cmd.Flags().String("address", "", "server address to probe (default from server.listen)")

	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	validateKeys, _ := cmd.Flags().GetBool("validate-keys")

	cfg, cfgErr := loadConfig()
	addr := viper.GetString("server.listen")
	if cmd.Flags().Changed("address") {
		addr, _ = cmd.Flags().GetString("address")
	}
	dataDir := viper.GetString("data.dir")

	checks := []struct {
		name string
		fn   func() string
	}{
		{"Binary", checkBinary},
		{"Platform", checkPlatform},
		{"Config", checkConfig},
		{"Snapshot", func() string { return checkSnapshot(cfg, cfgErr) }},
		{"Embeddings", func() string { return checkEmbeddings(cmd.Context(), cfg, cfgErr) }},
		{"Provider Keys", func() string { return checkProviderKeys(cmd.Context(), cfg, cfgErr, validateKeys) }},
		{"Server", func() string { return checkServer(addr) }},
		{"Disk Space", func() string { return checkDiskSpace(dataDir) }},
	}

	for _, c := range checks {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", c.name+":", c.fn()); err != nil {
			return err
		}
	}

	return nil
}

func checkBinary() string {
	return fmt.Sprintf("kgraph %s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

func checkPlatform() string {
	return fmt.Sprintf("%s/%s, Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func checkConfig() string {
	cfgFile := viper.ConfigFileUsed()
	if cfgFile != "" {
		return fmt.Sprintf("loaded from %s", cfgFile)
	}
	return "using defaults (no config file found)"
}

func checkSnapshot(cfg *config.Config, cfgErr error) string {
	if cfgErr != nil {
		return fmt.Sprintf("skipped: %s", cfgErr)
	}
	if cfg.Data.Dir == "" {
		return "no data directory configured (set data.dir or --data-dir)"
	}

	snap, err := snapshot.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return snap.Describe()
}

func checkEmbeddings(ctx context.Context, cfg *config.Config, cfgErr error) string {
	if cfgErr != nil {
		return fmt.Sprintf("skipped: %s", cfgErr)
	}

	st, err := store.NewEmbeddingStore(&store.StorageConfig{
		Backend:          cfg.Embeddings.Backend,
		Path:             cfg.EmbeddingsPath(),
		VectorDimensions: cfg.Embeddings.Dimensions,
	})
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	defer func() { _ = st.Close() }()

	records, err := st.LoadAll(ctx)
	if err != nil {
		if kgerr.HasCode(err, kgerr.CodeEmbeddingFileMissing) {
			return "not generated (run 'kgraph embed')"
		}
		return fmt.Sprintf("error: %s", err)
	}
	if len(records) == 0 {
		return "not generated (run 'kgraph embed')"
	}
	return fmt.Sprintf("%d records (dimension %d) in %s", len(records), len(records[0].Embedding), cfg.EmbeddingsPath())
}

func checkProviderKeys(ctx context.Context, cfg *config.Config, cfgErr error, validate bool) string {
	if cfgErr != nil {
		return fmt.Sprintf("skipped: %s", cfgErr)
	}
	if len(cfg.Providers) == 0 {
		return "none configured"
	}

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		key, err := resolveAPIKey(cfg, name)
		switch {
		case kgerr.HasCode(err, kgerr.CodeProviderNotConfigured):
			parts = append(parts, name+": missing")
		case err != nil:
			parts = append(parts, fmt.Sprintf("%s: error (%s)", name, err))
		case validate:
			parts = append(parts, name+": "+validateProviderKey(ctx, name, key))
		default:
			parts = append(parts, name+": configured")
		}
	}
	return strings.Join(parts, ", ")
}

func validateProviderKey(ctx context.Context, name, key string) string {
	err := provider.ValidateKey(ctx, defaultHTTPClient, provider.ProviderName(name), key)
	switch {
	case err == nil:
		return "valid"
	case kgerr.HasCode(err, kgerr.CodeProviderKeyInvalid):
		return "invalid"
	default:
		return fmt.Sprintf("check failed (%s)", err)
	}
}

func checkServer(addr string) string {
	client := newAPIClient(addr)
	var body struct {
		Status string `json:"status"`
	}
	if err := client.getJSON("/api/v1/status", &body); err != nil {
		if kgerr.HasCode(err, kgerr.CodeCLIServerNotRunning) {
			return fmt.Sprintf("not running at %s (run 'kgraph serve')", addr)
		}
		return fmt.Sprintf("error: %s", err)
	}
	return fmt.Sprintf("%s at %s", body.Status, addr)
}

func checkDiskSpace(dataDir string) string {
	path := dataDir
	if path == "" {
		path = "."
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Fall back to home directory if the data dir doesn't exist yet.
		path, _ = os.UserHomeDir()
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return fmt.Sprintf("unable to check: %s", err)
	}

	availBytes := stat.Bavail * uint64(stat.Bsize)
	return formatBytes(availBytes) + " available"
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(b uint64) string {
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	default:
		return fmt.Sprintf("%d bytes", b)
	}
}
