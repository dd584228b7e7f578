// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/embedding"
	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query API",
		Long:  "Serve the dataset over HTTP: standard lookup, supporting components, prerequisites, alignment, similarity search, and status. Search stays disabled when no embeddings or embedding credentials are available; the endpoint then reports unavailable instead of failing the whole server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			addr := app.Config.Server.Listen
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			dataset := server.NewDatasetService(app.Entities, app.Engine)
			services := &server.Services{
				Standards: dataset,
				Alignment: dataset,
			}

			index, trackers := wireSearch(cmd, app, services)
			services.Status = server.NewSystemStatus(app.Entities, index, trackers)

			srv, err := server.New(server.Config{ListenAddr: addr})
			if err != nil {
				return err
			}
			if err := srv.RegisterServices(services); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "kgraph query API listening on %s\n", addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (host:port), overrides server.listen")

	return cmd
}

// wireSearch attaches the search service when stored embeddings and an
// embedding provider are both available. Any gap is logged and search
// stays off; the rest of the API still serves.
func wireSearch(cmd *cobra.Command, app *App, services *server.Services) (*embedding.SearchEngine, map[string]*provider.HealthTracker) {
	trackers := map[string]*provider.HealthTracker{}

	embeddings, err := app.openEmbeddingStore()
	if err != nil {
		slog.Warn("embedding store unavailable, search disabled", "error", err)
		return nil, trackers
	}

	records, err := embeddings.LoadAll(cmd.Context())
	if err != nil {
		slog.Warn("no stored embeddings, search disabled", "error", err)
		return nil, trackers
	}
	if len(records) == 0 {
		slog.Warn("embedding store is empty, search disabled")
		return nil, trackers
	}

	engine, err := embedding.NewSearchEngine(records)
	if err != nil {
		slog.Warn("embedding index rejected, search disabled", "error", err)
		return nil, trackers
	}

	embedder, err := app.newEmbedder()
	if err != nil {
		slog.Warn("embedding provider unavailable, search disabled", "error", err)
		return engine, trackers
	}

	tracker, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
	if err != nil {
		slog.Warn("health tracker rejected, search disabled", "error", err)
		return engine, trackers
	}
	trackers[app.Config.Embeddings.Provider] = tracker

	services.Search = server.NewVectorSearch(provider.TrackEmbedder(embedder, tracker), engine, app.Entities)
	slog.Info("search enabled", "records", len(records), "provider", app.Config.Embeddings.Provider)
	return engine, trackers
}
