// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/learning-commons-org/knowledge-graph/internal/server"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

func main() {
	outPath := "api/openapi.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}
	if err := run(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "openapi-gen: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath string) error {
	spec, err := generateSpec()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		return fmt.Errorf("writing spec: %w", err)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
	return nil
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations.
func generateSpec() ([]byte, error) {
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"})
	if err != nil {
		return nil, kgerr.Errorf(kgerr.CodeCLISetupFailure, "creating server: %w", err)
	}

	// Use no-op service stubs so all routes are registered for schema
	// discovery. Handlers are never invoked during spec generation.
	err = srv.RegisterServices(&server.Services{
		Standards: &stubStandards{},
		Alignment: &stubAlignment{},
		Status:    &stubStatus{},
		Search:    &stubSearch{},
	})
	if err != nil {
		return nil, kgerr.Errorf(kgerr.CodeCLISetupFailure, "registering services: %w", err)
	}

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}

// No-op service stubs for spec generation. Methods are never called.

type stubStandards struct{}

func (s *stubStandards) Standard(context.Context, string) (*server.StandardDetail, error) {
	return nil, nil
}

func (s *stubStandards) Components(context.Context, string) ([]server.ComponentDetail, error) {
	return nil, nil
}

func (s *stubStandards) Prerequisites(context.Context, string, string, string) ([]server.StandardDetail, error) {
	return nil, nil
}

type stubAlignment struct{}

func (s *stubAlignment) Align(context.Context, server.AlignParams) ([]server.AlignmentMatch, error) {
	return nil, nil
}

type stubStatus struct{}

func (s *stubStatus) Status(context.Context) (*server.StatusDetail, error) { return nil, nil }

type stubSearch struct{}

func (s *stubSearch) Search(context.Context, string, int) ([]server.SearchHit, error) {
	return nil, nil
}
