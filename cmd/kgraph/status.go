// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running query server",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	cmd.Flags().String("address", "", "server address (default from server.listen)")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	addr, _ := cmd.Flags().GetString("address")
	if addr == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr = cfg.Server.Listen
	}

	var body struct {
		Status  string `json:"status"`
		Dataset struct {
			Standards  int `json:"standards"`
			Components int `json:"components"`
			Edges      int `json:"edges"`
			Frameworks int `json:"frameworks"`
		} `json:"dataset"`
		Embeddings struct {
			Available bool `json:"available"`
			Records   int  `json:"records"`
			Dimension int  `json:"dimension"`
		} `json:"embeddings"`
		Providers map[string]struct {
			Available    bool  `json:"available"`
			FailureCount int64 `json:"failure_count"`
		} `json:"providers"`
	}

	client := newAPIClient(addr)
	if err := client.getJSON("/api/v1/status", &body); err != nil {
		if kgerr.HasCode(err, kgerr.CodeCLIServerNotRunning) {
			_, _ = fmt.Fprintf(out, "Server at %s is not running (connection refused)\n", addr)
			_, _ = fmt.Fprintln(out, "Start it with: kgraph serve")
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintf(out, "Server at %s: %s\n", addr, body.Status)
	_, _ = fmt.Fprintf(out, "Dataset: %d standards, %d learning components, %d relationships, %d frameworks\n",
		body.Dataset.Standards, body.Dataset.Components, body.Dataset.Edges, body.Dataset.Frameworks)

	if body.Embeddings.Available {
		_, _ = fmt.Fprintf(out, "Embeddings: %d records (dimension %d)\n",
			body.Embeddings.Records, body.Embeddings.Dimension)
	} else {
		_, _ = fmt.Fprintln(out, "Embeddings: not loaded")
	}

	names := make([]string, 0, len(body.Providers))
	for name := range body.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := body.Providers[name]
		state := "available"
		if !p.Available {
			state = "cooling down"
		}
		_, _ = fmt.Fprintf(out, "Provider %s: %s (%d failures)\n", name, state, p.FailureCount)
	}

	return nil
}
