// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/embedding"
)

func newEmbedCmd() *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate description embeddings for every standard",
		Long:  "Embed the description of every standard in the snapshot through the configured provider and persist the vectors. Standards without a description are skipped. The run persists even when some standards fail, so --resume can retry just the gaps.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			embeddings, err := app.openEmbeddingStore()
			if err != nil {
				return err
			}
			embedder, err := app.newEmbedder()
			if err != nil {
				return err
			}

			runner := embedding.NewRunner(embedder, embeddings, embedding.RunnerConfig{
				CallTimeout: app.Config.Timeouts.Embed,
				Resume:      resume,
			})

			report, err := runner.Run(cmd.Context(), app.Entities.Standards())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: embedded %d, skipped %d, failed %d (of %d standards)\n",
				report.RunID, report.Embedded, report.Skipped, report.Failed(), report.Requested)
			for _, f := range report.Failures {
				fmt.Fprintf(out, "  %s (%s): %s\n", f.StatementCode, f.CaseIdentifierUUID, f.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "keep stored embeddings and only embed standards missing from them")

	return cmd
}
