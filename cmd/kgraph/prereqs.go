// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/graph"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func newPrereqsCmd() *cobra.Command {
	var jurisdiction string

	cmd := &cobra.Command{
		Use:   "prereqs <statement-code>",
		Short: "List the standards that build toward a standard",
		Long:  "List the prerequisite standards that build toward the given one. Candidates are confined to the source standard's own jurisdiction and academic subject.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			std, err := resolveStandardByCode(app.Entities, args[0], jurisdiction)
			if err != nil {
				return err
			}

			pool := graph.NewPool(app.Entities.FindStandards(store.StandardQuery{
				Jurisdiction:    std.Jurisdiction,
				AcademicSubject: std.AcademicSubject,
			}))
			prerequisites := app.Engine.PrerequisitesOf(std.ID, pool)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Target: %s (%s)\n", std.StatementCode, std.Jurisdiction)
			fmt.Fprintf(out, "%s\n\n", orText(std.Description, "(no statement)"))

			if len(prerequisites) == 0 {
				fmt.Fprintln(out, "No prerequisites found.")
				return nil
			}

			fmt.Fprintf(out, "Prerequisites (%d):\n", len(prerequisites))
			for i, pre := range prerequisites {
				fmt.Fprintf(out, "%d. %s: %s\n", i+1, pre.StatementCode,
					snippet(orText(pre.Description, "(no statement)"), 100))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "disambiguate a code that exists in several jurisdictions")

	return cmd
}
