// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func newStandardsCmd() *cobra.Command {
	var (
		jurisdiction string
		subject      string
		stmtType     string
		grades       []string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "standards",
		Short: "List standards matching the given filters",
		Long:  "List standards filtered by jurisdiction, academic subject, statement type, and grade-level membership. Standards without a parsed grade set never match a --grade filter.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			standards := app.Entities.FindStandards(store.StandardQuery{
				Jurisdiction:    jurisdiction,
				AcademicSubject: subject,
				StatementType:   stmtType,
				GradeLevels:     grades,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d standards match.\n", len(standards))

			shown := standards
			if limit > 0 && limit < len(standards) {
				shown = standards[:limit]
			}
			for _, std := range shown {
				fmt.Fprintf(out, "%-18s %s\n", std.StatementCode, snippet(std.Description, 80))
			}
			if len(shown) < len(standards) {
				fmt.Fprintf(out, "... and %d more (raise --limit, or pass --limit 0 for all)\n",
					len(standards)-len(shown))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "filter by jurisdiction")
	cmd.Flags().StringVar(&subject, "subject", "", "filter by academic subject")
	cmd.Flags().StringVar(&stmtType, "type", "", `filter by statement type ("Standard" or "Standard Grouping")`)
	cmd.Flags().StringSliceVar(&grades, "grade", nil, "keep standards whose grade set intersects these labels (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum standards to print, 0 for all")

	return cmd
}

// snippet truncates s to at most n runes, marking the cut with an ellipsis.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
