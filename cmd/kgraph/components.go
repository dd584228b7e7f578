// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func newComponentsCmd() *cobra.Command {
	var jurisdiction string

	cmd := &cobra.Command{
		Use:   "components <statement-code>",
		Short: "Show a standard and its supporting learning components",
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

			components, err := app.Engine.SupportingComponents(std.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Code: %s\n", std.StatementCode)
			fmt.Fprintf(out, "Jurisdiction: %s\n", std.Jurisdiction)
			fmt.Fprintf(out, "Description: %s\n", orText(std.Description, "(no description)"))
			fmt.Fprintf(out, "Grade levels: %s\n", gradeLabel(std.GradeLevels))
			fmt.Fprintf(out, "Supporting Learning Components (%d):\n", len(components))
			for _, lc := range components {
				fmt.Fprintf(out, "  • %s\n", orText(lc.Description, "(no description)"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "disambiguate a code that exists in several jurisdictions")

	return cmd
}

// gradeLabel renders a standard's grade set for display.
func gradeLabel(g store.GradeLevels) string {
	switch g.State {
	case store.GradeLevelsPresent:
		return strings.Join(g.Labels, ", ")
	case store.GradeLevelsMalformed:
		return "(malformed)"
	default:
		return "(none)"
	}
}

// orText substitutes placeholder for an empty or blank string.
func orText(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
