// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/graph"
)

func newAlignCmd() *cobra.Command {
	var (
		targetJurisdiction string
		jurisdiction       string
	)

	cmd := &cobra.Command{
		Use:   "align <statement-code>",
		Short: "Find standards in another jurisdiction with overlapping learning components",
		Long:  "Find standards in the target jurisdiction that share supporting learning components with the given standard. Matches report every component they carry, with shared ones marked + and unshared ones marked -.",
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
			fmt.Fprintf(out, "Supporting Learning Components (%d):\n", len(components))
			for _, lc := range components {
				fmt.Fprintf(out, "  • %s\n", orText(lc.Description, "(no description)"))
			}

			componentIDs := make([]string, 0, len(components))
			for _, lc := range components {
				componentIDs = append(componentIDs, lc.ID)
			}

			matches, err := app.Engine.MatchByComponentOverlap(componentIDs, targetJurisdiction)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nMatches in %s (%d):\n", targetJurisdiction, len(matches))

			reference := graph.ComponentDescriptions(components)
			shared := graph.NewDescriptionSet(reference)
			for _, match := range matches {
				candidate := graph.ComponentDescriptions(match.Components)
				overlap := graph.ComputeOverlap(reference, candidate)

				fmt.Fprintf(out, "\nCode: %s\n", match.Standard.StatementCode)
				fmt.Fprintf(out, "Description: %s\n", orText(match.Standard.Description, "(no description)"))
				fmt.Fprintf(out, "Supporting Learning Components (%d) - Overlap: %s:\n",
					len(match.Components), overlap.Ratio)
				for _, lc := range match.Components {
					marker := "-"
					if shared.Contains(lc.Description) {
						marker = "+"
					}
					fmt.Fprintf(out, "  %s %s\n", marker, orText(lc.Description, "(no description)"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetJurisdiction, "target-jurisdiction", "", "jurisdiction to search for matches (required)")
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "disambiguate a code that exists in several jurisdictions")
	_ = cmd.MarkFlagRequired("target-jurisdiction")

	return cmd
}
