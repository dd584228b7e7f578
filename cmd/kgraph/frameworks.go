// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func newFrameworksCmd() *cobra.Command {
	var (
		jurisdiction string
		subject      string
	)

	cmd := &cobra.Command{
		Use:   "frameworks",
		Short: "List standards frameworks in the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			frameworks := app.Entities.FindFrameworks(store.FrameworkQuery{
				Jurisdiction:    jurisdiction,
				AcademicSubject: subject,
			})

			out := cmd.OutOrStdout()
			if len(frameworks) == 0 {
				fmt.Fprintln(out, "No frameworks match.")
				return nil
			}
			for _, fw := range frameworks {
				fmt.Fprintf(out, "%s: %s\n", fw.Jurisdiction, fw.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "filter by jurisdiction")
	cmd.Flags().StringVar(&subject, "subject", "", "filter by academic subject")

	return cmd
}
