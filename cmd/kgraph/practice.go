// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/practice"
)

func newPracticeCmd() *cobra.Command {
	var (
		count        int
		jurisdiction string
		subject      string
	)

	cmd := &cobra.Command{
		Use:   "practice <statement-code>",
		Short: "Generate practice questions from a standard's prerequisites",
		Long:  "Collect the standard's prerequisite standards and their supporting learning components, then ask the configured provider for practice questions grounded in that context.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			cfg := app.Config
			scope := practice.Scope{
				Jurisdiction:    cfg.Practice.Jurisdiction,
				AcademicSubject: cfg.Practice.AcademicSubject,
			}
			if cmd.Flags().Changed("jurisdiction") {
				scope.Jurisdiction = jurisdiction
			}
			if cmd.Flags().Changed("subject") {
				scope.AcademicSubject = subject
			}

			std, err := resolveStandardByCode(app.Entities, args[0], scope.Jurisdiction)
			if err != nil {
				return err
			}

			generator, err := app.newGenerator()
			if err != nil {
				return err
			}

			questionCount := cfg.Practice.QuestionCount
			if cmd.Flags().Changed("count") {
				questionCount = count
			}

			svc := practice.NewService(
				practice.NewBuilder(app.Entities, app.Engine),
				generator,
				practice.ServiceConfig{
					QuestionCount: questionCount,
					CallTimeout:   cfg.Timeouts.Generate,
				},
			)

			result, err := svc.Generate(cmd.Context(), std.ID, scope)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Target: %s\n", result.TargetStandard)
			fmt.Fprintf(out, "Prerequisites used: %d\n\n", result.PrerequisiteCount)
			fmt.Fprintln(out, result.Questions)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", practice.DefaultQuestionCount, "number of questions to request")
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "prerequisite scope jurisdiction (default from practice.jurisdiction)")
	cmd.Flags().StringVar(&subject, "subject", "", "prerequisite scope academic subject (default from practice.academic_subject)")

	return cmd
}
