// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package practice

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the generation role.
const SystemPrompt = "You are an expert middle school math tutor."

// DefaultQuestionCount is the number of questions requested when the
// caller leaves the count unset.
const DefaultQuestionCount = 3

// UserPrompt renders the packaged context into the generation prompt.
// A non-positive questionCount falls back to DefaultQuestionCount.
func UserPrompt(pctx *Context, questionCount int) string {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a math tutor helping middle school students. "+
		"Based on the following information, generate %d practice questions "+
		"for the target standard. Questions should help reinforce the key "+
		"concept and build on prerequisite knowledge.\n\n", questionCount)

	sb.WriteString("Target Standard:\n")
	fmt.Fprintf(&sb, "- %s: %s\n\n", pctx.TargetStandard.StatementCode, pctx.TargetStandard.Description)

	sb.WriteString("Prerequisite Standards & Supporting Learning Components:\n")
	for _, prereq := range pctx.PrereqStandards {
		fmt.Fprintf(&sb, "- %s: %s\n", prereq.StatementCode, prereq.Description)
		if len(prereq.SupportingLearningComponents) == 0 {
			continue
		}
		sb.WriteString("  Supporting Learning Components:\n")
		for _, lc := range prereq.SupportingLearningComponents {
			fmt.Fprintf(&sb, "    • %s\n", lc.Description)
		}
	}
	return sb.String()
}
