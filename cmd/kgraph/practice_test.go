// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learning-commons-org/knowledge-graph/internal/practice"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// practiceConfig wires a literal openai key; the generator factory is
// swapped for a scripted generator in these tests.
func practiceConfig(dataDir string) string {
	return fmt.Sprintf(`data:
  dir: %q
providers:
  openai:
    api_key: sk-test
`, dataDir)
}

func TestPracticeCommand(t *testing.T) {
	cfg := writeConfig(t, practiceConfig(writeSnapshotFixture(t)))
	gen := &scriptedGenerator{reply: "1. What is the GCF of 12 and 18?"}
	swapGeneratorFactory(t, "openai", gen)

	// practice.jurisdiction defaults to Multi-State, so the repeated
	// 6.NS.B.4 code resolves without an explicit --jurisdiction.
	out, err := runKgraph(t, "practice", "6.NS.B.4", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Target: 6.NS.B.4")
	assert.Contains(t, out, "Prerequisites used: 1")
	assert.Contains(t, out, "1. What is the GCF of 12 and 18?")

	assert.Equal(t, practice.SystemPrompt, gen.system)
	assert.Contains(t, gen.user, "generate 3 practice questions")
	assert.Contains(t, gen.user, "Target Standard:\n- 6.NS.B.4:")
	assert.Contains(t, gen.user, "4.OA.B.4")
	assert.Contains(t, gen.user, "Identify factors of whole numbers.")
}

func TestPracticeCommand_CountOverride(t *testing.T) {
	cfg := writeConfig(t, practiceConfig(writeSnapshotFixture(t)))
	gen := &scriptedGenerator{reply: "questions"}
	swapGeneratorFactory(t, "openai", gen)

	_, err := runKgraph(t, "practice", "6.NS.B.4", "--config", cfg, "--count", "5")
	require.NoError(t, err)
	assert.Contains(t, gen.user, "generate 5 practice questions")
}

func TestPracticeCommand_ScopeOverride(t *testing.T) {
	cfg := writeConfig(t, practiceConfig(writeSnapshotFixture(t)))
	gen := &scriptedGenerator{reply: "questions"}
	swapGeneratorFactory(t, "openai", gen)

	// West Virginia's 6.NS.B.4 has no prerequisite edges into its own
	// jurisdiction, so the context carries none.
	out, err := runKgraph(t, "practice", "6.NS.B.4", "--config", cfg, "--jurisdiction", "West Virginia")
	require.NoError(t, err)
	assert.Contains(t, out, "Prerequisites used: 0")
}

func TestPracticeCommand_UnknownCode(t *testing.T) {
	cfg := writeConfig(t, practiceConfig(writeSnapshotFixture(t)))
	swapGeneratorFactory(t, "openai", &scriptedGenerator{reply: "unused"})

	_, err := runKgraph(t, "practice", "9.G.A.1", "--config", cfg)
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeStoreStandardNotFound),
		"expected not-found error, got: %v", err)
}
