// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.True(t, kgerr.IsInvalidInput(err))
}

func TestNewAppliesDefaults(t *testing.T) {
	client, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultEmbeddingModel, client.config.EmbeddingModel)
	assert.Equal(t, DefaultChatModel, client.config.ChatModel)
	assert.Equal(t, "google", client.Name())
}

func TestUserContents(t *testing.T) {
	contents := userContents("Write three questions.")

	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t, "Write three questions.", contents[0].Parts[0].Text)
}

func TestBuildGenerateConfig(t *testing.T) {
	t.Run("system prompt rides in SystemInstruction", func(t *testing.T) {
		cfg := buildGenerateConfig("You are a tutor.", 0.7)

		require.NotNil(t, cfg.SystemInstruction)
		require.Len(t, cfg.SystemInstruction.Parts, 1)
		assert.Equal(t, "You are a tutor.", cfg.SystemInstruction.Parts[0].Text)
		require.NotNil(t, cfg.Temperature)
		assert.InDelta(t, 0.7, float64(*cfg.Temperature), 1e-6)
	})

	t.Run("empty system prompt leaves SystemInstruction unset", func(t *testing.T) {
		cfg := buildGenerateConfig("", 0)

		assert.Nil(t, cfg.SystemInstruction)
		assert.Nil(t, cfg.Temperature)
	})
}

func TestExtractText(t *testing.T) {
	t.Run("concatenates text parts of the first candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Role: "model",
						Parts: []*genai.Part{
							{Text: "1. Solve "},
							{Text: "x + 3 = 7."},
						},
					},
				},
				{
					Content: &genai.Content{
						Role:  "model",
						Parts: []*genai.Part{{Text: "ignored second candidate"}},
					},
				},
			},
		}

		assert.Equal(t, "1. Solve x + 3 = 7.", extractText(resp))
	})

	t.Run("empty for nil response or candidate content", func(t *testing.T) {
		assert.Empty(t, extractText(nil))
		assert.Empty(t, extractText(&genai.GenerateContentResponse{}))
		assert.Empty(t, extractText(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{}},
		}))
	})
}
