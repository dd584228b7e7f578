// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package google wires Google Gemini models into the provider interfaces.
// Like openai it serves both roles: embedding models for the vector store
// and chat models for practice generation.
package google

import (
	"context"

	"google.golang.org/genai"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

const (
	// DefaultEmbeddingModel produces 768-dimensional vectors.
	DefaultEmbeddingModel = "text-embedding-004"
	// DefaultChatModel is used for practice question generation.
	DefaultChatModel = "gemini-2.5-flash"
)

// Config holds the Google client configuration.
type Config struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	Temperature    float64
}

// Client calls the Google Gemini API.
type Client struct {
	client *genai.Client
	config Config
}

var (
	_ provider.Embedder  = (*Client)(nil)
	_ provider.Generator = (*Client)(nil)
)

// New creates a Google client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, kgerr.New(kgerr.CodeProviderRequestInvalid,
			"google: missing api key", kgerr.FieldProvider("google"))
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, kgerr.Wrapf(err, kgerr.CodeProviderUpstreamFailure, "google: creating client")
	}

	return &Client{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return "google" }

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Models.EmbedContent(ctx, c.config.EmbeddingModel, userContents(text), nil)
	if err != nil {
		return nil, provider.WrapCall(err, "google: embed content")
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, kgerr.New(kgerr.CodeProviderResponseInvalid,
			"google: embedding response carries no values", kgerr.FieldProvider("google"))
	}
	return resp.Embeddings[0].Values, nil
}

// Generate runs a single non-streaming content request and concatenates
// the text parts of the first candidate.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := buildGenerateConfig(systemPrompt, c.config.Temperature)

	resp, err := c.client.Models.GenerateContent(ctx, c.config.ChatModel, userContents(userPrompt), config)
	if err != nil {
		return "", provider.WrapCall(err, "google: generate content")
	}

	text := extractText(resp)
	if text == "" {
		return "", kgerr.New(kgerr.CodeProviderResponseInvalid,
			"google: response carries no text content", kgerr.FieldProvider("google"))
	}
	return text, nil
}

// Close releases client resources. The genai client holds none.
func (c *Client) Close() error { return nil }

// userContents wraps a prompt as a single-turn user content list.
func userContents(text string) []*genai.Content {
	return []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: text},
			},
		},
	}
}

// buildGenerateConfig assembles the generation config. System prompts ride
// in SystemInstruction rather than the content list.
func buildGenerateConfig(systemPrompt string, temperature float64) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(temperature))
	}

	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	return cfg
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}
