// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package openai wires OpenAI models into the provider interfaces. It is
// the only provider that serves both roles: text-embedding models for the
// vector store and chat models for practice generation.
package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

const (
	// DefaultEmbeddingModel produces 1536-dimensional vectors.
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultChatModel is used for practice question generation.
	DefaultChatModel = "gpt-4"
	// DefaultTemperature applies when the config leaves temperature unset.
	DefaultTemperature = 0.7
)

// Config holds the OpenAI client configuration.
type Config struct {
	APIKey         string
	BaseURL        string // optional override, mainly for tests
	EmbeddingModel string
	ChatModel      string
	Temperature    float64
}

// Client calls the OpenAI API for embeddings and chat completions.
type Client struct {
	client openaisdk.Client
	config Config
}

var (
	_ provider.Embedder  = (*Client)(nil)
	_ provider.Generator = (*Client)(nil)
)

// New creates an OpenAI client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, kgerr.New(kgerr.CodeProviderRequestInvalid,
			"openai: missing api key", kgerr.FieldProvider("openai"))
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: openaisdk.NewClient(opts...),
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return "openai" }

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model: openaisdk.EmbeddingModel(c.config.EmbeddingModel),
	})
	if err != nil {
		return nil, provider.WrapCall(err, "openai: create embedding")
	}
	if len(resp.Data) == 0 {
		return nil, kgerr.New(kgerr.CodeProviderResponseInvalid,
			"openai: embedding response carries no data", kgerr.FieldProvider("openai"))
	}

	raw := resp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Generate runs a single non-streaming chat completion.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaisdk.UserMessage(userPrompt))

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.config.ChatModel),
		Messages: messages,
	}
	if c.config.Temperature > 0 {
		params.Temperature = param.NewOpt(c.config.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", provider.WrapCall(err, "openai: chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", kgerr.New(kgerr.CodeProviderResponseInvalid,
			"openai: completion carries no choices", kgerr.FieldProvider("openai"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Close releases client resources. The OpenAI client holds none.
func (c *Client) Close() error { return nil }
