// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package openrouter wires OpenRouter's OpenAI-compatible API into the
// generator interface. It rides the OpenAI SDK with a different base URL,
// which opens practice generation to any model OpenRouter fronts.
package openrouter

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

const baseURL = "https://openrouter.ai/api/v1"

// DefaultModel is used when the config leaves the model unset.
const DefaultModel = "anthropic/claude-sonnet-4-5"

// Config holds the OpenRouter client configuration.
type Config struct {
	APIKey      string
	BaseURL     string // optional override, mainly for tests
	Model       string
	Temperature float64
}

// Client calls OpenRouter's chat completion endpoint.
type Client struct {
	client openaisdk.Client
	config Config
}

var _ provider.Generator = (*Client)(nil)

// New creates an OpenRouter client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, kgerr.New(kgerr.CodeProviderRequestInvalid,
			"openrouter: missing api key", kgerr.FieldProvider("openrouter"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	base := baseURL
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}

	return &Client{
		client: openaisdk.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(base),
		),
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return "openrouter" }

// Generate runs a single non-streaming chat completion.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaisdk.UserMessage(userPrompt))

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.config.Model),
		Messages: messages,
	}
	if c.config.Temperature > 0 {
		params.Temperature = param.NewOpt(c.config.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", provider.WrapCall(err, "openrouter: chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", kgerr.New(kgerr.CodeProviderResponseInvalid,
			"openrouter: completion carries no choices", kgerr.FieldProvider("openrouter"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Close releases client resources. The underlying client holds none.
func (c *Client) Close() error { return nil }
