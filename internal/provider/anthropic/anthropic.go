// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package anthropic wires Anthropic Claude models into the generator
// interface. Anthropic offers no embedding endpoint, so this provider
// serves practice generation only.
package anthropic

import (
	"context"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

const (
	// DefaultModel is used when the config leaves the model unset.
	DefaultModel = "claude-sonnet-4-5"
	// DefaultMaxTokens bounds a single generation.
	DefaultMaxTokens = 4096
)

// Config holds the Anthropic client configuration.
type Config struct {
	APIKey      string
	BaseURL     string // optional override, mainly for tests
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Client calls the Anthropic Messages API.
type Client struct {
	client anthropicsdk.Client
	config Config
}

var _ provider.Generator = (*Client)(nil)

// New creates an Anthropic client from the given config.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, kgerr.New(kgerr.CodeProviderRequestInvalid,
			"anthropic: missing api key", kgerr.FieldProvider("anthropic"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: anthropicsdk.NewClient(opts...),
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return "anthropic" }

// Generate runs a single non-streaming message request and concatenates
// the text blocks of the response.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(c.config.Model),
		MaxTokens: c.config.MaxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropicsdk.TextBlockParam{
			{Text: systemPrompt},
		}
	}
	if c.config.Temperature > 0 {
		params.Temperature = anthropicsdk.Float(c.config.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", provider.WrapCall(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", kgerr.New(kgerr.CodeProviderResponseInvalid,
			"anthropic: message carries no text content", kgerr.FieldProvider("anthropic"))
	}
	return sb.String(), nil
}

// Close releases client resources. The Anthropic client holds none.
func (c *Client) Close() error { return nil }
