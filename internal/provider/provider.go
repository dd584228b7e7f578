// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package provider defines the contracts for the external model
// services the system calls: text embedding and text generation.
// Concrete clients live in subpackages, one per upstream API.
package provider

import (
	"context"
	"errors"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// Embedder produces a numeric vector for a text. The dimension is
// fixed per configured model and must match the embedding store's
// stored dimension.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// Generator produces an opaque text response from a system and user
// prompt pair. Callers treat the response as an unparsed string.
type Generator interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Close() error
}

// WrapCall classifies an error from an upstream model call: deadline
// expiry becomes a timeout, cancellation passes through unwrapped so
// callers can distinguish an operator abort from a provider fault, and
// everything else is an upstream failure.
func WrapCall(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return kgerr.Wrap(err, kgerr.CodeProviderCallTimeout, msg)
	}
	return kgerr.Wrap(err, kgerr.CodeProviderUpstreamFailure, msg)
}
