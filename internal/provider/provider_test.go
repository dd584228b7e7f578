// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package provider_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapCall(t *testing.T) {
	assert.NoError(t, provider.WrapCall(nil, "noop"))

	timeout := provider.WrapCall(fmt.Errorf("call: %w", context.DeadlineExceeded), "embed call")
	require.Error(t, timeout)
	assert.True(t, kgerr.IsTimeout(timeout))
	assert.True(t, kgerr.IsExternalService(timeout))

	upstream := provider.WrapCall(errors.New("boom"), "embed call")
	require.Error(t, upstream)
	assert.True(t, kgerr.IsUpstreamFailure(upstream))
	assert.True(t, kgerr.IsExternalService(upstream))

	// Operator cancellation is not a provider fault.
	cancelled := provider.WrapCall(context.Canceled, "embed call")
	require.Error(t, cancelled)
	assert.True(t, errors.Is(cancelled, context.Canceled))
	assert.False(t, kgerr.IsExternalService(cancelled))
}

type scriptedEmbedder struct {
	err    error
	closed bool
}

func (s *scriptedEmbedder) Name() string { return "scripted" }
func (s *scriptedEmbedder) Embed(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0}, nil
}
func (s *scriptedEmbedder) Close() error {
	s.closed = true
	return nil
}

type scriptedGenerator struct {
	err error
}

func (s *scriptedGenerator) Name() string { return "scripted" }
func (s *scriptedGenerator) Generate(context.Context, string, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "generated text", nil
}
func (s *scriptedGenerator) Close() error { return nil }

func TestTrackEmbedderRecordsOutcomes(t *testing.T) {
	tracker, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
	require.NoError(t, err)

	inner := &scriptedEmbedder{}
	tracked := provider.TrackEmbedder(inner, tracker)
	assert.Equal(t, "scripted", tracked.Name())

	_, err = tracked.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.True(t, tracker.IsHealthy())
	assert.EqualValues(t, 0, tracker.Metrics().FailureCount)

	inner.err = errors.New("boom")
	_, err = tracked.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.False(t, tracker.IsHealthy())
	assert.EqualValues(t, 1, tracker.Metrics().FailureCount)

	require.NoError(t, tracked.Close())
	assert.True(t, inner.closed)
}

func TestTrackGeneratorRecordsOutcomes(t *testing.T) {
	tracker, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
	require.NoError(t, err)

	inner := &scriptedGenerator{}
	tracked := provider.TrackGenerator(inner, tracker)

	text, err := tracked.Generate(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	assert.True(t, tracker.IsHealthy())

	inner.err = errors.New("boom")
	_, err = tracked.Generate(context.Background(), "system", "user")
	require.Error(t, err)
	assert.False(t, tracker.IsHealthy())
}
