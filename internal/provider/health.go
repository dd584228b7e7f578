// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package provider

import (
	"context"
	"sync"
	"time"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// HealthMetrics is a point-in-time snapshot of one provider's call
// health, safe to serialize to JSON for the status endpoint and the
// doctor command.
type HealthMetrics struct {
	FailureCount  int64      `json:"failure_count"`
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
	Available     bool       `json:"available"`
}

// HealthTracker records call outcomes for one upstream model service.
// A service is considered healthy until RecordFailure is called; after
// a failure it is reported unhealthy for a cooldown period, then
// eligible again so a transient outage does not stick forever.
type HealthTracker struct {
	mu           sync.RWMutex
	healthy      bool
	failedAt     time.Time
	cooldown     time.Duration
	failureCount int64
	nowFunc      func() time.Time // for testing
}

// DefaultHealthCooldown is the duration after which an unhealthy
// service becomes eligible for retry.
const DefaultHealthCooldown = 30 * time.Second

// NewHealthTracker creates a HealthTracker that starts healthy.
// Returns an error if cooldown is zero or negative.
func NewHealthTracker(cooldown time.Duration) (*HealthTracker, error) {
	if cooldown <= 0 {
		return nil, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"health tracker cooldown must be positive, got %s", cooldown)
	}
	return &HealthTracker{
		healthy:  true,
		cooldown: cooldown,
		nowFunc:  time.Now,
	}, nil
}

// isHealthyLocked reports whether the service is healthy or the
// cooldown has elapsed. The caller MUST hold at least h.mu.RLock.
func (h *HealthTracker) isHealthyLocked() bool {
	if h.healthy {
		return true
	}
	return h.nowFunc().Sub(h.failedAt) >= h.cooldown
}

// IsHealthy returns true if the service is healthy or the cooldown has
// elapsed.
func (h *HealthTracker) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.isHealthyLocked()
}

// RecordSuccess marks the service as healthy.
func (h *HealthTracker) RecordSuccess() {
	h.mu.Lock()
	h.healthy = true
	h.mu.Unlock()
}

// RecordFailure marks the service as unhealthy and increments the
// cumulative failure count.
func (h *HealthTracker) RecordFailure() {
	h.mu.Lock()
	h.healthy = false
	h.failedAt = h.nowFunc()
	h.failureCount++
	h.mu.Unlock()
}

// SetNowFunc overrides the time source (for testing).
func (h *HealthTracker) SetNowFunc(fn func() time.Time) {
	h.mu.Lock()
	h.nowFunc = fn
	h.mu.Unlock()
}

// Metrics returns a point-in-time snapshot of the tracker's state,
// safe to serialize.
func (h *HealthTracker) Metrics() HealthMetrics {
	h.mu.RLock()
	defer h.mu.RUnlock()

	m := HealthMetrics{
		FailureCount: h.failureCount,
	}

	if h.failureCount > 0 {
		t := h.failedAt
		m.LastFailureAt = &t
	}

	m.Available = h.isHealthyLocked()
	if !h.healthy {
		cooldownEnd := h.failedAt.Add(h.cooldown)
		m.CooldownUntil = &cooldownEnd
	}
	return m
}

// TrackedEmbedder decorates an Embedder with health accounting so
// status surfaces can report embedding-service availability.
type TrackedEmbedder struct {
	inner   Embedder
	tracker *HealthTracker
}

var _ Embedder = (*TrackedEmbedder)(nil)

// TrackEmbedder wraps e so every call outcome is recorded on tracker.
func TrackEmbedder(e Embedder, tracker *HealthTracker) *TrackedEmbedder {
	return &TrackedEmbedder{inner: e, tracker: tracker}
}

func (t *TrackedEmbedder) Name() string { return t.inner.Name() }

func (t *TrackedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := t.inner.Embed(ctx, text)
	if err != nil {
		t.tracker.RecordFailure()
		return nil, err
	}
	t.tracker.RecordSuccess()
	return vec, nil
}

func (t *TrackedEmbedder) Close() error { return t.inner.Close() }

// TrackedGenerator decorates a Generator with health accounting.
type TrackedGenerator struct {
	inner   Generator
	tracker *HealthTracker
}

var _ Generator = (*TrackedGenerator)(nil)

// TrackGenerator wraps g so every call outcome is recorded on tracker.
func TrackGenerator(g Generator, tracker *HealthTracker) *TrackedGenerator {
	return &TrackedGenerator{inner: g, tracker: tracker}
}

func (t *TrackedGenerator) Name() string { return t.inner.Name() }

func (t *TrackedGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text, err := t.inner.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		t.tracker.RecordFailure()
		return "", err
	}
	t.tracker.RecordSuccess()
	return text, nil
}

func (t *TrackedGenerator) Close() error { return t.inner.Close() }
