// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package embedding

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// DefaultCallTimeout bounds a single provider embedding call.
const DefaultCallTimeout = 30 * time.Second

// Failure records one standard the provider could not embed. The standard
// stays absent from the persisted set and can be retried on a resumed run.
type Failure struct {
	CaseIdentifierUUID string `json:"caseIdentifierUUID"`
	StatementCode      string `json:"statementCode"`
	Err                error  `json:"-"`
	Reason             string `json:"reason"`
}

// Report summarizes one embedding run.
type Report struct {
	RunID     string    `json:"runId"`
	Requested int       `json:"requested"`
	Embedded  int       `json:"embedded"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Failed returns the number of standards that could not be embedded.
func (r *Report) Failed() int { return len(r.Failures) }

// RunnerConfig holds batch run tuning.
type RunnerConfig struct {
	// CallTimeout bounds each provider call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration

	// Resume loads the persisted set first and skips standards that
	// already carry an embedding, so a rerun only retries the gaps.
	Resume bool
}

// Runner embeds standard descriptions through a provider and persists the
// resulting record set wholesale.
type Runner struct {
	embedder   provider.Embedder
	embeddings store.EmbeddingStore
	config     RunnerConfig
}

// NewRunner creates a batch runner.
func NewRunner(embedder provider.Embedder, embeddings store.EmbeddingStore, cfg RunnerConfig) *Runner {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Runner{
		embedder:   embedder,
		embeddings: embeddings,
		config:     cfg,
	}
}

// Run embeds the descriptions of the given standards one call at a time.
// Failures are recorded per standard and the run continues; the set built
// so far is persisted even when some standards failed, so the report's
// failures can be retried with Resume. The returned report is non-nil even
// when the run aborts early.
func (r *Runner) Run(ctx context.Context, standards []*store.Standard) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Requested: len(standards),
	}

	done := make(map[string]bool)
	if r.config.Resume {
		records, err := r.embeddings.LoadAll(ctx)
		switch {
		case err == nil:
			for _, rec := range records {
				done[rec.CaseIdentifierUUID] = true
			}
			slog.Info("resuming embedding run",
				"runId", report.RunID, "alreadyEmbedded", len(records))
		case kgerr.HasCode(err, kgerr.CodeEmbeddingFileMissing):
			// Nothing persisted yet, start fresh.
		default:
			return report, kgerr.Wrap(err, kgerr.CodeEmbeddingRunFailure,
				"loading persisted embeddings for resume")
		}
	}

	for _, std := range standards {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if done[std.ID] {
			report.Skipped++
			continue
		}
		if strings.TrimSpace(std.Description) == "" {
			report.Skipped++
			slog.Warn("standard has no description to embed, skipping",
				"caseIdentifierUUID", std.ID,
				"statementCode", std.StatementCode)
			continue
		}

		vector, err := r.embedOne(ctx, std.Description)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return report, err
			}
			report.Failures = append(report.Failures, Failure{
				CaseIdentifierUUID: std.ID,
				StatementCode:      std.StatementCode,
				Err:                err,
				Reason:             err.Error(),
			})
			slog.Warn("embedding call failed, continuing",
				"caseIdentifierUUID", std.ID,
				"statementCode", std.StatementCode,
				"error", err)
			continue
		}

		r.embeddings.Append(store.EmbeddingRecord{
			CaseIdentifierUUID: std.ID,
			StatementCode:      std.StatementCode,
			Embedding:          vector,
		})
		done[std.ID] = true
		report.Embedded++
	}

	if err := r.embeddings.PersistAll(ctx); err != nil {
		return report, kgerr.Wrap(err, kgerr.CodeEmbeddingRunFailure,
			"persisting embedding run")
	}
	return report, nil
}

func (r *Runner) embedOne(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.config.CallTimeout)
	defer cancel()
	return r.embedder.Embed(callCtx, text)
}
