// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package practice

import (
	"context"
	"strings"
	"time"

	"github.com/learning-commons-org/knowledge-graph/internal/provider"
)

// DefaultCallTimeout bounds one generation call.
const DefaultCallTimeout = 60 * time.Second

// ServiceConfig holds generation tuning.
type ServiceConfig struct {
	// QuestionCount is the number of questions to request.
	// Zero means DefaultQuestionCount.
	QuestionCount int

	// CallTimeout bounds the provider call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// Result carries the generated questions and the shape of the context they
// were generated from.
type Result struct {
	Questions         string `json:"aiGenerated"`
	TargetStandard    string `json:"targetStandard"`
	PrerequisiteCount int    `json:"prerequisiteCount"`

	Context *Context `json:"-"`
}

// Service generates practice questions for a standard.
type Service struct {
	builder   *Builder
	generator provider.Generator
	config    ServiceConfig
}

// NewService creates a practice generation service.
func NewService(builder *Builder, generator provider.Generator, cfg ServiceConfig) *Service {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = DefaultQuestionCount
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Service{
		builder:   builder,
		generator: generator,
		config:    cfg,
	}
}

// Generate packages the standard's prerequisite context and asks the
// provider for practice questions.
func (s *Service) Generate(ctx context.Context, standardID string, scope Scope) (*Result, error) {
	pctx, err := s.builder.BuildContext(standardID, scope)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	questions, err := s.generator.Generate(callCtx, SystemPrompt, UserPrompt(pctx, s.config.QuestionCount))
	if err != nil {
		return nil, err
	}

	return &Result{
		Questions:         strings.TrimSpace(questions),
		TargetStandard:    pctx.TargetStandard.StatementCode,
		PrerequisiteCount: len(pctx.PrereqStandards),
		Context:           pctx,
	}, nil
}
