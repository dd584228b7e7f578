// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package practice packages a standard's prerequisite context and turns it
// into tutoring prompts for a generation provider.
package practice

import (
	"github.com/learning-commons-org/knowledge-graph/internal/graph"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// Placeholders substitute empty descriptions so prompts never carry blank
// fields.
const (
	NoStatementPlaceholder   = "(no statement)"
	NoDescriptionPlaceholder = "(no description)"
)

// StandardContext is the prompt-facing slice of a standard.
type StandardContext struct {
	StatementCode string `json:"statementCode"`
	Description   string `json:"description"`
}

// ComponentContext is the prompt-facing slice of a learning component.
type ComponentContext struct {
	Description string `json:"description"`
}

// PrereqContext is a prerequisite standard together with the learning
// components supporting it.
type PrereqContext struct {
	StandardContext
	SupportingLearningComponents []ComponentContext `json:"supportingLearningComponents"`
}

// Context is the packaged input of one practice generation.
type Context struct {
	TargetStandard  StandardContext `json:"targetStandard"`
	PrereqStandards []PrereqContext `json:"prereqStandards"`
}

// Scope restricts the candidate pool for prerequisite discovery.
// Zero fields leave the pool unrestricted.
type Scope struct {
	Jurisdiction    string
	AcademicSubject string
}

func (s Scope) restricted() bool {
	return s.Jurisdiction != "" || s.AcademicSubject != ""
}

// Builder assembles generation contexts from the snapshot graph.
type Builder struct {
	entities store.EntityStore
	engine   *graph.Engine
}

// NewBuilder creates a context builder.
func NewBuilder(entities store.EntityStore, engine *graph.Engine) *Builder {
	return &Builder{entities: entities, engine: engine}
}

// BuildContext packages the target standard and its in-scope prerequisites,
// each with its own supporting learning components in edge order.
// Prerequisite edges count only when both endpoints are in scope, so a
// target outside the scope packages with no prerequisites at all.
func (b *Builder) BuildContext(standardID string, scope Scope) (*Context, error) {
	target, ok := b.entities.StandardByID(standardID)
	if !ok {
		return nil, kgerr.New(kgerr.CodeStoreStandardNotFound,
			"standard not found", kgerr.FieldStandardID(standardID))
	}

	pctx := &Context{
		TargetStandard: StandardContext{
			StatementCode: target.StatementCode,
			Description:   orPlaceholder(target.Description, NoStatementPlaceholder),
		},
	}

	var pool graph.Pool
	if scope.restricted() {
		pool = graph.NewPool(b.entities.FindStandards(store.StandardQuery{
			Jurisdiction:    scope.Jurisdiction,
			AcademicSubject: scope.AcademicSubject,
		}))
		if !pool.Contains(target.ID) {
			return pctx, nil
		}
	}

	for _, prereq := range b.engine.PrerequisitesOf(standardID, pool) {
		pc := PrereqContext{
			StandardContext: StandardContext{
				StatementCode: prereq.StatementCode,
				Description:   orPlaceholder(prereq.Description, NoStatementPlaceholder),
			},
		}

		components, err := b.engine.SupportingComponents(prereq.ID)
		if err != nil {
			return nil, err
		}
		for _, lc := range components {
			pc.SupportingLearningComponents = append(pc.SupportingLearningComponents, ComponentContext{
				Description: orPlaceholder(lc.Description, NoDescriptionPlaceholder),
			})
		}

		pctx.PrereqStandards = append(pctx.PrereqStandards, pc)
	}
	return pctx, nil
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
