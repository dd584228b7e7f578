// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// DefaultSearchLimit is the hit count used when a search request omits k.
const DefaultSearchLimit = 5

// RegisterServices sets the service dependencies and registers the REST
// routes. Standards, Alignment, and Status are required; Search may be
// nil, in which case the search endpoint answers 503.
func (s *Server) RegisterServices(svc *Services) error {
	if svc == nil || svc.Standards == nil {
		return kgerr.New(kgerr.CodeServerStartFailure, "standards service is required")
	}
	if svc.Alignment == nil {
		return kgerr.New(kgerr.CodeServerStartFailure, "alignment service is required")
	}
	if svc.Status == nil {
		return kgerr.New(kgerr.CodeServerStartFailure, "status service is required")
	}

	s.services = svc
	s.registerRoutes()
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Dataset and index status",
		Tags:        []string{"system"},
	}, s.handleStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-standard",
		Method:      http.MethodGet,
		Path:        "/api/v1/standards/{id}",
		Summary:     "Get a standard",
		Tags:        []string{"standards"},
	}, s.handleGetStandard)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-standard-components",
		Method:      http.MethodGet,
		Path:        "/api/v1/standards/{id}/components",
		Summary:     "List a standard's supporting learning components",
		Tags:        []string{"standards"},
	}, s.handleGetComponents)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-standard-prerequisites",
		Method:      http.MethodGet,
		Path:        "/api/v1/standards/{id}/prerequisites",
		Summary:     "List a standard's prerequisite standards",
		Tags:        []string{"standards"},
	}, s.handleGetPrerequisites)

	huma.Register(s.api, huma.Operation{
		OperationID: "align-standards",
		Method:      http.MethodPost,
		Path:        "/api/v1/align",
		Summary:     "Match standards across jurisdictions by shared components",
		Tags:        []string{"alignment"},
	}, s.handleAlign)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-standards",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Semantic search over standard descriptions",
		Tags:        []string{"search"},
	}, s.handleSearch)
}

// --- Request/response types ---

type statusOutput struct {
	Body StatusDetail
}

type standardInput struct {
	ID string `path:"id" doc:"CASE identifier of the standard"`
}

type standardOutput struct {
	Body StandardDetail
}

type componentsOutput struct {
	Body struct {
		StandardID string            `json:"standardId"`
		Components []ComponentDetail `json:"components"`
	}
}

type prerequisitesInput struct {
	ID              string `path:"id" doc:"CASE identifier of the standard"`
	Jurisdiction    string `query:"jurisdiction" doc:"Restrict candidates to this jurisdiction"`
	AcademicSubject string `query:"academicSubject" doc:"Restrict candidates to this academic subject"`
}

type prerequisitesOutput struct {
	Body struct {
		StandardID    string           `json:"standardId"`
		Prerequisites []StandardDetail `json:"prerequisites"`
	}
}

type alignInput struct {
	Body struct {
		StandardID         string   `json:"standardId,omitempty" doc:"Source standard whose components form the reference set"`
		ComponentIDs       []string `json:"componentIds,omitempty" doc:"Explicit reference component ids"`
		TargetJurisdiction string   `json:"targetJurisdiction" minLength:"1" doc:"Jurisdiction to match into"`
	}
}

type alignOutput struct {
	Body struct {
		TargetJurisdiction string           `json:"targetJurisdiction"`
		Matches            []AlignmentMatch `json:"matches"`
	}
}

type searchInput struct {
	Body struct {
		Query string `json:"query" minLength:"1" doc:"Natural-language query text"`
		K     int    `json:"k,omitempty" doc:"Maximum number of hits, default 5"`
	}
}

type searchOutput struct {
	Body struct {
		Query string      `json:"query"`
		Hits  []SearchHit `json:"hits"`
	}
}

// --- Handlers ---

func (s *Server) handleStatus(ctx context.Context, _ *struct{}) (*statusOutput, error) {
	detail, err := s.services.Status.Status(ctx)
	if err != nil {
		return nil, humaError(err)
	}
	return &statusOutput{Body: *detail}, nil
}

func (s *Server) handleGetStandard(ctx context.Context, input *standardInput) (*standardOutput, error) {
	detail, err := s.services.Standards.Standard(ctx, input.ID)
	if err != nil {
		return nil, humaError(err)
	}
	return &standardOutput{Body: *detail}, nil
}

func (s *Server) handleGetComponents(ctx context.Context, input *standardInput) (*componentsOutput, error) {
	components, err := s.services.Standards.Components(ctx, input.ID)
	if err != nil {
		return nil, humaError(err)
	}
	out := &componentsOutput{}
	out.Body.StandardID = input.ID
	out.Body.Components = components
	return out, nil
}

func (s *Server) handleGetPrerequisites(ctx context.Context, input *prerequisitesInput) (*prerequisitesOutput, error) {
	prerequisites, err := s.services.Standards.Prerequisites(ctx, input.ID, input.Jurisdiction, input.AcademicSubject)
	if err != nil {
		return nil, humaError(err)
	}
	out := &prerequisitesOutput{}
	out.Body.StandardID = input.ID
	out.Body.Prerequisites = prerequisites
	return out, nil
}

func (s *Server) handleAlign(ctx context.Context, input *alignInput) (*alignOutput, error) {
	matches, err := s.services.Alignment.Align(ctx, AlignParams{
		StandardID:         input.Body.StandardID,
		ComponentIDs:       input.Body.ComponentIDs,
		TargetJurisdiction: input.Body.TargetJurisdiction,
	})
	if err != nil {
		return nil, humaError(err)
	}
	out := &alignOutput{}
	out.Body.TargetJurisdiction = input.Body.TargetJurisdiction
	out.Body.Matches = matches
	return out, nil
}

func (s *Server) handleSearch(ctx context.Context, input *searchInput) (*searchOutput, error) {
	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("semantic search is not configured")
	}

	k := input.Body.K
	if k == 0 {
		k = DefaultSearchLimit
	}

	hits, err := s.services.Search.Search(ctx, input.Body.Query, k)
	if err != nil {
		return nil, humaError(err)
	}
	out := &searchOutput{}
	out.Body.Query = input.Body.Query
	out.Body.Hits = hits
	return out, nil
}

// humaError converts a domain error into the status error the client
// sees. An empty embedding index answers 503 rather than the taxonomy
// default so clients can tell "not ready" from "bad request".
func humaError(err error) error {
	if kgerr.HasCode(err, kgerr.CodeSearchNoRecords) {
		return huma.NewError(http.StatusServiceUnavailable, err.Error())
	}
	return huma.NewError(kgerr.HTTPStatus(err), err.Error())
}
