// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package server

import (
	"context"
	"strings"

	"github.com/learning-commons-org/knowledge-graph/internal/embedding"
	"github.com/learning-commons-org/knowledge-graph/internal/graph"
	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// StandardService resolves standards and their graph neighborhoods.
type StandardService interface {
	Standard(ctx context.Context, id string) (*StandardDetail, error)
	Components(ctx context.Context, id string) ([]ComponentDetail, error)
	Prerequisites(ctx context.Context, id, jurisdiction, academicSubject string) ([]StandardDetail, error)
}

// AlignmentService matches standards across jurisdictions by shared
// learning components.
type AlignmentService interface {
	Align(ctx context.Context, params AlignParams) ([]AlignmentMatch, error)
}

// SearchService embeds query text and ranks it against the stored
// embedding set.
type SearchService interface {
	Search(ctx context.Context, query string, k int) ([]SearchHit, error)
}

// StatusService reports dataset, embedding index, and provider state.
type StatusService interface {
	Status(ctx context.Context) (*StatusDetail, error)
}

// Services holds the dependencies injected into route handlers. Search
// is optional; when nil the search endpoint answers 503.
type Services struct {
	Standards StandardService
	Alignment AlignmentService
	Status    StatusService
	Search    SearchService
}

// --- REST representations ---

// StandardDetail is the REST representation of a standard.
type StandardDetail struct {
	ID              string   `json:"caseIdentifierUUID" doc:"CASE identifier"`
	StatementCode   string   `json:"statementCode" doc:"Human-readable statement code"`
	Jurisdiction    string   `json:"jurisdiction" doc:"Publishing jurisdiction"`
	AcademicSubject string   `json:"academicSubject" doc:"Academic subject"`
	Description     string   `json:"description,omitempty" doc:"Statement text"`
	StatementType   string   `json:"statementType,omitempty" doc:"Standard vs Standard Grouping"`
	GradeLevels     []string `json:"gradeLevels,omitempty" doc:"Grade labels, when present"`
}

// ComponentDetail is the REST representation of a learning component.
type ComponentDetail struct {
	ID          string `json:"caseIdentifierUUID" doc:"Component identifier"`
	Description string `json:"description,omitempty" doc:"Component text"`
}

// AlignParams selects the reference component set and the jurisdiction
// to match into. Exactly one of StandardID and ComponentIDs must be set.
type AlignParams struct {
	StandardID         string
	ComponentIDs       []string
	TargetJurisdiction string
}

// OverlapDetail reports how much of the reference component set a match
// shares, as a count and an unreduced shared/reference ratio.
type OverlapDetail struct {
	Count int    `json:"count" doc:"Reference descriptions found on the match"`
	Ratio string `json:"ratio" example:"2/3" doc:"count over reference size, unreduced"`
}

// AlignmentMatch is one matched standard with its full component set.
type AlignmentMatch struct {
	Standard   StandardDetail    `json:"standard"`
	Components []ComponentDetail `json:"components" doc:"Every component supporting the match, shared or not"`
	Overlap    OverlapDetail     `json:"overlap"`
}

// SearchHit is one ranked semantic search result.
type SearchHit struct {
	CaseIdentifierUUID string  `json:"caseIdentifierUUID" doc:"Standard identifier"`
	StatementCode      string  `json:"statementCode" doc:"Statement code"`
	Description        string  `json:"description,omitempty" doc:"Statement text, when the standard is loaded"`
	Score              float64 `json:"score" doc:"Cosine similarity to the query"`
}

// DatasetCounts reports loaded collection sizes.
type DatasetCounts struct {
	Standards  int `json:"standards"`
	Components int `json:"components"`
	Edges      int `json:"edges"`
	Frameworks int `json:"frameworks"`
}

// EmbeddingsStatus reports embedding index availability.
type EmbeddingsStatus struct {
	Available bool `json:"available" doc:"Whether an embedding index is loaded"`
	Records   int  `json:"records" doc:"Stored embedding count"`
	Dimension int  `json:"dimension,omitempty" doc:"Vector width"`
}

// StatusDetail is the status endpoint body.
type StatusDetail struct {
	Status     string                            `json:"status" example:"ok"`
	Dataset    DatasetCounts                     `json:"dataset"`
	Embeddings EmbeddingsStatus                  `json:"embeddings"`
	Providers  map[string]provider.HealthMetrics `json:"providers,omitempty" doc:"Per-provider call health"`
}

// --- Concrete services over the loaded dataset ---

// DatasetService implements StandardService and AlignmentService over
// the entity store and graph engine.
type DatasetService struct {
	entities store.EntityStore
	engine   *graph.Engine
}

// NewDatasetService returns a DatasetService.
func NewDatasetService(entities store.EntityStore, engine *graph.Engine) *DatasetService {
	return &DatasetService{entities: entities, engine: engine}
}

var (
	_ StandardService  = (*DatasetService)(nil)
	_ AlignmentService = (*DatasetService)(nil)
)

func (s *DatasetService) Standard(_ context.Context, id string) (*StandardDetail, error) {
	std, ok := s.entities.StandardByID(id)
	if !ok {
		return nil, kgerr.New(kgerr.CodeStoreStandardNotFound, "standard not found",
			kgerr.FieldStandardID(id))
	}
	detail := standardDetail(std)
	return &detail, nil
}

func (s *DatasetService) Components(_ context.Context, id string) ([]ComponentDetail, error) {
	components, err := s.engine.SupportingComponents(id)
	if err != nil {
		return nil, err
	}
	return componentDetails(components), nil
}

func (s *DatasetService) Prerequisites(_ context.Context, id, jurisdiction, academicSubject string) ([]StandardDetail, error) {
	if _, ok := s.entities.StandardByID(id); !ok {
		return nil, kgerr.New(kgerr.CodeStoreStandardNotFound, "standard not found",
			kgerr.FieldStandardID(id))
	}

	var pool graph.Pool
	if jurisdiction != "" || academicSubject != "" {
		pool = graph.NewPool(s.entities.FindStandards(store.StandardQuery{
			Jurisdiction:    jurisdiction,
			AcademicSubject: academicSubject,
		}))
	}

	prerequisites := s.engine.PrerequisitesOf(id, pool)
	details := make([]StandardDetail, 0, len(prerequisites))
	for _, std := range prerequisites {
		details = append(details, standardDetail(std))
	}
	return details, nil
}

func (s *DatasetService) Align(_ context.Context, params AlignParams) ([]AlignmentMatch, error) {
	reference, err := s.referenceComponents(params)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reference))
	for _, lc := range reference {
		ids = append(ids, lc.ID)
	}

	matches, err := s.engine.MatchByComponentOverlap(ids, params.TargetJurisdiction)
	if err != nil {
		return nil, err
	}

	referenceDescriptions := graph.ComponentDescriptions(reference)
	out := make([]AlignmentMatch, 0, len(matches))
	for _, m := range matches {
		overlap := graph.ComputeOverlap(referenceDescriptions, graph.ComponentDescriptions(m.Components))
		out = append(out, AlignmentMatch{
			Standard:   standardDetail(m.Standard),
			Components: componentDetails(m.Components),
			Overlap:    OverlapDetail{Count: overlap.Count, Ratio: overlap.Ratio},
		})
	}
	return out, nil
}

// referenceComponents resolves the reference set from either a source
// standard or explicit component ids.
func (s *DatasetService) referenceComponents(params AlignParams) ([]*store.LearningComponent, error) {
	switch {
	case params.StandardID != "" && len(params.ComponentIDs) > 0:
		return nil, kgerr.New(kgerr.CodeStoreInvalidInput,
			"standardId and componentIds are mutually exclusive")

	case params.StandardID != "":
		return s.engine.SupportingComponents(params.StandardID)

	case len(params.ComponentIDs) > 0:
		components := make([]*store.LearningComponent, 0, len(params.ComponentIDs))
		for _, id := range params.ComponentIDs {
			lc, ok := s.entities.ComponentByID(id)
			if !ok {
				return nil, kgerr.New(kgerr.CodeStoreComponentNotFound, "learning component not found",
					kgerr.FieldComponentID(id))
			}
			components = append(components, lc)
		}
		return components, nil

	default:
		return nil, kgerr.New(kgerr.CodeStoreInvalidInput,
			"either standardId or componentIds is required")
	}
}

// VectorSearch implements SearchService by embedding the query text and
// ranking it against the loaded record set. The entity store enriches
// hits with statement text when the standard is loaded.
type VectorSearch struct {
	embedder provider.Embedder
	index    *embedding.SearchEngine
	entities store.EntityStore
}

// NewVectorSearch returns a VectorSearch.
func NewVectorSearch(embedder provider.Embedder, index *embedding.SearchEngine, entities store.EntityStore) *VectorSearch {
	return &VectorSearch{embedder: embedder, index: index, entities: entities}
}

var _ SearchService = (*VectorSearch)(nil)

func (s *VectorSearch) Search(ctx context.Context, query string, k int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, kgerr.New(kgerr.CodeSearchRequestInvalid, "query text must not be empty")
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.index.Search(vector, k)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hit := SearchHit{
			CaseIdentifierUUID: r.Record.CaseIdentifierUUID,
			StatementCode:      r.Record.StatementCode,
			Score:              r.Score,
		}
		if std, ok := s.entities.StandardByID(r.Record.CaseIdentifierUUID); ok {
			hit.Description = std.Description
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// SystemStatus implements StatusService.
type SystemStatus struct {
	entities store.EntityStore
	index    *embedding.SearchEngine // nil when no embeddings are loaded
	trackers map[string]*provider.HealthTracker
}

// NewSystemStatus returns a SystemStatus. index may be nil; trackers may
// be nil or empty.
func NewSystemStatus(entities store.EntityStore, index *embedding.SearchEngine, trackers map[string]*provider.HealthTracker) *SystemStatus {
	return &SystemStatus{entities: entities, index: index, trackers: trackers}
}

var _ StatusService = (*SystemStatus)(nil)

func (s *SystemStatus) Status(_ context.Context) (*StatusDetail, error) {
	counts := s.entities.Counts()
	detail := &StatusDetail{
		Status: "ok",
		Dataset: DatasetCounts{
			Standards:  counts.Standards,
			Components: counts.Components,
			Edges:      counts.Edges,
			Frameworks: counts.Frameworks,
		},
	}

	if s.index != nil {
		detail.Embeddings = EmbeddingsStatus{
			Available: true,
			Records:   s.index.Size(),
			Dimension: s.index.Dimension(),
		}
	}

	if len(s.trackers) > 0 {
		detail.Providers = make(map[string]provider.HealthMetrics, len(s.trackers))
		for name, tracker := range s.trackers {
			detail.Providers[name] = tracker.Metrics()
		}
	}

	return detail, nil
}

// --- Domain to REST conversion ---

func standardDetail(std *store.Standard) StandardDetail {
	detail := StandardDetail{
		ID:              std.ID,
		StatementCode:   std.StatementCode,
		Jurisdiction:    std.Jurisdiction,
		AcademicSubject: std.AcademicSubject,
		Description:     std.Description,
		StatementType:   std.StatementType,
	}
	if std.GradeLevels.State == store.GradeLevelsPresent {
		detail.GradeLevels = std.GradeLevels.Labels
	}
	return detail
}

func componentDetails(components []*store.LearningComponent) []ComponentDetail {
	details := make([]ComponentDetail, 0, len(components))
	for _, lc := range components {
		details = append(details, ComponentDetail{ID: lc.ID, Description: lc.Description})
	}
	return details
}
