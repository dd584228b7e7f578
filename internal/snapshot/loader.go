// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package snapshot loads a frozen CSV export of the standards graph
// into memory. A snapshot directory holds one CSV per entity kind plus
// an optional snapshot.yaml manifest; the loader is tolerant of dirty
// rows (it skips and warns) but strict about missing columns, which
// indicate the wrong file rather than bad data.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

// Snapshot is a fully parsed snapshot directory. Slices preserve file
// row order, which downstream ordering guarantees depend on.
type Snapshot struct {
	Manifest   Manifest
	Standards  []*store.Standard
	Components []*store.LearningComponent
	Edges      []store.RelationshipEdge
	Frameworks []*store.Framework
}

// EntityStore builds an in-memory entity store over the snapshot.
func (s *Snapshot) EntityStore() *store.MemoryEntityStore {
	return store.NewMemoryEntityStore(s.Standards, s.Components, s.Edges, s.Frameworks)
}

// Load reads the snapshot at dir. The standards, components, and
// relationships files are required; the frameworks file is optional
// because older exports did not include it.
func Load(dir string) (*Snapshot, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Manifest: manifest}

	snap.Standards, err = loadStandards(filepath.Join(dir, manifest.Files.Standards))
	if err != nil {
		return nil, err
	}
	snap.Components, err = loadComponents(filepath.Join(dir, manifest.Files.Components))
	if err != nil {
		return nil, err
	}
	snap.Edges, err = loadRelationships(filepath.Join(dir, manifest.Files.Relationships))
	if err != nil {
		return nil, err
	}

	frameworksPath := filepath.Join(dir, manifest.Files.Frameworks)
	if _, statErr := os.Stat(frameworksPath); statErr == nil {
		snap.Frameworks, err = loadFrameworks(frameworksPath)
		if err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// csvTable is one parsed CSV file with columns resolved by header name.
type csvTable struct {
	path    string
	columns map[string]int
	rows    [][]string
}

func readTable(path string, required ...string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kgerr.Wrapf(err, kgerr.CodeSnapshotReadFailure, "open snapshot file %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, kgerr.Errorf(kgerr.CodeSnapshotHeaderInvalid, "snapshot file %s is empty", path)
	}
	if err != nil {
		return nil, kgerr.Wrapf(err, kgerr.CodeSnapshotReadFailure, "read header of %s", path)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, kgerr.Errorf(kgerr.CodeSnapshotHeaderInvalid, "snapshot file %s is missing column %q", path, name)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, kgerr.Wrapf(err, kgerr.CodeSnapshotReadFailure, "read rows of %s", path)
	}

	return &csvTable{path: path, columns: columns, rows: rows}, nil
}

// cell returns the named column of a row, or "" when the file has no
// such column (optional columns only).
func (t *csvTable) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func loadStandards(path string) ([]*store.Standard, error) {
	table, err := readTable(path, "caseIdentifierUUID", "statementCode", "description", "normalizedStatementType", "jurisdiction", "academicSubject", "gradeLevel")
	if err != nil {
		return nil, err
	}

	standards := make([]*store.Standard, 0, len(table.rows))
	for i, row := range table.rows {
		id := table.cell(row, "caseIdentifierUUID")
		if id == "" {
			slog.Warn("skipping standard row with empty identifier", "file", table.path, "row", i+2)
			continue
		}

		grades := store.ParseGradeLevels(table.cell(row, "gradeLevel"))
		if grades.State == store.GradeLevelsMalformed {
			slog.Warn("grade level field is not a JSON string array",
				"file", table.path, "row", i+2, "caseIdentifierUUID", id)
		}

		standards = append(standards, &store.Standard{
			ID:              id,
			StatementCode:   table.cell(row, "statementCode"),
			Jurisdiction:    table.cell(row, "jurisdiction"),
			AcademicSubject: table.cell(row, "academicSubject"),
			Description:     table.cell(row, "description"),
			StatementType:   table.cell(row, "normalizedStatementType"),
			GradeLevels:     grades,
		})
	}
	return standards, nil
}

func loadComponents(path string) ([]*store.LearningComponent, error) {
	table, err := readTable(path, "identifier", "description")
	if err != nil {
		return nil, err
	}

	components := make([]*store.LearningComponent, 0, len(table.rows))
	for i, row := range table.rows {
		id := table.cell(row, "identifier")
		if id == "" {
			slog.Warn("skipping learning component row with empty identifier", "file", table.path, "row", i+2)
			continue
		}
		components = append(components, &store.LearningComponent{
			ID:          id,
			Description: table.cell(row, "description"),
		})
	}
	return components, nil
}

func loadRelationships(path string) ([]store.RelationshipEdge, error) {
	table, err := readTable(path, "relationshipType", "sourceEntityValue", "targetEntityValue")
	if err != nil {
		return nil, err
	}

	edges := make([]store.RelationshipEdge, 0, len(table.rows))
	for i, row := range table.rows {
		src := table.cell(row, "sourceEntityValue")
		dst := table.cell(row, "targetEntityValue")
		if src == "" || dst == "" {
			slog.Warn("skipping relationship row with empty endpoint", "file", table.path, "row", i+2)
			continue
		}

		var edgeType store.EdgeType
		switch rt := table.cell(row, "relationshipType"); rt {
		case string(store.EdgeSupports):
			edgeType = store.EdgeSupports
		case string(store.EdgeBuildsTowards):
			edgeType = store.EdgeBuildsTowards
		default:
			// Exports carry other relationship kinds the graph does not
			// traverse; they are not dirty rows.
			continue
		}

		edges = append(edges, store.RelationshipEdge{SourceID: src, TargetID: dst, Type: edgeType})
	}
	return edges, nil
}

func loadFrameworks(path string) ([]*store.Framework, error) {
	table, err := readTable(path, "caseIdentifierUUID", "name", "jurisdiction", "academicSubject")
	if err != nil {
		return nil, err
	}

	frameworks := make([]*store.Framework, 0, len(table.rows))
	for i, row := range table.rows {
		id := table.cell(row, "caseIdentifierUUID")
		if id == "" {
			slog.Warn("skipping framework row with empty identifier", "file", table.path, "row", i+2)
			continue
		}
		frameworks = append(frameworks, &store.Framework{
			ID:              id,
			Name:            table.cell(row, "name"),
			Jurisdiction:    table.cell(row, "jurisdiction"),
			AcademicSubject: table.cell(row, "academicSubject"),
		})
	}
	return frameworks, nil
}

// Describe returns a short human-readable summary of the snapshot,
// used by status output.
func (s *Snapshot) Describe() string {
	name := s.Manifest.Name
	if name == "" {
		name = "snapshot"
	}
	return fmt.Sprintf("%s: %d standards, %d learning components, %d relationships, %d frameworks",
		name, len(s.Standards), len(s.Components), len(s.Edges), len(s.Frameworks))
}
