// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package snapshot

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// ManifestFileName is the optional per-snapshot manifest. Snapshots
// exported with the standard file names need no manifest at all.
const ManifestFileName = "snapshot.yaml"

// Default CSV file names as exported by the upstream dataset.
const (
	DefaultStandardsFile     = "StandardsFrameworkItem.csv"
	DefaultComponentsFile    = "LearningComponent.csv"
	DefaultRelationshipsFile = "Relationships.csv"
	DefaultFrameworksFile    = "StandardsFramework.csv"
)

// Manifest describes a snapshot directory: dataset metadata plus the
// CSV file names when they differ from the defaults.
type Manifest struct {
	Name    string        `yaml:"name"`
	Version string        `yaml:"version"`
	Files   ManifestFiles `yaml:"files"`
}

// ManifestFiles holds per-entity CSV file names relative to the
// snapshot directory. Empty fields fall back to the defaults.
type ManifestFiles struct {
	Standards     string `yaml:"standards"`
	Components    string `yaml:"components"`
	Relationships string `yaml:"relationships"`
	Frameworks    string `yaml:"frameworks"`
}

// DefaultManifest returns a manifest pointing at the standard export
// file names.
func DefaultManifest() Manifest {
	return Manifest{
		Files: ManifestFiles{
			Standards:     DefaultStandardsFile,
			Components:    DefaultComponentsFile,
			Relationships: DefaultRelationshipsFile,
			Frameworks:    DefaultFrameworksFile,
		},
	}
}

// LoadManifest reads snapshot.yaml from dir. A missing manifest is not
// an error; the defaults apply. A manifest that exists but does not
// parse is reported rather than silently ignored, because a typo would
// otherwise load the wrong files.
func LoadManifest(dir string) (Manifest, error) {
	m := DefaultManifest()

	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, kgerr.Wrapf(err, kgerr.CodeSnapshotManifestInvalid, "read manifest %s", path)
	}

	var loaded Manifest
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return m, kgerr.Wrapf(err, kgerr.CodeSnapshotManifestInvalid, "parse manifest %s", path)
	}

	m.Name = loaded.Name
	m.Version = loaded.Version
	if loaded.Files.Standards != "" {
		m.Files.Standards = loaded.Files.Standards
	}
	if loaded.Files.Components != "" {
		m.Files.Components = loaded.Files.Components
	}
	if loaded.Files.Relationships != "" {
		m.Files.Relationships = loaded.Files.Relationships
	}
	if loaded.Files.Frameworks != "" {
		m.Files.Frameworks = loaded.Files.Frameworks
	}
	return m, nil
}
