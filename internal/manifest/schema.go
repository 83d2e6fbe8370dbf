// Package manifest reads Forc manifests and rewrites dependency paths for
// the shadow tree. Two independent representations of the same document
// are used: a strict schema parse decides what to change, a lossless
// editable document applies the change without disturbing formatting.
package manifest

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"sws/internal/errors"
)

// Manifest is the strict schema view of a Forc.toml
type Manifest struct {
	// Project is present for package manifests
	Project *ProjectSection `toml:"project"`

	// Workspace is present for multi-package workspace manifests
	Workspace *WorkspaceSection `toml:"workspace"`

	// Dependencies holds raw entries; values are either a version string
	// (short form) or a table (detailed form)
	Dependencies map[string]interface{} `toml:"dependencies"`
}

// ProjectSection is the [project] table of a package manifest
type ProjectSection struct {
	Name    string   `toml:"name"`
	Authors []string `toml:"authors,omitempty"`
	Entry   string   `toml:"entry,omitempty"`
	License string   `toml:"license,omitempty"`
}

// WorkspaceSection is the [workspace] table of a workspace manifest
type WorkspaceSection struct {
	Members []string `toml:"members"`
}

// Dependency is the normalized view of a single dependency entry
type Dependency struct {
	Version string
	Path    string
	Git     string
	Branch  string
	Tag     string
}

// IsPackage reports whether this is a package manifest rather than a
// workspace manifest. Only package manifests carry rewritable
// dependencies.
func (m *Manifest) IsPackage() bool {
	return m.Project != nil && m.Workspace == nil
}

// DependencyEntries returns the normalized dependency table.
func (m *Manifest) DependencyEntries() map[string]Dependency {
	deps := make(map[string]Dependency, len(m.Dependencies))
	for name, raw := range m.Dependencies {
		deps[name] = asDependency(raw)
	}
	return deps
}

func asDependency(raw interface{}) Dependency {
	switch v := raw.(type) {
	case string:
		// Short form: foo = "1.0"
		return Dependency{Version: v}
	case map[string]interface{}:
		return Dependency{
			Version: stringField(v, "version"),
			Path:    stringField(v, "path"),
			Git:     stringField(v, "git"),
			Branch:  stringField(v, "branch"),
			Tag:     stringField(v, "tag"),
		}
	default:
		return Dependency{}
	}
}

func stringField(table map[string]interface{}, key string) string {
	if s, ok := table[key].(string); ok {
		return s
	}
	return ""
}

// Parse parses manifest text through the strict schema.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile loads and parses the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ManifestFileNotFound, "no manifest at "+path, err)
		}
		return nil, errors.New(errors.IOError, "reading manifest "+path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.New(errors.ManifestParseFailed, "parsing manifest "+path, err)
	}
	return m, nil
}
