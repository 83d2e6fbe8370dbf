package manifest

import (
	"os"
	"path/filepath"

	"sws/internal/errors"
	"sws/internal/paths"
)

// RewriteDependencyPaths reads the real manifest, converts every relative
// dependency path to the canonical absolute path of the real, unmodified
// package, and writes the result to the shadow manifest. Dependency
// resolution run inside the shadow tree then still finds the user's real
// dependencies.
//
// Each pass rebuilds its state from disk; nothing is cached between
// passes. The shadow write goes through a temp file and rename, so a pass
// racing another full overwrite stays benign.
func RewriteDependencyPaths(manifestDir, manifestPath, shadowManifestPath string) error {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return errors.New(errors.IOError, "reading manifest "+manifestPath, err)
	}

	// Strict parse decides what to change, the editable document applies
	// it losslessly. The schema parse cannot be re-serialized faithfully
	// and the document has no notion of a dependency, so both are needed.
	schema, err := Parse(raw)
	if err != nil {
		return errors.New(errors.ManifestParseFailed, "parsing manifest "+manifestPath, err)
	}
	doc := ParseDocument(string(raw))

	if schema.IsPackage() {
		for name, dep := range schema.DependencyEntries() {
			if dep.Path == "" || filepath.IsAbs(dep.Path) {
				continue
			}
			abs, err := paths.Canonicalize(filepath.Join(manifestDir, dep.Path))
			if err != nil {
				return err
			}
			doc.SetDependencyPath(name, abs)
		}
	}

	if err := writeAtomic(shadowManifestPath, []byte(doc.String())); err != nil {
		return errors.New(errors.UnableToWriteFile, "writing shadow manifest "+shadowManifestPath, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sws-manifest-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
