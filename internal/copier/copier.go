// Package copier mirrors the relevant subset of a project tree into the
// shadow tree. Copying is keyed on file relevance, not content: source
// files, the manifest, and the lockfile qualify, everything else is
// skipped, and directories that would end up empty are never created.
package copier

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"sws/internal/errors"
)

// Rules is the allow-list deciding which files are mirrored
type Rules struct {
	SourceExtension  string // e.g. ".sw"
	ManifestFileName string // e.g. "Forc.toml"
	LockFileName     string // e.g. "Forc.lock"
}

// Relevant reports whether a file name qualifies for copying
func (r Rules) Relevant(name string) bool {
	return strings.HasSuffix(name, r.SourceExtension) ||
		name == r.ManifestFileName ||
		name == r.LockFileName
}

// CopyRelevant recursively mirrors srcDir into dstDir, copying only files
// matching rules. Target subdirectories are materialized lazily, only once
// a qualifying file (possibly deeper down) needs them. Returns true iff
// anything was copied.
func CopyRelevant(srcDir, dstDir string, rules Rules) (bool, error) {
	copied, err := copyContents(srcDir, dstDir, rules)
	if err != nil {
		return copied, errors.New(errors.CopyContentsFailed, "copying "+srcDir+" into "+dstDir, err)
	}
	return copied, nil
}

func copyContents(srcDir, dstDir string, rules Rules) (bool, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return false, err
	}

	hasRelevantFiles := false
	for _, entry := range entries {
		srcPath := filepath.Join(srcDir, entry.Name())
		if entry.IsDir() {
			// Recurse first; the target subdirectory is only created by
			// the nested call if something down there qualifies.
			sub, err := copyContents(srcPath, filepath.Join(dstDir, entry.Name()), rules)
			if err != nil {
				return hasRelevantFiles, err
			}
			if sub {
				hasRelevantFiles = true
			}
			continue
		}

		if !entry.Type().IsRegular() || !rules.Relevant(entry.Name()) {
			continue
		}

		if !hasRelevantFiles {
			if err := os.MkdirAll(dstDir, 0755); err != nil {
				return false, err
			}
			hasRelevantFiles = true
		}
		if err := copyFile(srcPath, filepath.Join(dstDir, entry.Name())); err != nil {
			return hasRelevantFiles, err
		}
	}
	return hasRelevantFiles, nil
}

// copyFile writes through a temp file and renames, so concurrent readers
// of the shadow tree never observe a half-copied file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".sws-copy-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
