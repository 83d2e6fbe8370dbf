// Package snapshot archives a shadow tree into a zstd-compressed tarball,
// e.g. for attaching the state of a misbehaving session to a bug report.
package snapshot

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Write archives rootDir (recursively) into w. Entry names inside the
// archive are relative to rootDir.
func Write(w io.Writer, rootDir string) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		_ = f.Close()
		return err
	})
	if err != nil {
		_ = tw.Close()
		_ = zw.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// WriteFile archives rootDir into a new file at outPath.
func WriteFile(outPath, rootDir string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", outPath, err)
	}
	if err := Write(f, rootDir); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return fmt.Errorf("archiving %s: %w", rootDir, err)
	}
	return f.Close()
}

// Read extracts an archive produced by Write into dstDir.
func Read(r io.Reader, dstDir string) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dstDir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
}

// safeJoin rejects entries that would escape dstDir.
func safeJoin(dstDir, name string) (string, error) {
	target := filepath.Join(dstDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dstDir, target)
	if err != nil || rel == ".." || filepath.IsAbs(rel) ||
		len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}
