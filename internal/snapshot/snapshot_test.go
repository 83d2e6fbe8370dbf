package snapshot

import (
	"archive/tar"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"sws/internal/testutil"
)

func TestWriteReadRoundTrip(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"Forc.toml":       "[project]\nname = \"wallet\"\n",
		"src/main.sw":     "contract;\n",
		"src/deep/lib.sw": "library;\n",
	})

	var buf bytes.Buffer
	if err := Write(&buf, src); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	dst := t.TempDir()
	if err := Read(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	for rel, want := range map[string]string{
		"Forc.toml":       "[project]\nname = \"wallet\"\n",
		"src/main.sw":     "contract;\n",
		"src/deep/lib.sw": "library;\n",
	} {
		got := testutil.ReadFile(t, filepath.Join(dst, filepath.FromSlash(rel)))
		if got != want {
			t.Errorf("Content mismatch for %s: %q", rel, got)
		}
	}
}

func TestWriteFileCreatesArchive(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"src/main.sw": "contract;\n",
	})
	out := filepath.Join(t.TempDir(), "wallet.tar.zst")

	if err := WriteFile(out, src); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !testutil.Exists(out) {
		t.Fatal("Archive file missing")
	}

	dst := t.TempDir()
	data := testutil.ReadFile(t, out)
	if err := Read(strings.NewReader(data), dst); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !testutil.Exists(filepath.Join(dst, "src", "main.sw")) {
		t.Error("Expected src/main.sw after extraction")
	}
}

func TestWriteFileMissingSource(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.tar.zst")
	if err := WriteFile(out, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("Expected error for missing source")
	}
	if testutil.Exists(out) {
		t.Error("Partial archive left behind after failure")
	}
}

func TestEntryNamesAreRelative(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"src/main.sw": "contract;\n",
	})

	var buf bytes.Buffer
	if err := Write(&buf, src); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	zr, err := zstd.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("zstd reader failed: %v", err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		if filepath.IsAbs(hdr.Name) || strings.HasPrefix(hdr.Name, "..") {
			t.Errorf("Entry name escapes root: %s", hdr.Name)
		}
	}
}

func TestReadRejectsEscapingEntries(t *testing.T) {
	var raw bytes.Buffer
	zw, err := zstd.NewWriter(&raw)
	if err != nil {
		t.Fatalf("zstd writer failed: %v", err)
	}
	tw := tar.NewWriter(zw)
	content := []byte("pwned")
	if err := tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0644,
		Size:     int64(len(content)),
	}); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close failed: %v", err)
	}

	parent := t.TempDir()
	dst := filepath.Join(parent, "dst")
	if err := Read(bytes.NewReader(raw.Bytes()), dst); err == nil {
		t.Fatal("Expected error for escaping entry")
	}
	if testutil.Exists(filepath.Join(parent, "escape.txt")) {
		t.Error("Escaping entry was extracted")
	}
}
