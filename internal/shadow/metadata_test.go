package shadow

import (
	"testing"
	"time"
)

func TestMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Metadata{
		SessionID:    "5e8c2a1f-0000-4000-8000-000000000000",
		Project:      "wallet",
		ManifestRoot: "/home/user/wallet",
		ShadowRoot:   "/tmp/sws-shadow-abc/wallet",
		CreatedAt:    time.Date(2026, 8, 20, 12, 30, 0, 0, time.UTC),
	}

	if err := WriteMetadata(dir, want); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}
	got, err := ReadMetadata(dir)
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}

	if got.SessionID != want.SessionID || got.Project != want.Project ||
		got.ManifestRoot != want.ManifestRoot || got.ShadowRoot != want.ShadowRoot {
		t.Errorf("Metadata mismatch:\nwant %+v\ngot  %+v", want, got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("Expected created_at %v, got %v", want.CreatedAt, got.CreatedAt)
	}
}

func TestReadMetadataMissing(t *testing.T) {
	if _, err := ReadMetadata(t.TempDir()); err == nil {
		t.Error("Expected error for missing shadow.toml")
	}
}
