package shadow

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// MetadataFileName is written next to every shadow root, inside the temp
// parent directory.
const MetadataFileName = "shadow.toml"

// Metadata travels with a shadow tree so tooling can recognize and reap
// stray trees even when the session ledger is gone.
type Metadata struct {
	// SessionID is the immutable UUID of the owning session
	SessionID string `toml:"session_id"`

	// Project is the project name the shadow root is named after
	Project string `toml:"project"`

	// ManifestRoot is the real project directory
	ManifestRoot string `toml:"manifest_root"`

	// ShadowRoot is the mirror directory under the temp parent
	ShadowRoot string `toml:"shadow_root"`

	// CreatedAt is when the shadow tree was allocated
	CreatedAt time.Time `toml:"created_at"`
}

// WriteMetadata persists metadata into dir/shadow.toml
func WriteMetadata(dir string, md *Metadata) error {
	f, err := os.Create(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return toml.NewEncoder(f).Encode(md)
}

// ReadMetadata loads dir/shadow.toml
func ReadMetadata(dir string) (*Metadata, error) {
	var md Metadata
	if _, err := toml.DecodeFile(filepath.Join(dir, MetadataFileName), &md); err != nil {
		return nil, err
	}
	return &md, nil
}
