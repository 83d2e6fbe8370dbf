// Package shadow orchestrates one shadow workspace per serviced project:
// a disposable mirror of the project tree that analysis tooling can read
// and annotate while the user's real files stay untouched.
package shadow

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"sws/internal/config"
	"sws/internal/copier"
	"sws/internal/errors"
	"sws/internal/logging"
	"sws/internal/manifest"
	"sws/internal/paths"
	"sws/internal/registry"
	"sws/internal/source"
	"sws/internal/watcher"
)

// Workspace is the per-session orchestrator. It owns exactly one directory
// registry and at most one background manifest watcher. All methods other
// than the watch loop run synchronously on the caller and may be invoked
// concurrently.
type Workspace struct {
	id      string
	lang    config.LanguageConfig
	deb     time.Duration
	logger  *logging.Logger
	roots   *registry.Registry

	watchMu sync.Mutex
	watch   *watcher.ManifestWatcher
}

// NewWorkspace creates an empty session for the given language rules.
func NewWorkspace(cfg *config.Config, logger *logging.Logger) *Workspace {
	return &Workspace{
		id:     uuid.New().String(),
		lang:   cfg.Language,
		deb:    time.Duration(cfg.Watcher.DebounceMs) * time.Millisecond,
		logger: logger,
		roots:  registry.New(),
	}
}

// AttachWorkspace rebuilds a session object for a previously created
// shadow tree, e.g. one recorded in the session ledger. Both roots are
// registered immediately; no filesystem validation happens here.
func AttachWorkspace(cfg *config.Config, logger *logging.Logger, id, manifestDir, shadowDir string) *Workspace {
	w := NewWorkspace(cfg, logger)
	w.id = id
	w.roots.Set(registry.ManifestRoot, manifestDir)
	w.roots.Set(registry.ShadowRoot, shadowDir)
	return w
}

// SessionID returns the immutable UUID of this session
func (w *Workspace) SessionID() string {
	return w.id
}

// CreateFromWorkspace validates the project manifest, allocates the shadow
// temp directory, and registers both roots. Any failure leaves the
// registry empty, never partially populated.
func (w *Workspace) CreateFromWorkspace(manifestDir string) error {
	dir, err := paths.Canonicalize(manifestDir)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(dir, w.lang.ManifestFileName)
	if _, err := manifest.ParseFile(manifestPath); err != nil {
		return err
	}

	projectName := filepath.Base(dir)
	if projectName == "." || projectName == string(filepath.Separator) || projectName == "" {
		return errors.Newf(errors.CantExtractProjectName, "cannot derive a project name from %q", dir)
	}

	parent, err := os.MkdirTemp("", paths.ShadowTempToken+"-*")
	if err != nil {
		return errors.New(errors.TempDirFailed, "allocating shadow temp directory", err)
	}
	parent, err = paths.Canonicalize(parent)
	if err != nil {
		_ = os.RemoveAll(parent)
		return err
	}
	shadowRoot := filepath.Join(parent, projectName)

	md := &Metadata{
		SessionID:    w.id,
		Project:      projectName,
		ManifestRoot: dir,
		ShadowRoot:   shadowRoot,
		CreatedAt:    time.Now().UTC(),
	}
	if err := WriteMetadata(parent, md); err != nil {
		// Metadata is advisory; the session works without it.
		w.logger.Warn("Failed to write shadow metadata", map[string]interface{}{
			"dir":   parent,
			"error": err.Error(),
		})
	}

	w.roots.Set(registry.ManifestRoot, dir)
	w.roots.Set(registry.ShadowRoot, shadowRoot)

	w.logger.Info("Created shadow workspace", map[string]interface{}{
		"session":  w.id,
		"project":  projectName,
		"manifest": dir,
		"shadow":   shadowRoot,
	})
	return nil
}

// Resync overwrites the shadow tree with the relevant contents of the
// current workspace and refreshes the shadow manifest. Each call is a
// full, idempotent re-derivation.
func (w *Workspace) Resync() error {
	manifestDir, err := w.roots.Get(registry.ManifestRoot)
	if err != nil {
		return err
	}
	shadowDir, err := w.roots.Get(registry.ShadowRoot)
	if err != nil {
		return err
	}

	if _, err := copier.CopyRelevant(manifestDir, shadowDir, w.copyRules()); err != nil {
		return err
	}

	manifestPath := filepath.Join(manifestDir, w.lang.ManifestFileName)
	if _, err := os.Stat(manifestPath); err != nil {
		// Nothing to rewrite when the manifest has gone missing since
		// session creation; the copier already mirrored what exists.
		return nil
	}
	return manifest.RewriteDependencyPaths(
		manifestDir,
		manifestPath,
		filepath.Join(shadowDir, w.lang.ManifestFileName),
	)
}

// WatchAndSync starts the background watch over the real manifest
// directory. The first sync pass runs before the watch begins, so the
// shadow manifest is correct even if no edit ever happens.
func (w *Workspace) WatchAndSync(ctx context.Context) error {
	manifestDir, err := w.roots.Get(registry.ManifestRoot)
	if err != nil {
		return err
	}
	shadowDir, err := w.roots.Get(registry.ShadowRoot)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(manifestDir, w.lang.ManifestFileName)
	shadowManifestPath := filepath.Join(shadowDir, w.lang.ManifestFileName)

	w.watchMu.Lock()
	defer w.watchMu.Unlock()
	if w.watch != nil {
		return nil
	}

	mw := watcher.New(manifestDir, w.deb, func() error {
		return manifest.RewriteDependencyPaths(manifestDir, manifestPath, shadowManifestPath)
	}, w.logger.With(map[string]interface{}{"session": w.id}))

	if err := mw.Start(ctx); err != nil {
		return err
	}
	w.watch = mw
	return nil
}

// StopWatch cancels the background watch, if any. Idempotent.
func (w *Workspace) StopWatch() {
	w.watchMu.Lock()
	mw := w.watch
	w.watch = nil
	w.watchMu.Unlock()

	if mw != nil {
		mw.Stop()
	}
}

// Teardown stops watching and removes the shadow tree's parent temp
// directory. Cleanup is advisory: failures are swallowed so shutdown is
// never blocked.
func (w *Workspace) Teardown() {
	w.StopWatch()
	if dir, err := w.roots.Get(registry.ShadowRoot); err == nil {
		_ = os.RemoveAll(filepath.Dir(dir))
	}
	w.roots.Clear()
}

// ManifestDir returns the real project directory
func (w *Workspace) ManifestDir() (string, error) {
	return w.roots.Get(registry.ManifestRoot)
}

// ShadowDir returns the shadow mirror directory
func (w *Workspace) ShadowDir() (string, error) {
	return w.roots.Get(registry.ShadowRoot)
}

// ManifestPath returns the path of the real manifest file
func (w *Workspace) ManifestPath() (string, error) {
	dir, err := w.roots.Get(registry.ManifestRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, w.lang.ManifestFileName), nil
}

// ShadowManifestPath returns the path of the shadow manifest file
func (w *Workspace) ShadowManifestPath() (string, error) {
	dir, err := w.roots.Get(registry.ShadowRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, w.lang.ManifestFileName), nil
}

// ToShadowURL converts a client file URL to the same file in the shadow tree
func (w *Workspace) ToShadowURL(rawURL string) (string, error) {
	manifestDir, err := w.roots.Get(registry.ManifestRoot)
	if err != nil {
		return "", err
	}
	shadowDir, err := w.roots.Get(registry.ShadowRoot)
	if err != nil {
		return "", err
	}
	return paths.RebaseURL(rawURL, manifestDir, shadowDir)
}

// ToRealURL converts a shadow-tree file URL back to the user's workspace
func (w *Workspace) ToRealURL(rawURL string) (string, error) {
	manifestDir, err := w.roots.Get(registry.ManifestRoot)
	if err != nil {
		return "", err
	}
	shadowDir, err := w.roots.Get(registry.ShadowRoot)
	if err != nil {
		return "", err
	}
	return paths.RebaseURL(rawURL, shadowDir, manifestDir)
}

// MapToRealIfInShadow translates shadow URLs back to the workspace and
// passes everything else through untouched. Locations outside the shadow
// tree point at external dependencies that must stay as they are.
func (w *Workspace) MapToRealIfInShadow(rawURL string) (string, error) {
	if !paths.InShadowWorkspace(rawURL) {
		return rawURL, nil
	}
	return w.ToRealURL(rawURL)
}

// ToRealSpan rebuilds a shadow-tree span over the corresponding real file.
// The byte range is preserved; only the source identifier changes, because
// identifiers are scoped to the root the file lives under. Spans outside
// the shadow tree come back unchanged.
func (w *Workspace) ToRealSpan(sources *source.Registry, span source.Span) (source.Span, error) {
	path, ok := sources.PathOf(span.Source)
	if !ok {
		return source.Span{}, errors.Newf(errors.SpanFromPathFailed, "span references unknown source %d", span.Source)
	}
	if !paths.InShadowWorkspace(path) {
		return span, nil
	}

	manifestDir, err := w.roots.Get(registry.ManifestRoot)
	if err != nil {
		return source.Span{}, err
	}
	shadowDir, err := w.roots.Get(registry.ShadowRoot)
	if err != nil {
		return source.Span{}, err
	}
	realPath, err := paths.Rebase(path, shadowDir, manifestDir)
	if err != nil {
		return source.Span{}, err
	}

	id := sources.ResolveOrCreate(realPath)
	if id == source.InvalidID {
		return source.Span{}, errors.Newf(errors.SpanFromPathFailed, "cannot resolve source for %q", realPath)
	}
	return source.NewSpan(id, span.Start, span.End), nil
}

func (w *Workspace) copyRules() copier.Rules {
	return copier.Rules{
		SourceExtension:  w.lang.SourceExtension,
		ManifestFileName: w.lang.ManifestFileName,
		LockFileName:     w.lang.LockFileName,
	}
}
