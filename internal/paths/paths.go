// Package paths rebases file locations between the real project tree and
// its shadow mirror. All functions are pure with respect to session state;
// the shadow classification in particular works on the path structure
// alone so it is safe to call before a session is established.
package paths

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"sws/internal/errors"
)

// ShadowTempToken is the fixed token embedded in every shadow temp
// directory name. It is the sole mechanism for recognizing shadow-tree
// locations, so it must stay stable across releases.
const ShadowTempToken = "sws-shadow"

// Rebase strips fromRoot from path and re-prefixes it with toRoot. The
// referenced file stays the same; only the root the path is expressed
// under changes.
func Rebase(path, fromRoot, toRoot string) (string, error) {
	rel, err := filepath.Rel(fromRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.StripPrefixFailed, "path %q is not under root %q", path, fromRoot)
	}
	return filepath.Join(toRoot, rel), nil
}

// RebaseURL applies Rebase to the path component of a file:// URL.
func RebaseURL(rawURL, fromRoot, toRoot string) (string, error) {
	path, err := FromFileURL(rawURL)
	if err != nil {
		return "", err
	}
	rebased, err := Rebase(path, fromRoot, toRoot)
	if err != nil {
		return "", err
	}
	return ToFileURL(rebased), nil
}

// InShadowWorkspace reports whether a location (path or file URL) points
// into a shadow tree. Locations outside the shadow tree belong to the
// user's workspace or to an external dependency.
func InShadowWorkspace(location string) bool {
	return strings.Contains(location, ShadowTempToken)
}

// ToFileURL converts an absolute filesystem path to a file:// URL.
func ToFileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// FromFileURL extracts the filesystem path from a file:// URL.
func FromFileURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.New(errors.StripPrefixFailed, "invalid file URL "+rawURL, err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", errors.Newf(errors.StripPrefixFailed, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Path == "" {
		return "", errors.Newf(errors.StripPrefixFailed, "URL %q has no path component", rawURL)
	}
	return filepath.FromSlash(u.Path), nil
}

// Canonicalize resolves symlinks and returns the absolute form of path.
// The target must exist.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New(errors.CanonicalizeFailed, "cannot make path absolute: "+path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.CanonicalizeFailed, "path does not exist: "+abs, err)
		}
		return "", errors.New(errors.CanonicalizeFailed, "cannot resolve symlinks for: "+abs, err)
	}
	return resolved, nil
}
