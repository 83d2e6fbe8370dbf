package registry

import (
	"fmt"
	"sync"
	"testing"

	"sws/internal/errors"
)

func TestSetAndGet(t *testing.T) {
	r := New()

	r.Set(ManifestRoot, "/real/project")
	r.Set(ShadowRoot, "/tmp/shadow/project")

	got, err := r.Get(ManifestRoot)
	if err != nil {
		t.Fatalf("Get(ManifestRoot) failed: %v", err)
	}
	if got != "/real/project" {
		t.Errorf("Expected /real/project, got %s", got)
	}

	got, err = r.Get(ShadowRoot)
	if err != nil {
		t.Fatalf("Get(ShadowRoot) failed: %v", err)
	}
	if got != "/tmp/shadow/project" {
		t.Errorf("Expected /tmp/shadow/project, got %s", got)
	}
}

func TestSetOverwrites(t *testing.T) {
	r := New()

	r.Set(ManifestRoot, "/first")
	r.Set(ManifestRoot, "/second")

	got, err := r.Get(ManifestRoot)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "/second" {
		t.Errorf("Expected overwrite to win, got %s", got)
	}
}

func TestGetMissingRoles(t *testing.T) {
	r := New()

	_, err := r.Get(ManifestRoot)
	if !errors.HasCode(err, errors.ManifestDirNotFound) {
		t.Errorf("Expected MANIFEST_DIR_NOT_FOUND, got %v", err)
	}

	_, err = r.Get(ShadowRoot)
	if !errors.HasCode(err, errors.TempDirNotFound) {
		t.Errorf("Expected TEMP_DIR_NOT_FOUND, got %v", err)
	}
}

func TestClear(t *testing.T) {
	r := New()
	r.Set(ManifestRoot, "/real")
	r.Set(ShadowRoot, "/shadow")

	r.Clear()

	if _, err := r.Get(ManifestRoot); err == nil {
		t.Error("Expected error after Clear")
	}
	if _, err := r.Get(ShadowRoot); err == nil {
		t.Error("Expected error after Clear")
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	r.Set(ManifestRoot, "/seed")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Set(ManifestRoot, fmt.Sprintf("/writer-%d", n))
		}(i)
		go func() {
			defer wg.Done()
			if _, err := r.Get(ManifestRoot); err != nil {
				t.Errorf("Concurrent Get failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// A write that returned must be visible to a later reader.
	r.Set(ShadowRoot, "/visible")
	got, err := r.Get(ShadowRoot)
	if err != nil || got != "/visible" {
		t.Errorf("Expected /visible, got %q (err %v)", got, err)
	}
}
