package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BasePath = t.TempDir()
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func imageUpload(name string, size int) Upload {
	return Upload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(size),
		Data:        bytes.NewReader(bytes.Repeat([]byte{0xAB}, size)),
	}
}

func TestNewStore(t *testing.T) {
	t.Run("CreatesLayout", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "nested", "media")
		store, err := NewStore(Config{BasePath: base})
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		for _, dir := range []string{"covers", "songs"} {
			info, err := os.Stat(filepath.Join(store.BasePath(), dir))
			if err != nil || !info.IsDir() {
				t.Errorf("sub-directory %s not created: %v", dir, err)
			}
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		base := t.TempDir()
		if _, err := NewStore(Config{BasePath: base}); err != nil {
			t.Fatalf("first NewStore: %v", err)
		}
		if _, err := NewStore(Config{BasePath: base}); err != nil {
			t.Fatalf("NewStore on existing layout: %v", err)
		}
	})

	t.Run("MissingBasePath", func(t *testing.T) {
		_, err := NewStore(Config{BasePath: "  "})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("NewStore error = %v, want *ConfigError", err)
		}
	})
}

// Scenario A from the serving contract: a PNG cover upload lands under
// covers/ with a UUID name, and fetching the returned path round-trips.
func TestSaveAndFetchRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(imageUpload("cover.png", 2048), ClassImage)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	pattern := regexp.MustCompile(`^covers/[0-9a-f-]{36}\.png$`)
	if !pattern.MatchString(rel) {
		t.Fatalf("Save returned %q, want match of %s", rel, pattern)
	}

	abs, size, err := store.Fetch(rel)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if size != 2048 {
		t.Errorf("Fetch size = %d, want 2048", size)
	}
	info, err := os.Stat(abs)
	if err != nil {
		t.Fatalf("stat fetched path: %v", err)
	}
	if !info.Mode().IsRegular() || info.Size() != 2048 {
		t.Errorf("fetched path is not a 2048-byte regular file")
	}
}

func TestSaveRejections(t *testing.T) {
	store := newTestStore(t)

	t.Run("UnknownClass", func(t *testing.T) {
		_, err := store.Save(imageUpload("a.png", 10), AssetClass("video"))
		var secErr *SecurityError
		if !errors.As(err, &secErr) {
			t.Fatalf("error = %v, want *SecurityError", err)
		}
	})

	t.Run("InvalidImage", func(t *testing.T) {
		up := imageUpload("a.exe", 10)
		_, err := store.Save(up, ClassImage)
		var secErr *SecurityError
		if !errors.As(err, &secErr) {
			t.Fatalf("error = %v, want *SecurityError", err)
		}
		if secErr.Reason != "invalid image file" {
			t.Errorf("reason = %q, want class-specific diagnostic", secErr.Reason)
		}
	})

	t.Run("InvalidAudio", func(t *testing.T) {
		up := Upload{Filename: "a.mp3", ContentType: "video/mp4", Size: 10, Data: strings.NewReader("xxxxxxxxxx")}
		_, err := store.Save(up, ClassAudio)
		var secErr *SecurityError
		if !errors.As(err, &secErr) {
			t.Fatalf("error = %v, want *SecurityError", err)
		}
		if secErr.Reason != "invalid audio file" {
			t.Errorf("reason = %q, want class-specific diagnostic", secErr.Reason)
		}
	})

	t.Run("NoFileLeftOnFailedValidation", func(t *testing.T) {
		before := listFiles(t, store.BasePath())
		_, _ = store.Save(imageUpload("a.exe", 10), ClassImage)
		after := listFiles(t, store.BasePath())
		if len(after) != len(before) {
			t.Errorf("rejected upload left files behind: %v", after)
		}
	})
}

func TestFetchErrors(t *testing.T) {
	store := newTestStore(t)

	t.Run("WellFormedButMissing", func(t *testing.T) {
		_, _, err := store.Fetch("covers/doesnotexist.png")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Traversal", func(t *testing.T) {
		_, _, err := store.Fetch("../../etc/passwd")
		var secErr *SecurityError
		if !errors.As(err, &secErr) {
			t.Fatalf("error = %v, want *SecurityError", err)
		}
	})

	t.Run("DirectoryTarget", func(t *testing.T) {
		// A directory that happens to match the path shape must not be
		// served.
		if err := os.MkdirAll(filepath.Join(store.BasePath(), "covers", "dir.png"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		_, _, err := store.Fetch("covers/dir.png")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(imageUpload("cover.png", 64), ClassImage)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := store.Delete(rel)
	if err != nil || !ok {
		t.Fatalf("first Delete = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = store.Delete(rel)
	if err != nil || !ok {
		t.Fatalf("second Delete = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = store.Delete("covers/neverexisted.png")
	if err != nil || !ok {
		t.Fatalf("Delete of never-created path = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestDeleteRefusesIrregularTarget(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Join(store.BasePath(), "covers", "dir.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := store.Delete("covers/dir.png")
	var secErr *SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("error = %v, want *SecurityError", err)
	}
}

func TestCleanupBestEffort(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(imageUpload("cover.png", 32), ClassImage)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mixed batch: real file, unsafe path, missing file, empty string.
	// None of them may panic or propagate.
	store.Cleanup(rel, "../../etc/passwd", "songs/gone.mp3", "")

	if _, _, err := store.Fetch(rel); !errors.Is(err, ErrNotFound) {
		t.Errorf("cleaned-up file still fetchable: %v", err)
	}
}

func TestGenerateUniqueName(t *testing.T) {
	if got := GenerateUniqueName("song.mp3"); !strings.HasSuffix(got, ".mp3") {
		t.Errorf("extension not preserved: %q", got)
	}
	if got := GenerateUniqueName("noextension"); strings.Contains(got, ".") {
		t.Errorf("unexpected extension: %q", got)
	}
}

// Concurrent saves with the same original filename must never collide.
func TestConcurrentSaveUniqueness(t *testing.T) {
	store := newTestStore(t)

	const n = 200
	var wg sync.WaitGroup
	paths := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rel, err := store.Save(imageUpload("same.png", 8), ClassImage)
			if err != nil {
				t.Errorf("Save: %v", err)
				return
			}
			paths <- rel
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool, n)
	for p := range paths {
		if seen[p] {
			t.Fatalf("duplicate relative path %q", p)
		}
		seen[p] = true
	}
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return files
}
