// Package storage implements the filesystem-backed asset store for uploaded
// media: path safety validation, collision-free upload persistence and
// resolution of database-recorded relative paths back to files on disk.
//
// Assets are addressed by relative paths of the fixed shape
// "<directory>/<filename>" where directory is the covers or songs
// sub-directory and filename is a generated unique token plus the original
// extension. That string is what callers persist; the store never knows
// about database rows.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

// DefaultMaxUploadSize caps uploads at 10 MiB.
const DefaultMaxUploadSize = 10 * 1024 * 1024

// Config holds the storage layout settings loaded from the application
// configuration.
type Config struct {
	BasePath      string `yaml:"base_path"`
	CoversDir     string `yaml:"covers_dir"`
	SongsDir      string `yaml:"songs_dir"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig() Config {
	return Config{
		BasePath:      "data/media",
		CoversDir:     "covers",
		SongsDir:      "songs",
		MaxUploadSize: DefaultMaxUploadSize,
	}
}

// Upload describes one uploaded binary part as received at the HTTP
// boundary: the client-submitted filename, declared content type, size in
// bytes and the content reader.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Store is the only component that touches the asset filesystem. It is
// built once at startup and immutable afterwards, so it is safe for
// unlimited concurrent callers without locking.
type Store struct {
	basePath  string // absolute, cleaned
	coversDir string
	songsDir  string
	policy    *Policy
}

// NewStore resolves and materializes the directory layout: the base
// directory and both sub-directories are created if absent (mkdir -p
// semantics, tolerant of concurrent creation). A missing base path or an
// uncreatable directory yields a *ConfigError.
func NewStore(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.BasePath) == "" {
		return nil, &ConfigError{Reason: "storage base path is not configured"}
	}
	if cfg.CoversDir == "" {
		cfg.CoversDir = "covers"
	}
	if cfg.SongsDir == "" {
		cfg.SongsDir = "songs"
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}

	baseAbs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, &ConfigError{Reason: "resolve storage base path", Err: err}
	}
	baseAbs = filepath.Clean(baseAbs)

	for _, dir := range []string{baseAbs,
		filepath.Join(baseAbs, cfg.CoversDir),
		filepath.Join(baseAbs, cfg.SongsDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &ConfigError{Reason: "create storage directory " + dir, Err: err}
		}
	}

	return &Store{
		basePath:  baseAbs,
		coversDir: cfg.CoversDir,
		songsDir:  cfg.SongsDir,
		policy:    NewPolicy(cfg.CoversDir, cfg.SongsDir, cfg.MaxUploadSize),
	}, nil
}

// BasePath returns the absolute storage root.
func (s *Store) BasePath() string {
	return s.basePath
}

// Policy returns the validation policy the store was built with.
func (s *Store) Policy() *Policy {
	return s.policy
}

// GenerateUniqueName produces a random globally-unique filename preserving
// the extension of the original name, if it had one. UUIDv4 collision
// probability is negligible, so concurrent calls need no coordination.
func GenerateUniqueName(originalFilename string) string {
	ext := ""
	if idx := strings.LastIndex(originalFilename, "."); idx >= 0 {
		ext = originalFilename[idx:]
	}
	return uuid.NewString() + ext
}

// Save validates the upload against the class policy, writes it under a
// freshly generated unique name and returns the relative path the caller
// should persist. No partial file is ever left behind a returned path: on a
// failed write the destination is removed and only the error is returned.
func (s *Store) Save(up Upload, class AssetClass) (string, error) {
	var dir string
	switch class {
	case ClassImage:
		dir = s.coversDir
	case ClassAudio:
		dir = s.songsDir
	default:
		return "", &SecurityError{Reason: fmt.Sprintf("invalid asset class: %s", class)}
	}

	if !s.policy.IsAcceptableUpload(class, up.Size, up.Filename, up.ContentType) {
		if class == ClassImage {
			return "", &SecurityError{Reason: "invalid image file"}
		}
		return "", &SecurityError{Reason: "invalid audio file"}
	}

	name := GenerateUniqueName(up.Filename)

	// The layout was created at startup; re-check in case it was removed
	// underneath a long-running process.
	destDir := filepath.Join(s.basePath, dir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create asset directory: %w", err)
	}

	dest := filepath.Join(destDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	if _, err := io.Copy(f, up.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("write asset file: %w", err)
	}

	return dir + "/" + name, nil
}

// Fetch resolves relativePath and proves it references an existing regular
// file, returning the absolute path and byte length for response headers.
// It does not open the file; streaming is the caller's concern. Directories,
// symlinks and other irregular targets report ErrNotFound.
func (s *Store) Fetch(relativePath string) (string, int64, error) {
	abs, err := s.policy.ResolveSafely(s.basePath, relativePath)
	if err != nil {
		return "", 0, err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, ErrNotFound
		}
		return "", 0, fmt.Errorf("stat asset: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", 0, ErrNotFound
	}

	return abs, info.Size(), nil
}

// Delete removes the file at relativePath. Deleting something already gone
// is a success. An existing target that is not a regular file is refused
// with *SecurityError.
func (s *Store) Delete(relativePath string) (bool, error) {
	abs, err := s.policy.ResolveSafely(s.basePath, relativePath)
	if err != nil {
		return false, err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat asset: %w", err)
	}
	if !info.Mode().IsRegular() {
		return false, &SecurityError{Reason: "target is not a regular file"}
	}

	if err := os.Remove(abs); err != nil {
		return false, fmt.Errorf("delete asset: %w", err)
	}
	return true, nil
}

// Cleanup is the best-effort batch delete used to undo partially-completed
// multi-file uploads and to drop files when their owning row is removed.
// Every failure is swallowed per path; it never propagates.
func (s *Store) Cleanup(relativePaths ...string) {
	for _, p := range relativePaths {
		if p == "" {
			continue
		}
		if _, err := s.Delete(p); err != nil {
			hlog.Debugf("asset cleanup %s: %v", p, err)
		}
	}
}
