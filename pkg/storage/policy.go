package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// AssetClass identifies one of the two supported upload categories. Each
// class has its own storage sub-directory and allowed extension/MIME sets.
type AssetClass string

const (
	ClassImage AssetClass = "image"
	ClassAudio AssetClass = "audio"
)

var (
	imageExtensions = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "gif": true,
	}
	audioExtensions = map[string]bool{
		"mp3": true, "wav": true, "ogg": true, "m4a": true,
	}

	// Union of both classes, used for path validation where the class is
	// not known up front.
	allowedExtensions = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "gif": true,
		"mp3": true, "wav": true, "ogg": true, "m4a": true,
	}

	// Image MIME types are matched exactly. Audio MIME types are
	// inconsistent across browsers, so audio is matched by prefix instead
	// (see IsAcceptableUpload).
	imageMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	}
)

// Policy is the pure, side-effect-free decision logic for path and upload
// safety. It is built once from the storage configuration and is safe for
// concurrent use.
type Policy struct {
	coversDir     string
	songsDir      string
	maxUploadSize int64
}

// NewPolicy builds a Policy for the given sub-directory names and upload
// size ceiling in bytes.
func NewPolicy(coversDir, songsDir string, maxUploadSize int64) *Policy {
	return &Policy{
		coversDir:     coversDir,
		songsDir:      songsDir,
		maxUploadSize: maxUploadSize,
	}
}

// IsPathSafe reports whether relativePath has the canonical
// "<directory>/<filename>" shape and references an allowed directory and
// extension. It rejects traversal segments, backslashes, hidden files and
// anything that is not exactly two path segments deep.
func (p *Policy) IsPathSafe(relativePath string) bool {
	if strings.TrimSpace(relativePath) == "" {
		return false
	}
	clean := strings.TrimPrefix(relativePath, "/")
	if clean == "" || strings.Contains(clean, "..") || strings.Contains(clean, `\`) {
		return false
	}

	parts := strings.Split(clean, "/")
	if len(parts) != 2 {
		return false
	}

	dir := parts[0]
	if dir != p.coversDir && dir != p.songsDir {
		return false
	}

	name := parts[1]
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}

	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return false
	}
	return allowedExtensions[strings.ToLower(name[dot+1:])]
}

// ResolveSafely maps relativePath to an absolute filesystem path under
// baseDir, failing with *SecurityError on any input IsPathSafe rejects or
// any resolution that would land outside baseDir. Containment is checked on
// the cleaned absolute path, and existing components are resolved through
// symlinks so a link planted under the base cannot be used to escape it.
func (p *Policy) ResolveSafely(baseDir, relativePath string) (string, error) {
	if !p.IsPathSafe(relativePath) {
		return "", &SecurityError{Reason: "invalid or unsafe path"}
	}

	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", &SecurityError{Reason: "cannot resolve storage root"}
	}
	baseAbs = filepath.Clean(baseAbs)

	rel := filepath.FromSlash(strings.TrimPrefix(relativePath, "/"))
	target := filepath.Clean(filepath.Join(baseAbs, rel))
	if !isWithin(baseAbs, target) {
		return "", &SecurityError{Reason: "path escapes storage root"}
	}

	// The base itself may sit behind a symlink (e.g. /tmp on some
	// systems), so containment of resolved components is checked against
	// the resolved base.
	resolvedBase, err := filepath.EvalSymlinks(baseAbs)
	if err != nil {
		return "", &SecurityError{Reason: "cannot resolve storage root"}
	}
	if existing := nearestExisting(target); existing != "" {
		resolved, err := filepath.EvalSymlinks(existing)
		if err != nil {
			return "", &SecurityError{Reason: "cannot resolve path"}
		}
		if !isWithin(filepath.Clean(resolvedBase), filepath.Clean(resolved)) {
			return "", &SecurityError{Reason: "path escapes storage root"}
		}
	}

	return target, nil
}

// IsAcceptableUpload reports whether an upload with the given size,
// submitted filename and declared MIME type is acceptable for the class.
// Image MIME types must match the whitelist exactly; audio accepts any
// "audio/" type plus "application/ogg" because audio MIME reporting varies
// wildly between clients.
func (p *Policy) IsAcceptableUpload(class AssetClass, size int64, filename, mimeType string) bool {
	if size <= 0 || size > p.maxUploadSize {
		return false
	}
	if filename == "" {
		return false
	}

	var exts map[string]bool
	switch class {
	case ClassImage:
		exts = imageExtensions
	case ClassAudio:
		exts = audioExtensions
	default:
		return false
	}

	lower := strings.ToLower(filename)
	validExt := false
	for ext := range exts {
		if strings.HasSuffix(lower, "."+ext) {
			validExt = true
			break
		}
	}
	if !validExt {
		return false
	}

	mt := normalizeMimeType(mimeType)
	if mt == "" {
		return false
	}
	if class == ClassImage {
		return imageMimeTypes[mt]
	}
	return strings.HasPrefix(mt, "audio/") || mt == "application/ogg"
}

// MaxUploadSize returns the upload ceiling in bytes.
func (p *Policy) MaxUploadSize() int64 {
	return p.maxUploadSize
}

// normalizeMimeType lowercases the declared content type and strips
// parameters such as "; charset=utf-8".
func normalizeMimeType(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mt, ";"); idx > 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return mt
}

// isWithin reports whether candidate equals root or lives underneath it.
// Both arguments must already be cleaned absolute paths; the comparison is
// separator-aware so "/base-evil" never matches root "/base".
func isWithin(root, candidate string) bool {
	if root == candidate {
		return true
	}
	sep := string(filepath.Separator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(candidate, root)
}

// nearestExisting walks up from p to the closest path component that exists
// on disk, so symlink resolution can be applied to it. Returns "" when
// nothing on the way up can be inspected.
func nearestExisting(p string) string {
	cur := p
	for {
		if _, err := os.Lstat(cur); err == nil {
			return cur
		} else if !os.IsNotExist(err) {
			return ""
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
}
