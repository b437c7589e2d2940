package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/calliope-music/calliope/pkg/common"
)

// ServeFile streams a stored media file back to an authenticated caller.
// The path parameter is validated and resolved by the asset store before
// any filesystem access happens; traversal attempts come back as 403 and
// missing files as 404.
func (h *Handler) ServeFile(ctx context.Context, c *app.RequestContext) {
	// Authorization is checked before touching the filesystem so an
	// anonymous probe learns nothing about which paths exist.
	if _, ok := common.GetUserID(ctx); !ok {
		respondError(c, consts.StatusForbidden, errAccessDenied)
		return
	}

	relPath := strings.TrimPrefix(c.Param("filepath"), "/")
	if relPath == "" {
		respondError(c, consts.StatusBadRequest, errors.New("missing file path"))
		return
	}

	absPath, size, err := h.svc.Store().Fetch(relPath)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	f, err := os.Open(absPath)
	if err != nil {
		hlog.CtxErrorf(ctx, "open %s: %v", absPath, err)
		respondError(c, consts.StatusInternalServerError, errFileUnavailable)
		return
	}

	c.Response.Header.Set("Content-Type", contentTypeFor(relPath))
	c.Response.Header.Set("X-Content-Type-Options", "nosniff")
	c.Response.Header.Set("Content-Disposition",
		`inline; filename="`+sanitizeFilename(path.Base(relPath))+`"`)

	// The engine closes the stream once the response is written.
	c.SetBodyStream(&loggedReader{ctx: ctx, name: relPath, r: f}, int(size))
}

var (
	errAccessDenied    = errors.New("access denied")
	errFileUnavailable = errors.New("file unavailable")
)

// contentTypeFor picks a Content-Type from the file extension, falling
// back to a sensible default per asset directory.
func contentTypeFor(relPath string) string {
	if ct := mime.TypeByExtension(path.Ext(relPath)); ct != "" {
		return ct
	}
	switch {
	case strings.HasPrefix(relPath, "covers/"):
		return "image/jpeg"
	case strings.HasPrefix(relPath, "songs/"):
		return "audio/mpeg"
	}
	return "application/octet-stream"
}

// sanitizeFilename strips characters that would break out of the quoted
// Content-Disposition filename parameter.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\r', '\n', '\\':
			return -1
		}
		return r
	}, name)
}

// loggedReader reports disk read failures that happen after the response
// headers have already been sent, where the client only sees a truncated
// body.
type loggedReader struct {
	ctx  context.Context
	name string
	r    io.ReadCloser
}

func (lr *loggedReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	if err != nil && err != io.EOF {
		hlog.CtxErrorf(lr.ctx, "streaming %s: %v", lr.name, err)
	}
	return n, err
}

func (lr *loggedReader) Close() error {
	return lr.r.Close()
}
