package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/calliope-music/calliope/biz/service"
	"github.com/calliope-music/calliope/pkg/common"
	"github.com/calliope-music/calliope/pkg/storage"
)

// Multipart part names for the song upload form.
const (
	partAudioFile  = "audioFile"
	partCoverImage = "coverImage"
)

// UploadSong accepts a multipart form with the song metadata plus the
// audio file and album cover.
func (h *Handler) UploadSong(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)

	year, err := strconv.Atoi(c.PostForm("albumReleaseYear"))
	if err != nil {
		respondError(c, consts.StatusBadRequest, errors.New("invalid album release year"))
		return
	}

	audio, audioFile, err := formUpload(c, partAudioFile)
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	defer func() { _ = audioFile.Close() }()

	cover, coverFile, err := formUpload(c, partCoverImage)
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	defer func() { _ = coverFile.Close() }()

	song, err := h.svc.UploadSong(ctx, userID, service.SongUploadInput{
		Title:            c.PostForm("title"),
		AlbumName:        c.PostForm("albumName"),
		ArtistName:       c.PostForm("artistName"),
		AlbumReleaseYear: year,
		Genre:            c.PostForm("genre"),
		Audio:            audio,
		Cover:            cover,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, song)
}

// formUpload opens one multipart file part as a storage upload. The caller
// owns the returned file handle.
func formUpload(c *app.RequestContext, name string) (storage.Upload, multipart.File, error) {
	header, err := c.FormFile(name)
	if err != nil {
		return storage.Upload{}, nil, errors.New("missing file part " + name)
	}
	f, err := header.Open()
	if err != nil {
		return storage.Upload{}, nil, errors.New("unreadable file part " + name)
	}
	return storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        f,
	}, f, nil
}

// ListSongs returns the caller's song library.
func (h *Handler) ListSongs(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	songs, err := h.svc.ListSongs(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, songs)
}

// GetSong returns one song by ID.
func (h *Handler) GetSong(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	songID, err := pathID(c, "id")
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	song, err := h.svc.GetSong(ctx, userID, songID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, song)
}

// DeleteSong removes a song together with its media files.
func (h *Handler) DeleteSong(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	songID, err := pathID(c, "id")
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	if err := h.svc.DeleteSong(ctx, userID, songID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

// ListGenres returns the genre catalogue for the upload form.
func (h *Handler) ListGenres(ctx context.Context, c *app.RequestContext) {
	genres, err := h.svc.ListGenres(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, genres)
}
