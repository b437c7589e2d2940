package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/calliope-music/calliope/pkg/common"
)

// CreatePlaylistRequest is the playlist creation payload. SongIDs may
// pre-fill the playlist with existing songs.
type CreatePlaylistRequest struct {
	Title   string `json:"title"`
	SongIDs []uint `json:"song_ids"`
}

// AddSongsRequest adds songs to an existing playlist.
type AddSongsRequest struct {
	SongIDs []uint `json:"song_ids"`
}

// CreatePlaylist creates a playlist for the caller.
func (h *Handler) CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	var req CreatePlaylistRequest
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	playlist, err := h.svc.CreatePlaylist(ctx, userID, req.Title, req.SongIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, playlist)
}

// ListPlaylists returns the caller's playlists.
func (h *Handler) ListPlaylists(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	playlists, err := h.svc.ListPlaylists(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, playlists)
}

// GetPlaylist returns one playlist with its songs.
func (h *Handler) GetPlaylist(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	playlistID, err := pathID(c, "id")
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	detail, err := h.svc.GetPlaylist(ctx, userID, playlistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, detail)
}

// AddSongsToPlaylist links songs into a playlist.
func (h *Handler) AddSongsToPlaylist(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	playlistID, err := pathID(c, "id")
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	var req AddSongsRequest
	if err := c.BindAndValidate(&req); err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	if err := h.svc.AddSongsToPlaylist(ctx, userID, playlistID, req.SongIDs); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

// DeletePlaylist removes a playlist. The songs stay in the library.
func (h *Handler) DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	userID, _ := common.GetUserID(ctx)
	playlistID, err := pathID(c, "id")
	if err != nil {
		respondError(c, consts.StatusBadRequest, err)
		return
	}
	if err := h.svc.DeletePlaylist(ctx, userID, playlistID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}
