package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
)

// PlaylistDetail is a playlist with its resolved songs.
type PlaylistDetail struct {
	Playlist model.Playlist `json:"playlist"`
	Songs    []model.Song   `json:"songs"`
}

// CreatePlaylist creates an empty playlist, optionally pre-filled with an
// initial set of the user's songs.
func (s *Service) CreatePlaylist(ctx context.Context, userID uint, title string, songIDs []uint) (*model.Playlist, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "playlist title is required"}}
	}

	taken, err := s.playlists.TitleExists(ctx, s.db, userID, title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateTitle
	}

	playlist := &model.Playlist{UserID: userID, Title: title}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.playlists.Create(ctx, tx, playlist); err != nil {
			return err
		}
		for _, songID := range songIDs {
			if _, err := s.songs.GetByIDAndUser(ctx, tx, songID, userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSongNotFound
				}
				return err
			}
			if err := s.playlists.AddSong(ctx, tx, playlist.ID, songID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// ListPlaylists returns the user's playlists, newest first.
func (s *Service) ListPlaylists(ctx context.Context, userID uint) ([]model.Playlist, error) {
	return s.playlists.ListByUser(ctx, s.db, userID)
}

// GetPlaylist returns one playlist with its songs, enforcing ownership.
func (s *Service) GetPlaylist(ctx context.Context, userID, playlistID uint) (*PlaylistDetail, error) {
	playlist, err := s.playlists.GetByIDAndUser(ctx, s.db, playlistID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	songs, err := s.playlists.ListSongs(ctx, s.db, playlist.ID)
	if err != nil {
		return nil, err
	}
	return &PlaylistDetail{Playlist: *playlist, Songs: songs}, nil
}

// AddSongsToPlaylist links the given songs into the playlist. Both the
// playlist and every song must belong to the user; a song already present
// reports ErrSongAlreadyInList.
func (s *Service) AddSongsToPlaylist(ctx context.Context, userID, playlistID uint, songIDs []uint) error {
	playlist, err := s.playlists.GetByIDAndUser(ctx, s.db, playlistID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlaylistNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, songID := range songIDs {
			if _, err := s.songs.GetByIDAndUser(ctx, tx, songID, userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSongNotFound
				}
				return err
			}
			present, err := s.playlists.ContainsSong(ctx, tx, playlist.ID, songID)
			if err != nil {
				return err
			}
			if present {
				return ErrSongAlreadyInList
			}
			if err := s.playlists.AddSong(ctx, tx, playlist.ID, songID); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePlaylist removes the playlist and its links; songs stay in the
// library.
func (s *Service) DeletePlaylist(ctx context.Context, userID, playlistID uint) error {
	playlist, err := s.playlists.GetByIDAndUser(ctx, s.db, playlistID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlaylistNotFound
		}
		return err
	}
	return s.playlists.Delete(ctx, s.db, playlist.ID)
}
