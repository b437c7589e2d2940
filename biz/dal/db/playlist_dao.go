package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
)

// PlaylistDAO handles CRUD operations for playlists and their song links.
type PlaylistDAO struct{}

func NewPlaylistDAO() *PlaylistDAO { return &PlaylistDAO{} }

func (dao *PlaylistDAO) Create(ctx context.Context, db *gorm.DB, playlist *model.Playlist) error {
	if playlist == nil {
		return nil
	}
	return db.WithContext(ctx).Create(playlist).Error
}

func (dao *PlaylistDAO) GetByIDAndUser(ctx context.Context, db *gorm.DB, playlistID, userID uint) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", playlistID, userID).
		First(&playlist).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (dao *PlaylistDAO) ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]model.Playlist, error) {
	var playlists []model.Playlist
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&playlists).Error; err != nil {
		return nil, err
	}
	return playlists, nil
}

func (dao *PlaylistDAO) TitleExists(ctx context.Context, db *gorm.DB, userID uint, title string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Playlist{}).
		Where("user_id = ? AND title = ?", userID, title).
		Count(&count).Error
	return count > 0, err
}

// AddSong links a song into a playlist. Duplicate links surface the
// database's unique constraint violation.
func (dao *PlaylistDAO) AddSong(ctx context.Context, db *gorm.DB, playlistID, songID uint) error {
	return db.WithContext(ctx).Create(&model.PlaylistSong{
		PlaylistID: playlistID,
		SongID:     songID,
	}).Error
}

func (dao *PlaylistDAO) ContainsSong(ctx context.Context, db *gorm.DB, playlistID, songID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.PlaylistSong{}).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Count(&count).Error
	return count > 0, err
}

// ListSongs returns the playlist's songs ordered like the song library.
func (dao *PlaylistDAO) ListSongs(ctx context.Context, db *gorm.DB, playlistID uint) ([]model.Song, error) {
	var songs []model.Song
	if err := db.WithContext(ctx).
		Joins("JOIN playlist_song ON playlist_song.song_id = song.id").
		Where("playlist_song.playlist_id = ?", playlistID).
		Order("song.artist_name ASC, song.album_release_year ASC, song.title ASC").
		Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

// Delete removes the playlist and its song links in one transaction. The
// songs themselves stay in the library.
func (dao *PlaylistDAO) Delete(ctx context.Context, db *gorm.DB, playlistID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, playlistID).Error
	})
}
