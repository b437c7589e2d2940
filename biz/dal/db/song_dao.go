package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
)

// SongDAO handles CRUD operations for songs.
type SongDAO struct{}

func NewSongDAO() *SongDAO { return &SongDAO{} }

func (dao *SongDAO) Create(ctx context.Context, db *gorm.DB, song *model.Song) error {
	if song == nil {
		return nil
	}
	return db.WithContext(ctx).Create(song).Error
}

// GetByIDAndUser returns the song only if it belongs to the given user, so
// ownership is enforced by the query itself.
func (dao *SongDAO) GetByIDAndUser(ctx context.Context, db *gorm.DB, songID, userID uint) (*model.Song, error) {
	var song model.Song
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", songID, userID).
		First(&song).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

func (dao *SongDAO) ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]model.Song, error) {
	var songs []model.Song
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("artist_name ASC, album_release_year ASC, title ASC").
		Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

// Exists reports whether the user already uploaded a song with the same
// title, album and artist.
func (dao *SongDAO) Exists(ctx context.Context, db *gorm.DB, userID uint, title, albumName, artistName string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Song{}).
		Where("user_id = ? AND title = ? AND album_name = ? AND artist_name = ?",
			userID, title, albumName, artistName).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the song and its playlist memberships in one transaction.
func (dao *SongDAO) Delete(ctx context.Context, db *gorm.DB, songID uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", songID).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Song{}, songID).Error
	})
}
