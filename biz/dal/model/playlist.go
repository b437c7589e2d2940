package model

import "time"

// Playlist groups a user's songs. Titles are unique per user.
type Playlist struct {
	ID        uint      `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_playlist_user_title" json:"user_id,omitempty"`
	Title     string    `gorm:"column:title;size:256;uniqueIndex:idx_playlist_user_title" json:"title,omitempty"`
}

// TableName overrides gorm to use the playlist table.
func (Playlist) TableName() string {
	return "playlist"
}

// PlaylistSong links a song into a playlist. A song appears in a playlist
// at most once.
type PlaylistSong struct {
	ID         uint `gorm:"primaryKey" json:"id,omitempty"`
	PlaylistID uint `gorm:"column:playlist_id;uniqueIndex:idx_playlist_song" json:"playlist_id,omitempty"`
	SongID     uint `gorm:"column:song_id;uniqueIndex:idx_playlist_song" json:"song_id,omitempty"`
}

// TableName overrides gorm to use the playlist_song table.
func (PlaylistSong) TableName() string {
	return "playlist_song"
}
