package model

import "time"

// Song is one uploaded track. AlbumCoverPath and AudioFilePath are the
// DB-persisted relative asset paths ("covers/<uuid>.<ext>",
// "songs/<uuid>.<ext>"); the files themselves live in the asset store.
type Song struct {
	ID               uint      `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"-"`
	UserID           uint      `gorm:"column:user_id;index:idx_song_user" json:"user_id,omitempty"`
	Title            string    `gorm:"column:title;size:256" json:"title,omitempty"`
	AlbumName        string    `gorm:"column:album_name;size:256" json:"album_name,omitempty"`
	ArtistName       string    `gorm:"column:artist_name;size:256" json:"artist_name,omitempty"`
	AlbumReleaseYear int       `gorm:"column:album_release_year" json:"album_release_year,omitempty"`
	Genre            string    `gorm:"column:genre;size:64" json:"genre,omitempty"`
	AlbumCoverPath   string    `gorm:"column:album_cover_path;size:512" json:"album_cover_path,omitempty"`
	AudioFilePath    string    `gorm:"column:audio_file_path;size:512" json:"audio_file_path,omitempty"`
}

// TableName overrides gorm to use the song table.
func (Song) TableName() string {
	return "song"
}
