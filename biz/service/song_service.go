package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
	"github.com/calliope-music/calliope/pkg/storage"
)

// MinReleaseYear is the lower bound for album release years.
const MinReleaseYear = 1600

// SongUploadInput carries the upload form: the metadata fields plus the
// two binary parts.
type SongUploadInput struct {
	Title            string
	AlbumName        string
	ArtistName       string
	AlbumReleaseYear int
	Genre            string
	Audio            storage.Upload
	Cover            storage.Upload
}

// UploadSong validates the form, writes both files and inserts the song
// row. Each successful write is registered for rollback: when a later step
// fails, the already-written files are cleaned up best-effort before the
// error is surfaced, so no orphan file stays referenced.
func (s *Service) UploadSong(ctx context.Context, userID uint, input SongUploadInput) (*model.Song, error) {
	if err := s.validateSongMetadata(ctx, input); err != nil {
		return nil, err
	}

	exists, err := s.songs.Exists(ctx, s.db, userID, input.Title, input.AlbumName, input.ArtistName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSong
	}

	var saved []string
	rollback := func() { s.store.Cleanup(saved...) }

	audioPath, err := s.store.Save(input.Audio, storage.ClassAudio)
	if err != nil {
		return nil, err
	}
	saved = append(saved, audioPath)

	coverPath, err := s.store.Save(input.Cover, storage.ClassImage)
	if err != nil {
		rollback()
		return nil, err
	}
	saved = append(saved, coverPath)

	song := &model.Song{
		UserID:           userID,
		Title:            strings.TrimSpace(input.Title),
		AlbumName:        strings.TrimSpace(input.AlbumName),
		ArtistName:       strings.TrimSpace(input.ArtistName),
		AlbumReleaseYear: input.AlbumReleaseYear,
		Genre:            input.Genre,
		AlbumCoverPath:   coverPath,
		AudioFilePath:    audioPath,
	}
	if err := s.songs.Create(ctx, s.db, song); err != nil {
		rollback()
		return nil, err
	}
	return song, nil
}

func (s *Service) validateSongMetadata(ctx context.Context, input SongUploadInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "song title is required"
	}
	if strings.TrimSpace(input.AlbumName) == "" {
		fields["album_name"] = "album name is required"
	}
	if strings.TrimSpace(input.ArtistName) == "" {
		fields["artist_name"] = "artist name is required"
	}
	maxYear := time.Now().Year()
	if input.AlbumReleaseYear < MinReleaseYear || input.AlbumReleaseYear > maxYear {
		fields["album_release_year"] = "release year is out of range"
	}
	if strings.TrimSpace(input.Genre) == "" {
		fields["genre"] = "genre is required"
	} else {
		known, err := s.genres.Exists(ctx, s.db, input.Genre)
		if err != nil {
			return err
		}
		if !known {
			fields["genre"] = "unknown genre"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ListSongs returns the user's library.
func (s *Service) ListSongs(ctx context.Context, userID uint) ([]model.Song, error) {
	return s.songs.ListByUser(ctx, s.db, userID)
}

// GetSong returns one song, enforcing ownership.
func (s *Service) GetSong(ctx context.Context, userID, songID uint) (*model.Song, error) {
	song, err := s.songs.GetByIDAndUser(ctx, s.db, songID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return song, nil
}

// DeleteSong removes the song row (with its playlist links) and then the
// two asset files, best-effort. A song another user owns reports
// ErrSongNotFound rather than revealing its existence.
func (s *Service) DeleteSong(ctx context.Context, userID, songID uint) error {
	song, err := s.GetSong(ctx, userID, songID)
	if err != nil {
		return err
	}
	if err := s.songs.Delete(ctx, s.db, song.ID); err != nil {
		return err
	}
	s.store.Cleanup(song.AlbumCoverPath, song.AudioFilePath)
	return nil
}

// ListGenres returns the genre catalogue for upload forms.
func (s *Service) ListGenres(ctx context.Context) ([]string, error) {
	return s.genres.ListNames(ctx, s.db)
}
