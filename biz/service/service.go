// Package service implements the application logic between the HTTP
// handlers and the data/storage layers.
package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/db"
	"github.com/calliope-music/calliope/pkg/storage"
)

// Service bundles the database handle, the asset store and the DAOs. It is
// constructed once at startup and shared by all request handlers.
type Service struct {
	db         *gorm.DB
	store      *storage.Store
	sessionTTL time.Duration

	users     *db.UserDAO
	songs     *db.SongDAO
	playlists *db.PlaylistDAO
	genres    *db.GenreDAO
	sessions  *db.SessionDAO
}

// Sentinel errors handlers translate to HTTP statuses.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrSongNotFound       = errors.New("song not found")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrDuplicateSong      = errors.New("song already uploaded")
	ErrDuplicateTitle     = errors.New("playlist title already used")
	ErrSongAlreadyInList  = errors.New("song already in playlist")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// NewService wires the service with its collaborators. sessionTTL bounds
// how long a login stays valid.
func NewService(database *gorm.DB, store *storage.Store, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &Service{
		db:         database,
		store:      store,
		sessionTTL: sessionTTL,
		users:      db.NewUserDAO(),
		songs:      db.NewSongDAO(),
		playlists:  db.NewPlaylistDAO(),
		genres:     db.NewGenreDAO(),
		sessions:   db.NewSessionDAO(),
	}
}

// Store exposes the asset store for the file serving handler.
func (s *Service) Store() *storage.Store {
	return s.store
}
