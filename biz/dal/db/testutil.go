package db

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/calliope-music/calliope/biz/dal/model"
	"github.com/calliope-music/calliope/pkg/auth"
)

// SetupTestDB creates an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Song{},
		&model.Playlist{},
		&model.PlaylistSong{},
		&model.Genre{},
		&model.Session{},
	); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestUser creates a user with a real password hash.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("test-password")
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Name:         "Test",
		Surname:      username,
	}
	if err := NewUserDAO().Create(context.Background(), db, user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestSong creates a song owned by userID with plausible asset paths.
func CreateTestSong(t *testing.T, db *gorm.DB, userID uint, title string) *model.Song {
	t.Helper()
	song := &model.Song{
		UserID:           userID,
		Title:            title,
		AlbumName:        "Test Album",
		ArtistName:       "Test Artist",
		AlbumReleaseYear: 2001,
		Genre:            "Rock",
		AlbumCoverPath:   "covers/00000000-0000-0000-0000-000000000000.png",
		AudioFilePath:    "songs/00000000-0000-0000-0000-000000000000.mp3",
	}
	if err := NewSongDAO().Create(context.Background(), db, song); err != nil {
		t.Fatalf("Failed to create test song: %v", err)
	}
	return song
}

// CreateTestSession creates a valid session for userID.
func CreateTestSession(t *testing.T, db *gorm.DB, userID uint) *model.Session {
	t.Helper()
	token, err := auth.NewSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := NewSessionDAO().Create(context.Background(), db, session); err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session
}
