package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
	"github.com/calliope-music/calliope/pkg/auth"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Surname  string
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	fields := map[string]string{}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		fields["username"] = "username is required"
	}
	if input.Password == "" {
		fields["password"] = "password is required"
	} else if len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(input.Surname) == "" {
		fields["surname"] = "surname is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	taken, err := s.users.UsernameExists(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
	}
	if err := s.users.Create(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and mints a session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.GetByUsername(ctx, s.db, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, "", err
	}
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, s.db, session); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a session token to a user ID. Expired or unknown
// tokens report no user.
func (s *Service) Authenticate(ctx context.Context, token string) (uint, bool) {
	if token == "" {
		return 0, false
	}
	session, err := s.sessions.GetValid(ctx, s.db, token)
	if err != nil {
		return 0, false
	}
	return session.UserID, true
}

// Logout revokes the session token. Revoking an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, s.db, token)
}

// PruneExpiredSessions removes sessions past their expiry. Run
// periodically; expired sessions are already rejected on lookup, this
// just keeps the table small.
func (s *Service) PruneExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx, s.db)
}

// GetUser returns the account profile.
func (s *Service) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	return s.users.GetByID(ctx, s.db, userID)
}

// DeleteAccount removes the user with every song, playlist and session in
// one transaction, then cleans the song files off disk best-effort. File
// cleanup happens after the commit so a rolled-back delete never loses
// assets that are still referenced.
func (s *Service) DeleteAccount(ctx context.Context, userID uint) error {
	songs, err := s.songs.ListByUser(ctx, s.db, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, song := range songs {
			if err := s.songs.Delete(ctx, tx, song.ID); err != nil {
				return err
			}
		}
		playlists, err := s.playlists.ListByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, playlist := range playlists {
			if err := s.playlists.Delete(ctx, tx, playlist.ID); err != nil {
				return err
			}
		}
		if err := s.sessions.DeleteByUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	for _, song := range songs {
		s.store.Cleanup(song.AlbumCoverPath, song.AudioFilePath)
	}
	return nil
}
