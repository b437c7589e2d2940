package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
)

// SessionDAO handles login session rows.
type SessionDAO struct{}

func NewSessionDAO() *SessionDAO { return &SessionDAO{} }

func (dao *SessionDAO) Create(ctx context.Context, db *gorm.DB, session *model.Session) error {
	if session == nil {
		return nil
	}
	return db.WithContext(ctx).Create(session).Error
}

// GetValid returns the session for token if it exists and has not expired.
func (dao *SessionDAO) GetValid(ctx context.Context, db *gorm.DB, token string) (*model.Session, error) {
	var session model.Session
	if err := db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (dao *SessionDAO) Delete(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{}).Error
}

func (dao *SessionDAO) DeleteByUser(ctx context.Context, db *gorm.DB, userID uint) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Session{}).Error
}

// DeleteExpired drops all sessions past their expiry.
func (dao *SessionDAO) DeleteExpired(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.Session{}).Error
}
