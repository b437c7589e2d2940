package model

import "time"

// Session is one login session, addressed by its random token.
type Session struct {
	Token     string    `gorm:"column:token;primaryKey;size:64" json:"-"`
	UserID    uint      `gorm:"column:user_id;index:idx_session_user" json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	ExpiresAt time.Time `gorm:"column:expires_at;index:idx_session_expiry" json:"expires_at,omitempty"`
}

// TableName overrides gorm to use the session table.
func (Session) TableName() string {
	return "session"
}
