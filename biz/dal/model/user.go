package model

import "time"

// User is a registered account. PasswordHash holds an Argon2id PHC string,
// never the plaintext.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"-"`
	Username     string    `gorm:"column:username;uniqueIndex:idx_user_username;size:64" json:"username,omitempty"`
	PasswordHash string    `gorm:"column:password_hash;type:text" json:"-"`
	Name         string    `gorm:"column:name;size:128" json:"name,omitempty"`
	Surname      string    `gorm:"column:surname;size:128" json:"surname,omitempty"`
}

// TableName overrides gorm to use the user table.
func (User) TableName() string {
	return "user"
}
