package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/model"
)

// UserDAO handles CRUD operations for user accounts.
type UserDAO struct{}

func NewUserDAO() *UserDAO { return &UserDAO{} }

func (dao *UserDAO) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	if user == nil {
		return nil
	}
	return db.WithContext(ctx).Create(user).Error
}

func (dao *UserDAO) GetByID(ctx context.Context, db *gorm.DB, id uint) (*model.User, error) {
	var user model.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetByUsername(ctx context.Context, db *gorm.DB, username string) (*model.User, error) {
	var user model.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) UsernameExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the account row only. Song rows, playlist rows and asset
// files are the service layer's responsibility.
func (dao *UserDAO) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Delete(&model.User{}, id).Error
}
