package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/calliope-music/calliope/biz/dal/model"
)

// GenreDAO handles lookups on the seeded genre catalogue.
type GenreDAO struct{}

func NewGenreDAO() *GenreDAO { return &GenreDAO{} }

func (dao *GenreDAO) ListNames(ctx context.Context, db *gorm.DB) ([]string, error) {
	var names []string
	if err := db.WithContext(ctx).Model(&model.Genre{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (dao *GenreDAO) Exists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Genre{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// Seed inserts the given genre names, ignoring ones already present so it
// is safe to run at every startup.
func (dao *GenreDAO) Seed(ctx context.Context, db *gorm.DB, names []string) error {
	genres := make([]model.Genre, 0, len(names))
	for _, name := range names {
		genres = append(genres, model.Genre{Name: name})
	}
	if len(genres) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&genres).Error
}
