package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"

	"github.com/calliope-music/calliope/biz/dal/db"
	"github.com/calliope-music/calliope/biz/dal/model"
)

// DefaultGenres is the fixed genre catalogue offered on the upload form.
var DefaultGenres = []string{
	"Blues",
	"Classical",
	"Country",
	"Electronic",
	"Folk",
	"Hip-Hop",
	"Jazz",
	"Metal",
	"Pop",
	"Punk",
	"R&B",
	"Reggae",
	"Rock",
	"Soul",
	"Soundtrack",
}

// EnsureSchema migrates the tables and seeds the genre catalogue. Safe to
// run at every startup.
func EnsureSchema(ctx context.Context, dbConn *gorm.DB) error {
	if err := dbConn.AutoMigrate(
		&model.User{},
		&model.Song{},
		&model.Playlist{},
		&model.PlaylistSong{},
		&model.Genre{},
		&model.Session{},
	); err != nil {
		return err
	}

	if err := db.NewGenreDAO().Seed(ctx, dbConn, DefaultGenres); err != nil {
		return err
	}
	hlog.Infof("schema ready, %d genres seeded", len(DefaultGenres))
	return nil
}
